package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indusnetwork/bridge/internal/model"
)

func newDeliveryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delivery",
		Short: "Store delivery commands",
	}

	cmd.AddCommand(newDeliveryPendingCmd())
	cmd.AddCommand(newDeliveryCompleteCmd())

	return cmd
}

func newDeliveryPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <player-id>",
		Short: "List a player's pending deliveries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePlayerID(args[0])
			if err != nil {
				return err
			}

			items := client.PendingDeliveries(cmd.Context(), id)

			rows := make([]DeliveryRow, 0, len(items))
			for _, item := range items {
				rows = append(rows, DeliveryRow{
					ID:       item.ID,
					ItemID:   item.ItemID,
					Status:   string(item.Status),
					Commands: item.Commands,
				})
			}

			NewOutput(cfg.Output).Print(Deliveries{PlayerID: string(id), Items: rows})
			return nil
		},
	}
}

func newDeliveryCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <delivery-id>",
		Short: "Acknowledge a delivery as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deliveryID := args[0]
			if !client.CompleteDelivery(cmd.Context(), deliveryID) {
				return fmt.Errorf("completion rejected for delivery %s", deliveryID)
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("delivery %s completed", deliveryID))
			return nil
		},
	}
}
