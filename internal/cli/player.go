package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indusnetwork/bridge/internal/model"
	"github.com/indusnetwork/bridge/internal/remote"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player account commands",
	}

	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerVerifyCmd())
	cmd.AddCommand(newPlayerStatusCmd())

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Fetch a player's remote account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePlayerID(args[0])
			if err != nil {
				return err
			}

			result := client.FetchAccount(cmd.Context(), id)
			switch result.Status {
			case remote.FetchNotFound:
				return fmt.Errorf("no account for player %s", id)
			case remote.FetchUnavailable:
				return fmt.Errorf("web service unavailable")
			}

			out := NewOutput(cfg.Output)
			out.Print(Account{
				ID:       string(id),
				Username: result.Account.Username,
				Rank:     result.Account.Rank,
				Coins:    result.Account.Coins,
				Verified: result.Account.Verified,
			})
			return nil
		},
	}
}

func newPlayerVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <player-id> <code>",
		Short: "Link a player to their website account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePlayerID(args[0])
			if err != nil {
				return err
			}

			if !client.VerifyPlayer(cmd.Context(), id, args[1]) {
				return fmt.Errorf("verification rejected for player %s", id)
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("player %s verified", id))
			return nil
		},
	}
}

func newPlayerStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <player-id> <online|offline>",
		Short: "Push a player's online status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePlayerID(args[0])
			if err != nil {
				return err
			}

			var online bool
			switch args[1] {
			case "online":
				online = true
			case "offline":
				online = false
			default:
				return fmt.Errorf("status must be 'online' or 'offline', got %q", args[1])
			}

			if !client.PushStatus(cmd.Context(), id, online) {
				return fmt.Errorf("status push rejected for player %s", id)
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("player %s marked %s", id, args[1]))
			return nil
		},
	}
}
