package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case Deliveries:
		o.printDeliveries(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account is the CLI view of a remote account
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Rank     string `json:"rank"`
	Coins    int    `json:"coins"`
	Verified bool   `json:"verified"`
}

// Deliveries is the CLI view of a player's pending delivery queue
type Deliveries struct {
	PlayerID string        `json:"player_id"`
	Items    []DeliveryRow `json:"items"`
}

// DeliveryRow is one pending delivery
type DeliveryRow struct {
	ID       string   `json:"id"`
	ItemID   string   `json:"item_id"`
	Status   string   `json:"status"`
	Commands []string `json:"commands"`
}

func (o *Output) printAccount(a Account) {
	verifiedStr := "no"
	if a.Verified {
		verifiedStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", a.Username, a.ID)
	fmt.Printf("Rank: %s\n", a.Rank)
	fmt.Printf("Coins: %d\n", a.Coins)
	fmt.Printf("Verified: %s\n", verifiedStr)
}

func (o *Output) printDeliveries(d Deliveries) {
	fmt.Printf("Pending deliveries for %s (%d):\n", d.PlayerID, len(d.Items))
	for _, item := range d.Items {
		fmt.Printf("  - %s [%s] %s\n", item.ID, item.Status, item.ItemID)
		for _, command := range item.Commands {
			fmt.Printf("      %s\n", strings.TrimSpace(command))
		}
	}
}
