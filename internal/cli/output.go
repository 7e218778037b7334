package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
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

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
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
	case AuthResult:
		o.printAuthResult(v)
	case Inventory:
		o.printInventory(v)
	case Creatures:
		o.printCreatures(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account Account `json:"account"`
	Token   string  `json:"token"`
}

// Inventory response type
type Inventory struct {
	Items []InventoryItem `json:"items"`
}

// InventoryItem response type
type InventoryItem struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// Creatures response type
type Creatures struct {
	Creatures []Creature `json:"creatures"`
}

// Creature response type
type Creature struct {
	ID        string    `json:"id"`
	SpeciesID int       `json:"species_id"`
	Level     int       `json:"level"`
	CurrentHP int       `json:"current_hp"`
	CaughtAt  time.Time `json:"caught_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	fmt.Printf("Account: %s (%s)\n", a.Username, a.ID)
	fmt.Printf("Display Name: %s\n", a.DisplayName)
	if a.Email != "" {
		fmt.Printf("Email: %s\n", a.Email)
	}
	fmt.Printf("Role: %s\n", a.Role)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printInventory(inv Inventory) {
	if len(inv.Items) == 0 {
		fmt.Println("Inventory is empty")
		return
	}
	fmt.Printf("Inventory (%d stacks):\n", len(inv.Items))
	for _, item := range inv.Items {
		fmt.Printf("  - item %d x%d\n", item.ItemID, item.Quantity)
	}
}

func (o *Output) printCreatures(c Creatures) {
	if len(c.Creatures) == 0 {
		fmt.Println("No creatures")
		return
	}
	fmt.Printf("Creatures (%d):\n", len(c.Creatures))
	for _, cr := range c.Creatures {
		fmt.Printf("  - %s: species %d, level %d, %d HP\n", cr.ID, cr.SpeciesID, cr.Level, cr.CurrentHP)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
