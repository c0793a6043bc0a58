package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Order represents a requested cut length and how many pieces of it are needed.
type Order struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Length   float64 `json:"length"` // metres
	Quantity int     `json:"quantity"`
}

func NewOrder(label string, length float64, qty int) Order {
	return Order{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Quantity: qty,
	}
}

// Validate checks that the order has a positive length and quantity.
func (o Order) Validate() error {
	if !IsFinite(o.Length) || o.Length <= 0 {
		return fmt.Errorf("%w: order %q has invalid length %g", ErrInvalidInput, o.displayName(), o.Length)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: order %q has non-positive quantity %d", ErrInvalidInput, o.displayName(), o.Quantity)
	}
	return nil
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Total returns the total material length requested by the order.
func (o Order) Total() float64 {
	return o.Length * float64(o.Quantity)
}

func (o Order) displayName() string {
	if o.Label != "" {
		return o.Label
	}
	return o.ID
}

// Piece is one unit of an order, placed on exactly one roll.
type Piece struct {
	ID         string  `json:"id"`
	OrderID    string  `json:"order_id"`
	OrderIndex int     `json:"order_index"` // position of the order in the submitted list
	Seq        int     `json:"seq"`         // 1-based unit number within the order
	Label      string  `json:"label,omitempty"`
	Length     float64 `json:"length"`
}

// CutSettings holds cutting optimizer configuration.
type CutSettings struct {
	RollLength float64 `json:"roll_length"` // Stock roll length in metres
	MinOffcut  float64 `json:"min_offcut"`  // Remnants at least this long are reported as reusable offcuts; 0 disables
}

func DefaultCutSettings() CutSettings {
	return CutSettings{
		RollLength: 10.0,
		MinOffcut:  0.5,
	}
}

// RollPlan is one consumed roll with the pieces cut from it, in placement order.
// Used and Waste are fixed when the plan is built.
type RollPlan struct {
	Index      int     `json:"index"` // 1-based
	RollLength float64 `json:"roll_length"`
	Pieces     []Piece `json:"pieces"`
	Used       float64 `json:"used"`
	Waste      float64 `json:"waste"`
}

// Efficiency returns used length over roll length as a fraction.
func (rp RollPlan) Efficiency() float64 {
	if rp.RollLength <= 0 {
		return 0
	}
	return rp.Used / rp.RollLength
}

// CutPlan holds the full cutting solution.
type CutPlan struct {
	RollLength float64    `json:"roll_length"`
	Rolls      []RollPlan `json:"rolls"`
}

// PieceCount returns the number of placed pieces across all rolls.
func (cp CutPlan) PieceCount() int {
	total := 0
	for _, r := range cp.Rolls {
		total += len(r.Pieces)
	}
	return total
}

// TotalUsed returns the summed used length over all rolls.
func (cp CutPlan) TotalUsed() float64 {
	var total float64
	for _, r := range cp.Rolls {
		total += r.Used
	}
	return total
}

// TotalWaste returns the summed waste over all rolls.
func (cp CutPlan) TotalWaste() float64 {
	var total float64
	for _, r := range cp.Rolls {
		total += r.Waste
	}
	return total
}

// Efficiency returns overall material usage as a fraction. An empty plan has
// efficiency 0.
func (cp CutPlan) Efficiency() float64 {
	var used, total float64
	for _, r := range cp.Rolls {
		used += r.Used
		total += r.RollLength
	}
	if total == 0 {
		return 0
	}
	return used / total
}
