package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/shopspring/decimal"
)

// Optimizer runs the 1D first-fit-decreasing roll packing.
type Optimizer struct {
	Settings model.CutSettings
}

func New(settings model.CutSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// Optimize places every ordered piece onto rolls of Settings.RollLength.
// Input is validated before any placement happens: an invalid order or a
// piece longer than the roll aborts the run with no partial plan.
// Zero orders produce an empty plan.
func (o *Optimizer) Optimize(orders []model.Order) (model.CutPlan, error) {
	if err := ValidateOrders(o.Settings.RollLength, orders); err != nil {
		return model.CutPlan{}, err
	}

	pieces := SortPieces(ExpandOrders(orders))
	return o.firstFitDecreasing(pieces), nil
}

// ValidateOrders rejects a non-positive roll length, invalid orders, duplicate
// order IDs and pieces that can never fit on a roll.
func ValidateOrders(rollLength float64, orders []model.Order) error {
	if !model.IsFinite(rollLength) || rollLength <= 0 {
		return fmt.Errorf("%w: roll length must be a finite positive number, got %g", model.ErrInvalidInput, rollLength)
	}

	seen := make(map[string]bool, len(orders))
	for i, ord := range orders {
		if err := ord.Validate(); err != nil {
			return fmt.Errorf("order %d: %w", i+1, err)
		}
		if ord.ID != "" {
			if seen[ord.ID] {
				return fmt.Errorf("%w: duplicate order id %q", model.ErrInvalidInput, ord.ID)
			}
			seen[ord.ID] = true
		}
		if ord.Length > rollLength {
			return fmt.Errorf("%w: order %d piece %g is longer than roll %g", model.ErrPieceExceedsRoll, i+1, ord.Length, rollLength)
		}
	}
	return nil
}

// OrderID returns the order's ID, or a positional "O<n>" ID for orders
// submitted without one.
func OrderID(ord model.Order, index int) string {
	if ord.ID != "" {
		return ord.ID
	}
	return fmt.Sprintf("O%d", index+1)
}

// ExpandOrders turns each order into Quantity individual pieces, keeping
// submission order.
func ExpandOrders(orders []model.Order) []model.Piece {
	total := 0
	for _, ord := range orders {
		if ord.Quantity > 0 {
			total += ord.Quantity
		}
	}

	pieces := make([]model.Piece, 0, total)
	for i, ord := range orders {
		id := OrderID(ord, i)
		for seq := 1; seq <= ord.Quantity; seq++ {
			pieces = append(pieces, model.Piece{
				ID:         fmt.Sprintf("%s-%d", id, seq),
				OrderID:    id,
				OrderIndex: i,
				Seq:        seq,
				Label:      ord.Label,
				Length:     ord.Length,
			})
		}
	}
	return pieces
}

// SortPieces returns a copy of pieces sorted by length descending. The sort
// is stable so equal lengths keep submission order.
func SortPieces(pieces []model.Piece) []model.Piece {
	sorted := make([]model.Piece, len(pieces))
	copy(sorted, pieces)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Length > sorted[j].Length
	})
	return sorted
}

// openRoll tracks a roll while pieces are still being placed.
type openRoll struct {
	pieces []model.Piece
	used   decimal.Decimal
}

// firstFitDecreasing places pre-sorted pieces. Each piece goes into the first
// open roll, in creation order, with enough remaining length; otherwise a new
// roll is opened. Lengths are summed as decimals so a piece that exactly
// fills the remainder always fits.
func (o *Optimizer) firstFitDecreasing(pieces []model.Piece) model.CutPlan {
	rollLength := decimal.NewFromFloat(o.Settings.RollLength)

	var rolls []*openRoll
	for _, p := range pieces {
		length := decimal.NewFromFloat(p.Length)

		var target *openRoll
		for _, r := range rolls {
			if r.used.Add(length).LessThanOrEqual(rollLength) {
				target = r
				break
			}
		}
		if target == nil {
			target = &openRoll{used: decimal.Zero}
			rolls = append(rolls, target)
		}

		target.pieces = append(target.pieces, p)
		target.used = target.used.Add(length)
	}

	plan := model.CutPlan{
		RollLength: o.Settings.RollLength,
		Rolls:      make([]model.RollPlan, 0, len(rolls)),
	}
	for i, r := range rolls {
		plan.Rolls = append(plan.Rolls, model.RollPlan{
			Index:      i + 1,
			RollLength: o.Settings.RollLength,
			Pieces:     r.pieces,
			Used:       r.used.InexactFloat64(),
			Waste:      rollLength.Sub(r.used).InexactFloat64(),
		})
	}
	return plan
}
