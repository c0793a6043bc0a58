package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rollLengths(r model.RollPlan) []float64 {
	out := make([]float64, len(r.Pieces))
	for i, p := range r.Pieces {
		out[i] = p.Length
	}
	return out
}

func TestOptimize_ScenarioMixedLengths(t *testing.T) {
	opt := New(model.CutSettings{RollLength: 100})
	orders := []model.Order{
		{Length: 60, Quantity: 1},
		{Length: 40, Quantity: 1},
		{Length: 30, Quantity: 1},
	}

	plan, err := opt.Optimize(orders)
	require.NoError(t, err)
	require.Len(t, plan.Rolls, 2)

	assert.Equal(t, []float64{60, 40}, rollLengths(plan.Rolls[0]))
	assert.Equal(t, 100.0, plan.Rolls[0].Used)
	assert.Equal(t, 0.0, plan.Rolls[0].Waste)

	assert.Equal(t, []float64{30}, rollLengths(plan.Rolls[1]))
	assert.Equal(t, 30.0, plan.Rolls[1].Used)
	assert.Equal(t, 70.0, plan.Rolls[1].Waste)
}

func TestOptimize_ScenarioRepeatedLength(t *testing.T) {
	opt := New(model.CutSettings{RollLength: 100})
	plan, err := opt.Optimize([]model.Order{{Length: 50, Quantity: 3}})
	require.NoError(t, err)
	require.Len(t, plan.Rolls, 2)

	assert.Equal(t, []float64{50, 50}, rollLengths(plan.Rolls[0]))
	assert.Equal(t, 0.0, plan.Rolls[0].Waste)
	assert.Equal(t, []float64{50}, rollLengths(plan.Rolls[1]))
	assert.Equal(t, 50.0, plan.Rolls[1].Waste)
}

func TestOptimize_EmptyOrders(t *testing.T) {
	opt := New(model.CutSettings{RollLength: 10})
	plan, err := opt.Optimize(nil)
	require.NoError(t, err)

	assert.Empty(t, plan.Rolls)
	assert.Equal(t, 0.0, plan.TotalWaste())
	assert.Equal(t, 0.0, plan.Efficiency())
	assert.False(t, math.IsNaN(plan.Efficiency()))
}

func TestOptimize_ExactFitIsInclusive(t *testing.T) {
	opt := New(model.CutSettings{RollLength: 10})
	plan, err := opt.Optimize([]model.Order{
		{Length: 6, Quantity: 1},
		{Length: 4, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, plan.Rolls, 1)
	assert.Equal(t, 0.0, plan.Rolls[0].Waste)
}

func TestOptimize_DecimalLengthsFillExactly(t *testing.T) {
	// 0.2 + 0.1 overshoots 0.3 in binary floating point.
	opt := New(model.CutSettings{RollLength: 0.3})
	plan, err := opt.Optimize([]model.Order{
		{Length: 0.2, Quantity: 1},
		{Length: 0.1, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, plan.Rolls, 1)
	assert.Equal(t, 0.3, plan.Rolls[0].Used)
	assert.Equal(t, 0.0, plan.Rolls[0].Waste)
}

func TestOptimize_FirstFitNotBestFit(t *testing.T) {
	// After 7 and 6 open two rolls (3 and 4 remaining), a 3 goes into the
	// first roll that fits rather than the tightest.
	opt := New(model.CutSettings{RollLength: 10})
	plan, err := opt.Optimize([]model.Order{
		{Length: 7, Quantity: 1},
		{Length: 6, Quantity: 1},
		{Length: 3, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, plan.Rolls, 2)
	assert.Equal(t, []float64{7, 3}, rollLengths(plan.Rolls[0]))
	assert.Equal(t, []float64{6}, rollLengths(plan.Rolls[1]))
}

func TestOptimize_PlacesEveryPieceOnce(t *testing.T) {
	opt := New(model.CutSettings{RollLength: 5})
	orders := []model.Order{
		{ID: "a", Length: 2.5, Quantity: 3},
		{ID: "b", Length: 1.2, Quantity: 7},
		{ID: "c", Length: 4.9, Quantity: 2},
		{ID: "d", Length: 0.3, Quantity: 11},
	}
	plan, err := opt.Optimize(orders)
	require.NoError(t, err)

	var want float64
	wantCount := 0
	for _, o := range orders {
		want += o.Total()
		wantCount += o.Quantity
	}

	seen := map[string]bool{}
	for _, r := range plan.Rolls {
		assert.LessOrEqual(t, r.Used, r.RollLength+1e-9, "roll %d overfilled", r.Index)
		assert.InDelta(t, r.RollLength, r.Used+r.Waste, 1e-9)
		for _, p := range r.Pieces {
			assert.False(t, seen[p.ID], "piece %s placed twice", p.ID)
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, wantCount)
	assert.Equal(t, wantCount, plan.PieceCount())
	assert.InDelta(t, want, plan.TotalUsed(), 1e-9)
}

func TestOptimize_Deterministic(t *testing.T) {
	orders := []model.Order{
		{Length: 3, Quantity: 4},
		{Length: 2, Quantity: 5},
		{Length: 3, Quantity: 2},
		{Length: 1.5, Quantity: 3},
	}
	opt := New(model.CutSettings{RollLength: 8})

	first, err := opt.Optimize(orders)
	require.NoError(t, err)
	second, err := opt.Optimize(orders)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOptimize_RollIndexesAreSequential(t *testing.T) {
	opt := New(model.CutSettings{RollLength: 3})
	plan, err := opt.Optimize([]model.Order{{Length: 2, Quantity: 4}})
	require.NoError(t, err)
	require.Len(t, plan.Rolls, 4)
	for i, r := range plan.Rolls {
		assert.Equal(t, i+1, r.Index)
	}
}

func TestOptimize_DoesNotMutateInput(t *testing.T) {
	orders := []model.Order{{Length: 1, Quantity: 2}, {Length: 3, Quantity: 1}}
	snapshot := append([]model.Order(nil), orders...)

	_, err := New(model.CutSettings{RollLength: 5}).Optimize(orders)
	require.NoError(t, err)
	assert.Equal(t, snapshot, orders)
}

func TestValidateOrders(t *testing.T) {
	tests := []struct {
		name    string
		roll    float64
		orders  []model.Order
		wantErr error
	}{
		{"zero roll", 0, nil, model.ErrInvalidInput},
		{"negative roll", -1, nil, model.ErrInvalidInput},
		{"NaN roll", math.NaN(), nil, model.ErrInvalidInput},
		{"infinite roll", math.Inf(1), []model.Order{{Length: 1, Quantity: 1}}, model.ErrInvalidInput},
		{"NaN length", 10, []model.Order{{Length: math.NaN(), Quantity: 1}}, model.ErrInvalidInput},
		{"infinite length", 10, []model.Order{{Length: math.Inf(1), Quantity: 1}}, model.ErrInvalidInput},
		{"zero length", 10, []model.Order{{Length: 0, Quantity: 1}}, model.ErrInvalidInput},
		{"zero quantity", 10, []model.Order{{Length: 1, Quantity: 0}}, model.ErrInvalidInput},
		{"duplicate id", 10, []model.Order{{ID: "x", Length: 1, Quantity: 1}, {ID: "x", Length: 2, Quantity: 1}}, model.ErrInvalidInput},
		{"too long", 10, []model.Order{{Length: 10.5, Quantity: 1}}, model.ErrPieceExceedsRoll},
		{"equal to roll", 10, []model.Order{{Length: 10, Quantity: 2}}, nil},
		{"no orders", 10, nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOrders(tc.roll, tc.orders)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestOptimize_PieceExceedsRollAbortsRun(t *testing.T) {
	opt := New(model.CutSettings{RollLength: 5})
	plan, err := opt.Optimize([]model.Order{
		{Length: 2, Quantity: 1},
		{Length: 6, Quantity: 1},
	})
	require.ErrorIs(t, err, model.ErrPieceExceedsRoll)
	assert.Empty(t, plan.Rolls, "no partial plan on failure")
}

func TestExpandOrders_AssignsIDs(t *testing.T) {
	pieces := ExpandOrders([]model.Order{
		{Length: 1, Quantity: 2},
		{ID: "kit", Label: "Kitchen", Length: 2, Quantity: 1},
	})
	require.Len(t, pieces, 3)

	assert.Equal(t, "O1-1", pieces[0].ID)
	assert.Equal(t, "O1-2", pieces[1].ID)
	assert.Equal(t, "O1", pieces[0].OrderID)
	assert.Equal(t, 2, pieces[1].Seq)

	assert.Equal(t, "kit-1", pieces[2].ID)
	assert.Equal(t, "Kitchen", pieces[2].Label)
	assert.Equal(t, 1, pieces[2].OrderIndex)
}

func TestSortPieces_DescendingAndStable(t *testing.T) {
	pieces := ExpandOrders([]model.Order{
		{ID: "a", Length: 2, Quantity: 2},
		{ID: "b", Length: 5, Quantity: 1},
		{ID: "c", Length: 2, Quantity: 1},
		{ID: "d", Length: 3, Quantity: 1},
	})
	sorted := SortPieces(pieces)

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		assert.GreaterOrEqual(t, prev.Length, cur.Length)
		if prev.Length == cur.Length {
			assert.LessOrEqual(t, prev.OrderIndex, cur.OrderIndex, "ties must keep submission order")
		}
	}

	ids := make([]string, len(sorted))
	for i, p := range sorted {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"b-1", "d-1", "a-1", "a-2", "c-1"}, ids)

	// the input is left untouched
	assert.Equal(t, "a-1", pieces[0].ID)
}
