package planner

import (
	"context"
	"math"
	"testing"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/power"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cutOnly(roll float64, orders ...model.Order) Request {
	return Request{RollLength: roll, Orders: orders}
}

func withPower(req Request, strategy string, capacities ...float64) Request {
	tiers := make([]model.SupplyTier, len(capacities))
	for i, c := range capacities {
		tiers[i] = model.SupplyTier{Capacity: c}
	}
	req.Power = PowerRequest{
		Enabled:  true,
		Strategy: strategy,
		Catalog:  tiers,
		Settings: model.PowerSettings{Rate: 1, Precision: 2},
	}
	return req
}

func TestRun_CutOnly(t *testing.T) {
	res, err := Run(context.Background(), cutOnly(100,
		model.Order{Length: 60, Quantity: 1},
		model.Order{Length: 40, Quantity: 1},
		model.Order{Length: 30, Quantity: 1},
	))
	require.NoError(t, err)

	require.Len(t, res.Plan.Rolls, 2)
	assert.Equal(t, 3, res.Stats.TotalPieces)
	assert.Equal(t, 2, res.Stats.TotalRolls)
	assert.Equal(t, 2, res.Stats.LowerBoundRolls)
	assert.Equal(t, 130.0, res.Stats.TotalUsed)
	assert.Equal(t, 70.0, res.Stats.TotalWaste)
	assert.InDelta(t, 0.65, res.Stats.CutEfficiency, 1e-9)
	assert.Empty(t, res.Supplies)
	assert.Zero(t, res.Stats.TotalSupplies)
}

func TestRun_WithPower(t *testing.T) {
	// Rate 1 and no margin make each demand equal to the piece length.
	req := withPower(cutOnly(100,
		model.Order{Length: 45, Quantity: 1},
		model.Order{Length: 80, Quantity: 1},
		model.Order{Length: 30, Quantity: 1},
	), power.StrategyOnePerPiece, 60, 100)

	res, err := Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, res.Demands, 3)
	require.Len(t, res.Supplies, 3)
	assert.Equal(t, power.StrategyOnePerPiece, res.Strategy)
	assert.Equal(t, 220.0, res.Stats.InstalledCapacity)
	assert.Equal(t, 155.0, res.Stats.TotalLoad)
	assert.Equal(t, 3, res.Stats.TotalPieces, "cut stats survive power summary")
}

func TestRun_GroupedNeverUsesMoreSupplies(t *testing.T) {
	orders := []model.Order{
		{Length: 1.5, Quantity: 4},
		{Length: 2.25, Quantity: 3},
		{Length: 0.8, Quantity: 6},
	}
	base := cutOnly(10, orders...)

	single, err := Run(context.Background(), withPower(base, power.StrategyOnePerPiece, 1, 2, 3, 5))
	require.NoError(t, err)
	grouped, err := Run(context.Background(), withPower(base, power.StrategyGrouped, 1, 2, 3, 5))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(grouped.Supplies), len(single.Supplies))
	assert.Equal(t, single.Plan, grouped.Plan)
}

func TestRun_ReportsUnsatisfiable(t *testing.T) {
	req := withPower(cutOnly(100, model.Order{Length: 90, Quantity: 1}, model.Order{Length: 10, Quantity: 1}), "grouped", 60)

	res, err := Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, res.Unsatisfied, 1)
	assert.Equal(t, "O1-1", res.Unsatisfied[0].PieceID)
	require.Len(t, res.Supplies, 1)
	assert.Equal(t, []string{"O2-1"}, res.Supplies[0].PieceIDs())
	assert.Len(t, res.Stats.Unsatisfied, 1)
	assert.NotEmpty(t, res.Stats.Recommendations)
}

func TestRun_EmptyOrders(t *testing.T) {
	res, err := Run(context.Background(), cutOnly(10))
	require.NoError(t, err)
	assert.Empty(t, res.Plan.Rolls)
	assert.Zero(t, res.Stats.TotalWaste)
	assert.Zero(t, res.Stats.CutEfficiency)

	_, err = Run(context.Background(), withPower(cutOnly(10), "grouped", 60))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRun_FailsFast(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"zero roll", cutOnly(0, model.Order{Length: 1, Quantity: 1}), model.ErrInvalidInput},
		{"piece too long", cutOnly(5, model.Order{Length: 6, Quantity: 1}), model.ErrPieceExceedsRoll},
		{"negative offcut", Request{RollLength: 5, MinOffcut: -1}, model.ErrInvalidInput},
		{"empty catalog", withPower(cutOnly(5, model.Order{Length: 1, Quantity: 1}), "grouped"), model.ErrInvalidConfiguration},
		{"unknown strategy", withPower(cutOnly(5, model.Order{Length: 1, Quantity: 1}), "cheapest", 60), model.ErrInvalidConfiguration},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Run(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, res.Plan.Rolls)
		})
	}
}

func TestRun_BadRate(t *testing.T) {
	req := withPower(cutOnly(5, model.Order{Length: 1, Quantity: 1}), "grouped", 60)
	req.Power.Settings.Rate = 0
	_, err := Run(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, cutOnly(10, model.Order{Length: 1, Quantity: 1}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Offcuts(t *testing.T) {
	req := cutOnly(10, model.Order{Length: 6, Quantity: 1}, model.Order{Length: 9.8, Quantity: 1})
	req.MinOffcut = 1

	res, err := Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Offcuts, 1)
	assert.Equal(t, 2, res.Offcuts[0].RollIndex)
	assert.Equal(t, 4.0, res.Offcuts[0].Length)
}

func TestRun_Deterministic(t *testing.T) {
	req := withPower(cutOnly(10,
		model.Order{Length: 3.3, Quantity: 5},
		model.Order{Length: 2.1, Quantity: 7},
	), "grouped", 30, 60, 100)
	req.Power.Settings = model.DefaultPowerSettings()

	a, err := Run(context.Background(), req)
	require.NoError(t, err)
	b, err := Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewRequest_UsesConfigDefaults(t *testing.T) {
	cfg := model.DefaultAppConfig()
	req := NewRequest(cfg)

	assert.Equal(t, 10.0, req.RollLength)
	assert.True(t, req.Power.Enabled)
	assert.Equal(t, "grouped", req.Power.Strategy)
	assert.Len(t, req.Power.Catalog, 6)
	assert.Equal(t, 0.2, req.Power.Settings.SafetyMargin)
	assert.Equal(t, 10.0, req.PurchaseWaste)
	assert.Zero(t, req.RollPrice)

	req.Power.Catalog[0].Capacity = 1
	assert.Equal(t, 30.0, cfg.DefaultCatalog[0].Capacity, "request must not alias config")
}

func TestCompare(t *testing.T) {
	req := withPower(cutOnly(100,
		model.Order{Length: 12, Quantity: 1},
		model.Order{Length: 24, Quantity: 1},
		model.Order{Length: 36, Quantity: 1},
		model.Order{Length: 18, Quantity: 1},
	), "bogus", 100)

	cmp, err := New(nil).Compare(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, cmp.Results, 2)
	assert.Equal(t, 4, cmp.Results[0].SuppliesUsed)
	assert.Equal(t, 1, cmp.Results[1].SuppliesUsed)
	assert.Len(t, cmp.Plan.Rolls, 1)
}

func TestRun_RejectsNonFiniteInput(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"NaN length", cutOnly(10, model.Order{Length: math.NaN(), Quantity: 1}), model.ErrInvalidInput},
		{"infinite roll", cutOnly(math.Inf(1), model.Order{Length: 1, Quantity: 1}), model.ErrInvalidInput},
		{"NaN min offcut", Request{RollLength: 10, MinOffcut: math.NaN()}, model.ErrInvalidInput},
		{"NaN rate", func() Request {
			req := withPower(cutOnly(10, model.Order{Length: 1, Quantity: 1}), "", 100)
			req.Power.Settings.Rate = math.NaN()
			return req
		}(), model.ErrInvalidConfiguration},
		{"infinite capacity", withPower(cutOnly(10, model.Order{Length: 1, Quantity: 1}), "", math.Inf(1)), model.ErrInvalidConfiguration},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = Run(context.Background(), tc.req)
			})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRun_PurchaseEstimate(t *testing.T) {
	req := cutOnly(5,
		model.Order{Length: 2.5, Quantity: 4},
		model.Order{Length: 1.5, Quantity: 2},
	)
	req.RollPrice = 20
	req.PurchaseWaste = 20

	res, err := Run(context.Background(), req)
	require.NoError(t, err)

	// 13 m over 5 m rolls: lower bound 3, padded by 20% to 4.
	assert.Equal(t, 3, res.Stats.TotalRolls)
	assert.Equal(t, 3, res.Stats.LowerBoundRolls)
	assert.Equal(t, 4, res.Stats.RollsWithWaste)
	assert.Equal(t, 4, res.Stats.RollsToBuy)
	assert.Equal(t, 80.0, res.Stats.RollCost)
}

func TestRun_PurchaseCoversPlannedRolls(t *testing.T) {
	// 1.8 m of 0.6 m pieces fits 2 rolls in theory but FFD needs 3.
	req := cutOnly(1, model.Order{Length: 0.6, Quantity: 3})
	req.RollPrice = 12.5

	res, err := Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.RollsWithWaste)
	assert.Equal(t, 3, res.Stats.RollsToBuy)
	assert.Equal(t, 37.5, res.Stats.RollCost)
}

func TestRun_RejectsNegativePurchaseInputs(t *testing.T) {
	req := cutOnly(5, model.Order{Length: 1, Quantity: 1})
	req.RollPrice = -1
	_, err := Run(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	req.RollPrice = 0
	req.PurchaseWaste = -5
	_, err = Run(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
