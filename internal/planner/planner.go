// Package planner runs one complete plan: it validates the request, cuts the
// orders into rolls and, when requested, sizes power supplies for the pieces.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/piwi3910/StripCut/internal/engine"
	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/power"
	"github.com/shopspring/decimal"
)

// PowerRequest selects power sizing for a run.
type PowerRequest struct {
	Enabled  bool                `json:"enabled"`
	Strategy string              `json:"strategy"`
	Catalog  []model.SupplyTier  `json:"catalog"`
	Settings model.PowerSettings `json:"settings"`
}

// Request is the complete input of a run.
type Request struct {
	RollLength float64       `json:"roll_length"`
	MinOffcut  float64       `json:"min_offcut"`
	Orders     []model.Order `json:"orders"`
	Power      PowerRequest  `json:"power"`

	// Purchase estimate inputs. PurchaseWaste is a percentage.
	RollPrice     float64 `json:"roll_price"`
	PurchaseWaste float64 `json:"purchase_waste"`
}

// NewRequest returns a request carrying the defaults from cfg, with power
// sizing enabled. Orders are left empty.
func NewRequest(cfg model.AppConfig) Request {
	var cut model.CutSettings
	var ps model.PowerSettings
	cfg.ApplyToSettings(&cut, &ps)
	return Request{
		RollLength:    cut.RollLength,
		MinOffcut:     cut.MinOffcut,
		RollPrice:     cfg.DefaultRollPrice,
		PurchaseWaste: cfg.DefaultPurchaseWaste,
		Power: PowerRequest{
			Enabled:  true,
			Strategy: cfg.DefaultStrategy,
			Catalog:  cfg.Catalog(),
			Settings: ps,
		},
	}
}

// Result is everything one run produces. Supplies, Demands and Unsatisfied
// are empty when power sizing was not requested.
type Result struct {
	Plan        model.CutPlan               `json:"plan"`
	Demands     []model.PowerDemand         `json:"demands,omitempty"`
	Strategy    string                      `json:"strategy,omitempty"`
	Supplies    []model.SupplyPlan          `json:"supplies,omitempty"`
	Unsatisfied []model.UnsatisfiableDemand `json:"unsatisfied,omitempty"`
	Offcuts     []model.Offcut              `json:"offcuts,omitempty"`
	Stats       model.SystemStats           `json:"stats"`
}

// Planner runs requests. The zero value is not usable; use New.
type Planner struct {
	log *slog.Logger
}

// New returns a planner that logs to logger, or to slog.Default when logger
// is nil.
func New(logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{log: logger}
}

// Run is shorthand for New(nil).Run.
func Run(ctx context.Context, req Request) (Result, error) {
	return New(nil).Run(ctx, req)
}

// validated holds the parsed parts of a request once every check passed.
type validated struct {
	strategy power.Strategy
	catalog  power.Catalog
}

func (p *Planner) validate(req Request) (validated, error) {
	var v validated
	if err := engine.ValidateOrders(req.RollLength, req.Orders); err != nil {
		return v, err
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"minimum offcut", req.MinOffcut},
		{"roll price", req.RollPrice},
		{"purchase waste", req.PurchaseWaste},
	} {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return v, fmt.Errorf("%w: %s must be a finite non-negative number, got %g", model.ErrInvalidInput, f.name, f.value)
		}
	}
	if !req.Power.Enabled {
		return v, nil
	}
	if len(req.Orders) == 0 {
		return v, fmt.Errorf("%w: power sizing requested with no orders", model.ErrInvalidInput)
	}
	if err := req.Power.Settings.Validate(); err != nil {
		return v, err
	}
	strategy, err := power.ParseStrategy(req.Power.Strategy)
	if err != nil {
		return v, err
	}
	catalog, err := power.NewCatalog(req.Power.Catalog)
	if err != nil {
		return v, err
	}
	v.strategy = strategy
	v.catalog = catalog
	return v, nil
}

// Run validates the whole request before doing any work, so a failure never
// leaves a partial result. The context is checked between phases.
func (p *Planner) Run(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	v, err := p.validate(req)
	if err != nil {
		p.log.Warn("plan rejected", "kind", model.ErrorKind(err), "error", err)
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	plan, err := engine.New(model.CutSettings{RollLength: req.RollLength, MinOffcut: req.MinOffcut}).Optimize(req.Orders)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Plan:    plan,
		Offcuts: model.DetectAllOffcuts(plan, req.MinOffcut),
		Stats:   cutStats(req, plan),
	}
	p.log.Debug("cut plan built", "rolls", len(plan.Rolls), "pieces", plan.PieceCount())

	if req.Power.Enabled {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		demands, err := power.Demands(plan, req.Power.Settings)
		if err != nil {
			return Result{}, err
		}
		alloc := v.strategy.Allocate(demands, v.catalog)

		res.Demands = demands
		res.Strategy = alloc.Strategy
		res.Supplies = alloc.Supplies
		res.Unsatisfied = alloc.Unsatisfied
		res.Stats = power.Summarize(res.Stats, alloc)

		for _, u := range alloc.Unsatisfied {
			p.log.Warn("unsatisfiable demand", "piece", u.PieceID, "demand", u.Demand, "max_capacity", u.MaxCapacity)
		}
		for _, a := range res.Stats.Overloads {
			p.log.Warn("supply overloaded", "supply", a.SupplyIndex, "load", a.Load, "capacity", a.Capacity)
		}
	}

	p.log.Info("plan complete",
		"rolls", res.Stats.TotalRolls,
		"pieces", res.Stats.TotalPieces,
		"supplies", res.Stats.TotalSupplies,
		"duration", time.Since(start))
	return res, nil
}

func cutStats(req Request, plan model.CutPlan) model.SystemStats {
	est := model.CalculateRollEstimate(req.Orders, req.RollLength, req.PurchaseWaste, req.RollPrice)
	toBuy := max(est.RollsWithWaste, len(plan.Rolls))
	return model.SystemStats{
		TotalPieces:     plan.PieceCount(),
		TotalRolls:      len(plan.Rolls),
		LowerBoundRolls: est.RollsNeededMin,
		TotalUsed:       plan.TotalUsed(),
		TotalWaste:      plan.TotalWaste(),
		CutEfficiency:   plan.Efficiency(),
		RollsWithWaste:  est.RollsWithWaste,
		RollsToBuy:      toBuy,
		RollCost:        decimal.NewFromInt(int64(toBuy)).Mul(decimal.NewFromFloat(req.RollPrice)).InexactFloat64(),
	}
}
