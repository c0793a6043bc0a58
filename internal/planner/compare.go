package planner

import (
	"context"
	"fmt"

	"github.com/piwi3910/StripCut/internal/engine"
	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/power"
)

// Comparison is the cut plan plus every strategy's allocation of its demands.
type Comparison struct {
	Plan    model.CutPlan             `json:"plan"`
	Results []power.ComparisonResult `json:"results"`
}

// Compare cuts the orders once and runs both allocation strategies over the
// same demands. The request's strategy is ignored.
func (p *Planner) Compare(ctx context.Context, req Request) (Comparison, error) {
	req.Power.Enabled = true
	req.Power.Strategy = ""
	if _, err := p.validate(req); err != nil {
		return Comparison{}, err
	}

	plan, err := engine.New(model.CutSettings{RollLength: req.RollLength}).Optimize(req.Orders)
	if err != nil {
		return Comparison{}, err
	}
	if err := ctx.Err(); err != nil {
		return Comparison{}, err
	}
	demands, err := power.Demands(plan, req.Power.Settings)
	if err != nil {
		return Comparison{}, err
	}
	results, err := power.CompareStrategies(demands, req.Power.Catalog)
	if err != nil {
		return Comparison{}, fmt.Errorf("compare strategies: %w", err)
	}

	for _, r := range results {
		p.log.Info("strategy result", "strategy", r.Strategy, "supplies", r.SuppliesUsed, "capacity", r.InstalledCapacity)
	}
	return Comparison{Plan: plan, Results: results}, nil
}
