package power

import (
	"fmt"
	"sort"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/shopspring/decimal"
)

// Allocate validates the catalog and runs the strategy over the demands.
// Pieces no tier can hold are reported in Allocation.Unsatisfied; the rest of
// the run still completes.
func Allocate(demands []model.PowerDemand, tiers []model.SupplyTier, strategy Strategy) (Allocation, error) {
	if strategy == nil {
		return Allocation{}, fmt.Errorf("%w: no allocation strategy selected", model.ErrInvalidConfiguration)
	}
	catalog, err := NewCatalog(tiers)
	if err != nil {
		return Allocation{}, err
	}
	return strategy.Allocate(demands, catalog), nil
}

// Audit returns an alert for every supply whose load exceeds its capacity.
// Strategies never produce one from rounded demands; the check guards plans
// built or edited elsewhere.
func Audit(supplies []model.SupplyPlan) []model.OverloadAlert {
	var alerts []model.OverloadAlert
	for _, s := range supplies {
		capacity := decimal.NewFromFloat(s.Tier.Capacity)
		// The larger of the recorded load and the summed demands counts.
		load := decimal.NewFromFloat(s.Load)
		summed := decimal.Zero
		for _, d := range s.Demands {
			summed = summed.Add(decimal.NewFromFloat(d.Demand))
		}
		load = decimal.Max(load, summed)
		if load.GreaterThan(capacity) {
			alerts = append(alerts, model.OverloadAlert{
				SupplyIndex: s.Index,
				Load:        load.InexactFloat64(),
				Capacity:    s.Tier.Capacity,
				Excess:      load.Sub(capacity).InexactFloat64(),
			})
		}
	}
	return alerts
}

// Summarize fills the power fields of stats from an allocation and returns
// the result. Cut fields already present in stats are kept.
func Summarize(stats model.SystemStats, alloc Allocation) model.SystemStats {
	stats.Strategy = alloc.Strategy
	stats.TotalSupplies = len(alloc.Supplies)

	installed := decimal.Zero
	load := decimal.Zero
	base := decimal.Zero
	cost := decimal.Zero
	counts := map[float64]*model.TierCount{}

	for _, s := range alloc.Supplies {
		installed = installed.Add(decimal.NewFromFloat(s.Tier.Capacity))
		load = load.Add(decimal.NewFromFloat(s.Load))
		cost = cost.Add(decimal.NewFromFloat(s.Tier.Price))
		for _, d := range s.Demands {
			base = base.Add(decimal.NewFromFloat(d.Base))
		}
		tc, ok := counts[s.Tier.Capacity]
		if !ok {
			tc = &model.TierCount{Tier: s.Tier}
			counts[s.Tier.Capacity] = tc
		}
		tc.Count++
	}

	stats.InstalledCapacity = installed.InexactFloat64()
	stats.TotalLoad = load.InexactFloat64()
	stats.TotalBaseLoad = base.InexactFloat64()
	stats.TotalCost = cost.InexactFloat64()
	stats.GlobalUtilization = 0
	if installed.IsPositive() {
		stats.GlobalUtilization = load.Div(installed).InexactFloat64()
	}

	stats.TierCounts = make([]model.TierCount, 0, len(counts))
	for _, tc := range counts {
		stats.TierCounts = append(stats.TierCounts, *tc)
	}
	sort.Slice(stats.TierCounts, func(i, j int) bool {
		return stats.TierCounts[i].Tier.Capacity < stats.TierCounts[j].Tier.Capacity
	})

	stats.Overloads = Audit(alloc.Supplies)
	stats.Unsatisfied = alloc.Unsatisfied
	stats.Recommendations = Recommend(alloc.Supplies, stats.Overloads, alloc.Unsatisfied)
	return stats
}

// Recommend derives advice by comparing each supply against the utilization
// thresholds. It never re-runs the allocation.
func Recommend(supplies []model.SupplyPlan, overloads []model.OverloadAlert, unsat []model.UnsatisfiableDemand) []string {
	var recs []string

	for _, a := range overloads {
		recs = append(recs, fmt.Sprintf("supply #%d exceeds its capacity by %.2f, split its load or use a larger tier", a.SupplyIndex, a.Excess))
	}

	for _, s := range supplies {
		if u := s.Utilization(); u < model.ConsolidateThreshold {
			recs = append(recs, fmt.Sprintf("supply #%d is under %.0f%% utilized (%.1f%%), consider consolidating",
				s.Index, model.ConsolidateThreshold*100, u*100))
		}
	}

	if len(unsat) > 0 {
		largest := unsat[0].Demand
		for _, u := range unsat[1:] {
			if u.Demand > largest {
				largest = u.Demand
			}
		}
		recs = append(recs, fmt.Sprintf("%d piece(s) exceed every supply, add a catalog tier of at least %.2f", len(unsat), largest))
	}

	return recs
}
