package power

import (
	"github.com/piwi3910/StripCut/internal/model"
)

// ComparisonResult holds the allocation and headline figures for one strategy.
type ComparisonResult struct {
	Strategy          string     `json:"strategy"`
	Allocation        Allocation `json:"allocation"`
	SuppliesUsed      int        `json:"supplies_used"`
	InstalledCapacity float64    `json:"installed_capacity"`
	TotalCost         float64    `json:"total_cost"`
	Utilization       float64    `json:"utilization"`
	UnsatisfiedCount  int        `json:"unsatisfied_count"`
}

// CompareStrategies runs every strategy over the same demands and returns the
// results in strategy order, for side-by-side display.
func CompareStrategies(demands []model.PowerDemand, tiers []model.SupplyTier, strategies ...Strategy) ([]ComparisonResult, error) {
	if len(strategies) == 0 {
		strategies = []Strategy{OnePerPiece{}, Grouped{}}
	}
	catalog, err := NewCatalog(tiers)
	if err != nil {
		return nil, err
	}

	results := make([]ComparisonResult, 0, len(strategies))
	for _, s := range strategies {
		alloc := s.Allocate(demands, catalog)
		stats := Summarize(model.SystemStats{}, alloc)
		results = append(results, ComparisonResult{
			Strategy:          s.Name(),
			Allocation:        alloc,
			SuppliesUsed:      stats.TotalSupplies,
			InstalledCapacity: stats.InstalledCapacity,
			TotalCost:         stats.TotalCost,
			Utilization:       stats.GlobalUtilization,
			UnsatisfiedCount:  len(alloc.Unsatisfied),
		})
	}
	return results, nil
}
