package power

import (
	"fmt"
	"sort"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/shopspring/decimal"
)

// Catalog is a validated set of supply tiers in ascending capacity order.
// Build one with NewCatalog.
type Catalog []model.SupplyTier

// NewCatalog validates tiers and returns them sorted by capacity. When two
// tiers share a capacity the cheaper one is kept, or the first on a price tie.
// The input slice is not modified.
func NewCatalog(tiers []model.SupplyTier) (Catalog, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: supply catalog is empty", model.ErrInvalidConfiguration)
	}
	for i, t := range tiers {
		if !model.IsFinite(t.Capacity) || !model.IsFinite(t.Price) {
			return nil, fmt.Errorf("%w: catalog tier %d has a non-finite capacity or price", model.ErrInvalidConfiguration, i+1)
		}
		if t.Capacity <= 0 {
			return nil, fmt.Errorf("%w: catalog tier %d has non-positive capacity %g", model.ErrInvalidConfiguration, i+1, t.Capacity)
		}
		if t.Price < 0 {
			return nil, fmt.Errorf("%w: catalog tier %d has negative price %g", model.ErrInvalidConfiguration, i+1, t.Price)
		}
	}

	sorted := make([]model.SupplyTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Capacity != sorted[j].Capacity {
			return sorted[i].Capacity < sorted[j].Capacity
		}
		return sorted[i].Price < sorted[j].Price
	})

	cat := make(Catalog, 0, len(sorted))
	for _, t := range sorted {
		if n := len(cat); n > 0 && cat[n-1].Capacity == t.Capacity {
			continue
		}
		cat = append(cat, t)
	}
	return cat, nil
}

// Largest returns the tier with the highest capacity.
func (c Catalog) Largest() model.SupplyTier {
	if len(c) == 0 {
		return model.SupplyTier{}
	}
	return c[len(c)-1]
}

// smallestFor returns the smallest tier whose capacity holds demand.
func (c Catalog) smallestFor(demand decimal.Decimal) (model.SupplyTier, bool) {
	for _, t := range c {
		if demand.LessThanOrEqual(decimal.NewFromFloat(t.Capacity)) {
			return t, true
		}
	}
	return model.SupplyTier{}, false
}
