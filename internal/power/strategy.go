package power

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/shopspring/decimal"
)

// Strategy assigns demands to supplies drawn from a catalog.
type Strategy interface {
	Name() string
	Allocate(demands []model.PowerDemand, catalog Catalog) Allocation
}

// Allocation is the outcome of a strategy run. Unsatisfied pieces are not
// assigned to any supply.
type Allocation struct {
	Strategy    string                      `json:"strategy"`
	Supplies    []model.SupplyPlan          `json:"supplies"`
	Unsatisfied []model.UnsatisfiableDemand `json:"unsatisfied,omitempty"`
}

const (
	StrategyOnePerPiece = "one-per-piece"
	StrategyGrouped     = "grouped"
)

// ParseStrategy maps a strategy name to its implementation. The aliases
// "individual" and "optimized" are accepted too.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyOnePerPiece, "individual", "single":
		return OnePerPiece{}, nil
	case StrategyGrouped, "optimized", "optimised", "":
		return Grouped{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown allocation strategy %q", model.ErrInvalidConfiguration, name)
	}
}

// supplyBuilder tracks an open supply while demands are being placed.
type supplyBuilder struct {
	tier     model.SupplyTier
	capacity decimal.Decimal
	load     decimal.Decimal
	demands  []model.PowerDemand
}

func newSupplyBuilder(tier model.SupplyTier) *supplyBuilder {
	return &supplyBuilder{
		tier:     tier,
		capacity: decimal.NewFromFloat(tier.Capacity),
		load:     decimal.Zero,
	}
}

func (b *supplyBuilder) add(d model.PowerDemand, amount decimal.Decimal) {
	b.demands = append(b.demands, d)
	b.load = b.load.Add(amount)
}

// spareAfter returns the capacity left if amount were added; negative means
// it does not fit.
func (b *supplyBuilder) spareAfter(amount decimal.Decimal) decimal.Decimal {
	return b.capacity.Sub(b.load).Sub(amount)
}

func buildSupplies(builders []*supplyBuilder) []model.SupplyPlan {
	supplies := make([]model.SupplyPlan, 0, len(builders))
	for i, b := range builders {
		supplies = append(supplies, model.SupplyPlan{
			Index:   i + 1,
			Tier:    b.tier,
			Demands: b.demands,
			Load:    b.load.InexactFloat64(),
		})
	}
	return supplies
}

func unsatisfied(d model.PowerDemand, catalog Catalog) model.UnsatisfiableDemand {
	return model.UnsatisfiableDemand{
		PieceID:     d.PieceID,
		Demand:      d.Demand,
		MaxCapacity: catalog.Largest().Capacity,
	}
}

// OnePerPiece gives every piece its own supply, the smallest tier that holds
// the piece's demand.
type OnePerPiece struct{}

func (OnePerPiece) Name() string { return StrategyOnePerPiece }

func (OnePerPiece) Allocate(demands []model.PowerDemand, catalog Catalog) Allocation {
	alloc := Allocation{Strategy: StrategyOnePerPiece}
	var builders []*supplyBuilder

	for _, d := range demands {
		amount := decimal.NewFromFloat(d.Demand)
		tier, ok := catalog.smallestFor(amount)
		if !ok {
			alloc.Unsatisfied = append(alloc.Unsatisfied, unsatisfied(d, catalog))
			continue
		}
		b := newSupplyBuilder(tier)
		b.add(d, amount)
		builders = append(builders, b)
	}

	alloc.Supplies = buildSupplies(builders)
	return alloc
}

// Grouped packs several pieces onto shared supplies. Demands are placed
// largest first; each goes to the open supply it fills most tightly, and
// only when none has room is a new supply opened at the smallest tier that
// holds the demand. Tightness ties go to the supply opened first.
type Grouped struct{}

func (Grouped) Name() string { return StrategyGrouped }

func (Grouped) Allocate(demands []model.PowerDemand, catalog Catalog) Allocation {
	alloc := Allocation{Strategy: StrategyGrouped}

	sorted := make([]model.PowerDemand, len(demands))
	copy(sorted, demands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Demand > sorted[j].Demand
	})

	var builders []*supplyBuilder
	for _, d := range sorted {
		amount := decimal.NewFromFloat(d.Demand)

		var best *supplyBuilder
		var bestSpare decimal.Decimal
		for _, b := range builders {
			spare := b.spareAfter(amount)
			if spare.IsNegative() {
				continue
			}
			if best == nil || spare.LessThan(bestSpare) {
				best = b
				bestSpare = spare
			}
		}

		if best == nil {
			tier, ok := catalog.smallestFor(amount)
			if !ok {
				alloc.Unsatisfied = append(alloc.Unsatisfied, unsatisfied(d, catalog))
				continue
			}
			best = newSupplyBuilder(tier)
			builders = append(builders, best)
		}
		best.add(d, amount)
	}

	alloc.Supplies = buildSupplies(builders)
	return alloc
}
