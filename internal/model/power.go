package model

import "fmt"

// PowerSettings describes the electrical load of the strip being cut.
type PowerSettings struct {
	Rate         float64 `json:"rate"`          // Load per metre in catalog units (W/m or A/m)
	SafetyMargin float64 `json:"safety_margin"` // Fractional headroom, e.g. 0.2 for 20%
	Voltage      float64 `json:"voltage"`       // Strip voltage; 0 skips current calculation
	Precision    int32   `json:"precision"`     // Decimal places demands are rounded to
}

func DefaultPowerSettings() PowerSettings {
	return PowerSettings{
		Rate:         10.0,
		SafetyMargin: 0.20,
		Voltage:      12.0,
		Precision:    2,
	}
}

// Validate rejects settings that cannot produce a demand.
func (s PowerSettings) Validate() error {
	if !IsFinite(s.Rate) || !IsFinite(s.SafetyMargin) || !IsFinite(s.Voltage) {
		return fmt.Errorf("%w: power settings must be finite numbers (rate %g, margin %g, voltage %g)",
			ErrInvalidConfiguration, s.Rate, s.SafetyMargin, s.Voltage)
	}
	if s.Rate <= 0 {
		return fmt.Errorf("%w: power rate must be positive, got %g", ErrInvalidConfiguration, s.Rate)
	}
	if s.SafetyMargin < 0 {
		return fmt.Errorf("%w: safety margin must not be negative, got %g", ErrInvalidConfiguration, s.SafetyMargin)
	}
	if s.Voltage < 0 {
		return fmt.Errorf("%w: voltage must not be negative, got %g", ErrInvalidConfiguration, s.Voltage)
	}
	if s.Precision < 0 {
		return fmt.Errorf("%w: precision must not be negative, got %d", ErrInvalidConfiguration, s.Precision)
	}
	return nil
}

// PowerDemand is the electrical load of one cut piece.
type PowerDemand struct {
	PieceID   string  `json:"piece_id"`
	RollIndex int     `json:"roll_index"`
	Length    float64 `json:"length"`
	Base      float64 `json:"base"`              // length x rate
	Demand    float64 `json:"demand"`            // base including safety margin
	Current   float64 `json:"current,omitempty"` // demand / voltage, when a voltage is set
}

// SupplyTier is one capacity class in the supply catalog. Every tier is
// available in unlimited quantity.
type SupplyTier struct {
	Label    string  `json:"label"`
	Capacity float64 `json:"capacity"`
	Price    float64 `json:"price"`
}

// Name returns the label or a capacity-derived name.
func (t SupplyTier) Name() string {
	if t.Label != "" {
		return t.Label
	}
	return fmt.Sprintf("%gW", t.Capacity)
}

// SupplyStatus is the utilization band of a supply.
type SupplyStatus string

const (
	StatusOverloaded    SupplyStatus = "overloaded"
	StatusNearLimit     SupplyStatus = "near_limit"    // >= NearLimitThreshold
	StatusOptimal       SupplyStatus = "optimal"       // >= OptimalThreshold
	StatusUnderutilized SupplyStatus = "underutilized" // below OptimalThreshold
)

// Utilization thresholds, as fractions of capacity.
const (
	NearLimitThreshold   = 0.90
	OptimalThreshold     = 0.70
	ConsolidateThreshold = 0.20
)

// SupplyPlan is one installed supply and the pieces it feeds.
type SupplyPlan struct {
	Index   int           `json:"index"` // 1-based
	Tier    SupplyTier    `json:"tier"`
	Demands []PowerDemand `json:"demands"`
	Load    float64       `json:"load"`
}

// Capacity is shorthand for the tier capacity.
func (sp SupplyPlan) Capacity() float64 {
	return sp.Tier.Capacity
}

// Spare returns the unused capacity; negative when overloaded.
func (sp SupplyPlan) Spare() float64 {
	return sp.Tier.Capacity - sp.Load
}

// Utilization returns load over capacity as a fraction.
func (sp SupplyPlan) Utilization() float64 {
	if sp.Tier.Capacity <= 0 {
		return 0
	}
	return sp.Load / sp.Tier.Capacity
}

// Status classifies the supply into a utilization band.
func (sp SupplyPlan) Status() SupplyStatus {
	u := sp.Utilization()
	switch {
	case sp.Load > sp.Tier.Capacity:
		return StatusOverloaded
	case u >= NearLimitThreshold:
		return StatusNearLimit
	case u >= OptimalThreshold:
		return StatusOptimal
	default:
		return StatusUnderutilized
	}
}

// PieceIDs lists the ids of the assigned pieces in assignment order.
func (sp SupplyPlan) PieceIDs() []string {
	ids := make([]string, len(sp.Demands))
	for i, d := range sp.Demands {
		ids[i] = d.PieceID
	}
	return ids
}

// UnsatisfiableDemand reports a piece whose demand exceeds every catalog tier.
type UnsatisfiableDemand struct {
	PieceID     string  `json:"piece_id"`
	Demand      float64 `json:"demand"`
	MaxCapacity float64 `json:"max_capacity"`
}

func (u UnsatisfiableDemand) String() string {
	return fmt.Sprintf("piece %s needs %.2f, largest supply is %.2f", u.PieceID, u.Demand, u.MaxCapacity)
}

// OverloadAlert reports a supply whose load exceeds its capacity.
type OverloadAlert struct {
	SupplyIndex int     `json:"supply_index"`
	Load        float64 `json:"load"`
	Capacity    float64 `json:"capacity"`
	Excess      float64 `json:"excess"`
}

func (a OverloadAlert) String() string {
	return fmt.Sprintf("supply #%d overloaded by %.2f (%.2f / %.2f)", a.SupplyIndex, a.Excess, a.Load, a.Capacity)
}

// TierCount is the number of supplies installed from one tier.
type TierCount struct {
	Tier  SupplyTier `json:"tier"`
	Count int        `json:"count"`
}

// SystemStats aggregates a run. It is recomputed on every run.
type SystemStats struct {
	TotalPieces     int     `json:"total_pieces"`
	TotalRolls      int     `json:"total_rolls"`
	LowerBoundRolls int     `json:"lower_bound_rolls"`
	TotalUsed       float64 `json:"total_used"`
	TotalWaste      float64 `json:"total_waste"`
	CutEfficiency   float64 `json:"cut_efficiency"`

	// Purchase estimate: the larger of the waste-padded estimate and the
	// rolls the plan actually uses, priced per roll.
	RollsWithWaste int     `json:"rolls_with_waste"`
	RollsToBuy     int     `json:"rolls_to_buy"`
	RollCost       float64 `json:"roll_cost"`

	Strategy          string                `json:"strategy,omitempty"`
	TotalSupplies     int                   `json:"total_supplies"`
	InstalledCapacity float64               `json:"installed_capacity"`
	TotalLoad         float64               `json:"total_load"`
	TotalBaseLoad     float64               `json:"total_base_load"`
	GlobalUtilization float64               `json:"global_utilization"`
	TotalCost         float64               `json:"total_cost"`
	TierCounts        []TierCount           `json:"tier_counts,omitempty"`
	Overloads         []OverloadAlert       `json:"overloads,omitempty"`
	Unsatisfied       []UnsatisfiableDemand `json:"unsatisfied,omitempty"`
	Recommendations   []string              `json:"recommendations,omitempty"`
}
