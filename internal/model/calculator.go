package model

import "math"

// RollEstimate holds the results of a roll purchasing calculation.
type RollEstimate struct {
	TotalLength      float64 `json:"total_length"`       // Total ordered length (m)
	RollLength       float64 `json:"roll_length"`        // Length of one roll (m)
	RollsNeededExact float64 `json:"rolls_needed_exact"` // Exact fractional number of rolls
	RollsNeededMin   int     `json:"rolls_needed_min"`   // Lower bound on rolls (ceiling of exact)
	RollsWithWaste   int     `json:"rolls_with_waste"`   // Recommended rolls including waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 10 for 10%)
	EstimatedCost    float64 `json:"estimated_cost"`     // RollsWithWaste × PricePerRoll
	PricePerRoll     float64 `json:"price_per_roll"`
}

// CalculateRollEstimate computes how many rolls to buy for an order list
// before running the optimizer. RollsNeededMin is the trivial lower bound
// ceil(total / roll) that no packing can beat; first fit decreasing uses at
// most 11/9·OPT + 6/9 rolls.
func CalculateRollEstimate(orders []Order, rollLength, wastePercent, pricePerRoll float64) RollEstimate {
	var totalLength float64
	for _, o := range orders {
		totalLength += o.Total()
	}

	if rollLength <= 0 || math.IsNaN(rollLength) || math.IsInf(rollLength, 0) {
		return RollEstimate{
			TotalLength:  totalLength,
			WastePercent: wastePercent,
		}
	}

	exactRolls := totalLength / rollLength
	minRolls := int(math.Ceil(exactRolls - 1e-9))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	rollsWithWaste := int(math.Ceil(exactRolls*wasteFactor - 1e-9))
	if rollsWithWaste < minRolls {
		rollsWithWaste = minRolls
	}

	return RollEstimate{
		TotalLength:      totalLength,
		RollLength:       rollLength,
		RollsNeededExact: exactRolls,
		RollsNeededMin:   minRolls,
		RollsWithWaste:   rollsWithWaste,
		WastePercent:     wastePercent,
		EstimatedCost:    float64(rollsWithWaste) * pricePerRoll,
		PricePerRoll:     pricePerRoll,
	}
}
