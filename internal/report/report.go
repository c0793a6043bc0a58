// Package report flattens a plan into the tables shown to users and written
// to CSV, spreadsheets and PDFs.
package report

import (
	"fmt"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/planner"
	"github.com/shopspring/decimal"
)

// CutRow is one placed piece. Start is the offset on the roll where the cut
// begins; CumulativeUsed and Remaining are measured right after the cut.
type CutRow struct {
	Roll           int     `json:"roll"`
	PieceID        string  `json:"piece_id"`
	OrderID        string  `json:"order_id"`
	Label          string  `json:"label,omitempty"`
	Start          float64 `json:"start"`
	Length         float64 `json:"length"`
	CumulativeUsed float64 `json:"cumulative_used"`
	Remaining      float64 `json:"remaining"`
}

// PowerRow is one installed supply.
type PowerRow struct {
	Supply         string             `json:"supply"` // "F-<n>"
	Label          string             `json:"label"`
	Capacity       float64            `json:"capacity"`
	Pieces         []string           `json:"pieces"`
	Load           float64            `json:"load"`
	UtilizationPct float64            `json:"utilization_pct"`
	Status         model.SupplyStatus `json:"status"`
}

// StatRow is one metric of the summary.
type StatRow struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Report is the flattened form of a planner result.
type Report struct {
	CutRows   []CutRow   `json:"cut_rows"`
	PowerRows []PowerRow `json:"power_rows,omitempty"`
	Stats     []StatRow  `json:"stats"`
	Warnings  []string   `json:"warnings,omitempty"`
}

// SupplyID returns the display id of the supply with the given 1-based index.
func SupplyID(index int) string {
	return fmt.Sprintf("F-%d", index)
}

// Build flattens res. It does not modify res.
func Build(res planner.Result) Report {
	r := Report{
		CutRows:   cutRows(res.Plan),
		PowerRows: powerRows(res.Supplies),
		Stats:     statRows(res),
	}
	for _, u := range res.Unsatisfied {
		r.Warnings = append(r.Warnings, u.String())
	}
	for _, a := range res.Stats.Overloads {
		r.Warnings = append(r.Warnings, a.String())
	}
	return r
}

func cutRows(plan model.CutPlan) []CutRow {
	rows := make([]CutRow, 0, plan.PieceCount())
	for _, roll := range plan.Rolls {
		length := decimal.NewFromFloat(roll.RollLength)
		used := decimal.Zero
		for _, p := range roll.Pieces {
			start := used
			used = used.Add(decimal.NewFromFloat(p.Length))
			rows = append(rows, CutRow{
				Roll:           roll.Index,
				PieceID:        p.ID,
				OrderID:        p.OrderID,
				Label:          p.Label,
				Start:          start.InexactFloat64(),
				Length:         p.Length,
				CumulativeUsed: used.InexactFloat64(),
				Remaining:      length.Sub(used).InexactFloat64(),
			})
		}
	}
	return rows
}

func powerRows(supplies []model.SupplyPlan) []PowerRow {
	if len(supplies) == 0 {
		return nil
	}
	rows := make([]PowerRow, 0, len(supplies))
	for _, s := range supplies {
		rows = append(rows, PowerRow{
			Supply:         SupplyID(s.Index),
			Label:          s.Tier.Name(),
			Capacity:       s.Tier.Capacity,
			Pieces:         s.PieceIDs(),
			Load:           s.Load,
			UtilizationPct: percent(s.Utilization()),
			Status:         s.Status(),
		})
	}
	return rows
}

func statRows(res planner.Result) []StatRow {
	st := res.Stats
	rows := []StatRow{
		{"total_pieces", fmt.Sprint(st.TotalPieces)},
		{"total_rolls", fmt.Sprint(st.TotalRolls)},
		{"lower_bound_rolls", fmt.Sprint(st.LowerBoundRolls)},
		{"rolls_with_waste", fmt.Sprint(st.RollsWithWaste)},
		{"rolls_to_buy", fmt.Sprint(st.RollsToBuy)},
		{"total_used", num(st.TotalUsed)},
		{"total_waste", num(st.TotalWaste)},
		{"cut_efficiency_pct", num(percent(st.CutEfficiency))},
	}
	if st.RollCost > 0 {
		rows = append(rows, StatRow{"roll_cost", num(st.RollCost)})
	}
	if len(res.Offcuts) > 0 {
		rows = append(rows,
			StatRow{"offcuts", fmt.Sprint(len(res.Offcuts))},
			StatRow{"offcut_length", num(model.TotalOffcutLength(res.Offcuts))},
		)
	}
	if st.Strategy == "" {
		return rows
	}

	rows = append(rows,
		StatRow{"strategy", st.Strategy},
		StatRow{"total_supplies", fmt.Sprint(st.TotalSupplies)},
		StatRow{"installed_capacity", num(st.InstalledCapacity)},
		StatRow{"total_load", num(st.TotalLoad)},
		StatRow{"total_base_load", num(st.TotalBaseLoad)},
		StatRow{"global_utilization_pct", num(percent(st.GlobalUtilization))},
	)
	if st.TotalCost > 0 {
		rows = append(rows, StatRow{"total_cost", num(st.TotalCost)})
	}
	for _, tc := range st.TierCounts {
		rows = append(rows, StatRow{"supplies_" + tc.Tier.Name(), fmt.Sprint(tc.Count)})
	}
	rows = append(rows,
		StatRow{"overloads", fmt.Sprint(len(st.Overloads))},
		StatRow{"unsatisfied", fmt.Sprint(len(st.Unsatisfied))},
	)
	for i, rec := range st.Recommendations {
		rows = append(rows, StatRow{fmt.Sprintf("recommendation_%d", i+1), rec})
	}
	return rows
}

// percent converts a fraction to a percentage rounded to two places.
func percent(fraction float64) float64 {
	return decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// num formats v with at most four decimals and no trailing zeros.
func num(v float64) string {
	return decimal.NewFromFloat(v).Round(4).String()
}
