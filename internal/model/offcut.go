package model

import "sort"

// Offcut represents a reusable remnant left at the end of a roll after cutting.
type Offcut struct {
	RollIndex int     `json:"roll_index"` // 1-based index of the source roll
	Start     float64 `json:"start"`      // Offset from the roll start (m)
	Length    float64 `json:"length"`     // Usable length (m)
}

// DetectOffcut returns the remnant of a roll if it is at least minLength long.
// Pieces are cut back to back from the roll start, so the remnant is always
// the tail. A minLength of 0 or less disables detection.
func DetectOffcut(rp RollPlan, minLength float64) (Offcut, bool) {
	if minLength <= 0 || rp.Waste < minLength {
		return Offcut{}, false
	}
	return Offcut{
		RollIndex: rp.Index,
		Start:     rp.Used,
		Length:    rp.Waste,
	}, true
}

// DetectAllOffcuts finds reusable remnants across a cut plan, longest first.
// Equal lengths keep roll order.
func DetectAllOffcuts(plan CutPlan, minLength float64) []Offcut {
	var all []Offcut
	for _, r := range plan.Rolls {
		if oc, ok := DetectOffcut(r, minLength); ok {
			all = append(all, oc)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Length > all[j].Length
	})
	return all
}

// TotalOffcutLength returns the summed length of all offcuts.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
