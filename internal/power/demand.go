// Package power sizes power supplies for cut LED strip pieces. It converts
// piece lengths into electrical demands and groups those demands onto supplies
// from a capacity catalog.
package power

import (
	"fmt"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/shopspring/decimal"
)

// Demand computes the load of a single piece: length x rate x (1 + margin),
// rounded to s.Precision decimal places.
func Demand(p model.Piece, rollIndex int, s model.PowerSettings) (model.PowerDemand, error) {
	if err := s.Validate(); err != nil {
		return model.PowerDemand{}, err
	}
	if !model.IsFinite(p.Length) || p.Length < 0 {
		return model.PowerDemand{}, fmt.Errorf("%w: piece %q has invalid length %g", model.ErrInvalidInput, p.ID, p.Length)
	}
	return demand(p, rollIndex, s), nil
}

// Demands computes the demand of every placed piece in roll order.
func Demands(plan model.CutPlan, s model.PowerSettings) ([]model.PowerDemand, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := make([]model.PowerDemand, 0, plan.PieceCount())
	for _, r := range plan.Rolls {
		for _, p := range r.Pieces {
			out = append(out, demand(p, r.Index, s))
		}
	}
	return out, nil
}

func demand(p model.Piece, rollIndex int, s model.PowerSettings) model.PowerDemand {
	base := decimal.NewFromFloat(p.Length).Mul(decimal.NewFromFloat(s.Rate))
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(s.SafetyMargin))
	adjusted := base.Mul(factor).Round(s.Precision)

	d := model.PowerDemand{
		PieceID:   p.ID,
		RollIndex: rollIndex,
		Length:    p.Length,
		Base:      base.Round(s.Precision).InexactFloat64(),
		Demand:    adjusted.InexactFloat64(),
	}
	if s.Voltage > 0 {
		d.Current = adjusted.Div(decimal.NewFromFloat(s.Voltage)).Round(s.Precision).InexactFloat64()
	}
	return d
}
