package model

import (
	"math"
	"testing"
)

func TestCalculateRollEstimateBasic(t *testing.T) {
	orders := []Order{
		{Length: 2.5, Quantity: 4},
		{Length: 1.5, Quantity: 2},
	}
	est := CalculateRollEstimate(orders, 5, 10, 20)

	if math.Abs(est.TotalLength-13) > 1e-9 {
		t.Errorf("expected total length 13, got %.3f", est.TotalLength)
	}
	if est.RollsNeededMin != 3 {
		t.Errorf("expected 3 rolls minimum, got %d", est.RollsNeededMin)
	}
	if est.RollsWithWaste < est.RollsNeededMin {
		t.Error("rolls with waste should be >= minimum rolls")
	}
	if est.EstimatedCost != float64(est.RollsWithWaste)*20 {
		t.Errorf("unexpected cost %.2f", est.EstimatedCost)
	}
}

func TestCalculateRollEstimateExactFit(t *testing.T) {
	orders := []Order{{Length: 50, Quantity: 2}}
	est := CalculateRollEstimate(orders, 100, 0, 0)
	if est.RollsNeededMin != 1 {
		t.Errorf("expected exactly 1 roll, got %d", est.RollsNeededMin)
	}
	if est.RollsWithWaste != 1 {
		t.Errorf("expected 1 roll with zero waste factor, got %d", est.RollsWithWaste)
	}
}

func TestCalculateRollEstimateZeroRollLength(t *testing.T) {
	orders := []Order{{Length: 1, Quantity: 1}}
	est := CalculateRollEstimate(orders, 0, 10, 0)
	if est.RollsNeededMin != 0 {
		t.Errorf("expected 0 rolls for zero roll length, got %d", est.RollsNeededMin)
	}
	if est.TotalLength != 1 {
		t.Errorf("expected total length 1, got %.1f", est.TotalLength)
	}
}

func TestCalculateRollEstimateNoOrders(t *testing.T) {
	est := CalculateRollEstimate(nil, 10, 10, 5)
	if est.RollsNeededMin != 0 || est.RollsWithWaste != 0 {
		t.Errorf("expected no rolls, got %d/%d", est.RollsNeededMin, est.RollsWithWaste)
	}
}
