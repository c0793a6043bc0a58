package export

import (
	"context"
	"testing"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/planner"
	"github.com/piwi3910/StripCut/internal/report"
)

// buildTestResult plans a small job with grouped power sizing.
func buildTestResult(t *testing.T) planner.Result {
	t.Helper()
	res, err := planner.Run(context.Background(), planner.Request{
		RollLength: 5,
		MinOffcut:  0.5,
		Orders: []model.Order{
			{ID: "kit", Label: "Kitchen", Length: 2.4, Quantity: 2},
			{ID: "hall", Label: "Hall", Length: 1.5, Quantity: 1},
			{ID: "bath", Label: "Bath", Length: 0.8, Quantity: 3},
		},
		Power: planner.PowerRequest{
			Enabled:  true,
			Strategy: "grouped",
			Catalog:  model.DefaultCatalog(),
			Settings: model.DefaultPowerSettings(),
		},
	})
	if err != nil {
		t.Fatalf("planner.Run returned error: %v", err)
	}
	return res
}

func buildTestReport(t *testing.T) report.Report {
	t.Helper()
	return report.Build(buildTestResult(t))
}
