package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StripCut/internal/planner"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestResult(t)); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportLabels(path, planner.Result{}); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	res := buildTestResult(t)
	labels := CollectLabelInfos(res)

	if len(labels) != 6 {
		t.Fatalf("expected 6 labels, got %d", len(labels))
	}

	// Pieces of one roll are cut back to back.
	first := labels[0]
	if first.RollIndex != 1 || first.Start != 0 {
		t.Errorf("expected first label at roll 1 start 0, got roll %d start %g", first.RollIndex, first.Start)
	}
	if labels[1].RollIndex == 1 && labels[1].Start != first.Length {
		t.Errorf("expected second piece to start at %g, got %g", first.Length, labels[1].Start)
	}

	seen := map[string]bool{}
	for _, l := range labels {
		if seen[l.PieceID] {
			t.Errorf("duplicate label for %s", l.PieceID)
		}
		seen[l.PieceID] = true
		if l.Supply == "" {
			t.Errorf("piece %s has no supply", l.PieceID)
		}
		if l.Demand <= 0 {
			t.Errorf("piece %s has no demand", l.PieceID)
		}
	}
}

func TestCollectLabelInfos_WithoutPower(t *testing.T) {
	res := buildTestResult(t)
	res.Supplies = nil

	for _, l := range CollectLabelInfos(res) {
		if l.Supply != "" {
			t.Errorf("expected no supply for %s, got %s", l.PieceID, l.Supply)
		}
	}
}

func TestLabelInfo_JSON(t *testing.T) {
	info := LabelInfo{PieceID: "kit-1", OrderID: "kit", Length: 2.4, RollIndex: 1, Supply: "F-1", Demand: 28.8}
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"piece", "order", "length_m", "roll", "start_m", "supply"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in label JSON", key)
		}
	}
}
