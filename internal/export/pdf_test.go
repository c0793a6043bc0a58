package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StripCut/internal/report"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	if err := ExportPDF(path, buildTestReport(t)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 1000 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_ValidHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	if err := ExportPDF(path, buildTestReport(t)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read PDF: %v", err)
	}
	if string(data[:5]) != "%PDF-" {
		t.Errorf("expected PDF header, got %q", string(data[:5]))
	}
}

func TestExportPDF_EmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPDF(path, report.Report{}); err == nil {
		t.Fatal("expected error for empty report, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file for empty report")
	}
}

func TestExportPDF_ManyRollsPaginate(t *testing.T) {
	var rep report.Report
	for roll := 1; roll <= 20; roll++ {
		rep.CutRows = append(rep.CutRows, report.CutRow{
			Roll: roll, PieceID: "O1-1", OrderID: "O1", Length: 3, CumulativeUsed: 3, Remaining: 2,
		})
	}
	path := filepath.Join(t.TempDir(), "many.pdf")
	if err := ExportPDF(path, rep); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
}

func TestRollDiagrams_GroupsRows(t *testing.T) {
	rolls := rollDiagrams(buildTestReport(t).CutRows)
	if len(rolls) == 0 {
		t.Fatal("expected roll diagrams")
	}
	for _, r := range rolls {
		if r.length != 5 {
			t.Errorf("roll %d: expected length 5, got %g", r.index, r.length)
		}
		if r.used > r.length {
			t.Errorf("roll %d: used %g exceeds length", r.index, r.used)
		}
	}
}
