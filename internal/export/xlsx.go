package export

import (
	"fmt"
	"strings"

	"github.com/piwi3910/StripCut/internal/report"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetCuts     = "Cuts"
	SheetSupplies = "Supplies"
	SheetSummary  = "Summary"
)

// ExportXLSX writes the report as an Excel workbook with one sheet per table.
// Numeric columns are stored as numbers.
func ExportXLSX(path string, rep report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetCuts); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{SheetSupplies, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	cuts := [][]interface{}{toRow(rep.CutRecords()[0])}
	for _, r := range rep.CutRows {
		cuts = append(cuts, []interface{}{r.Roll, r.PieceID, r.OrderID, r.Label, r.Start, r.Length, r.CumulativeUsed, r.Remaining})
	}
	supplies := [][]interface{}{toRow(rep.PowerRecords()[0])}
	for _, r := range rep.PowerRows {
		supplies = append(supplies, []interface{}{r.Supply, r.Label, r.Capacity, strings.Join(r.Pieces, ";"), r.Load, r.UtilizationPct, string(r.Status)})
	}
	var summary [][]interface{}
	for _, rec := range rep.StatsRecords() {
		summary = append(summary, toRow(rec))
	}
	for _, w := range rep.Warnings {
		summary = append(summary, []interface{}{"warning", w})
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetCuts, cuts},
		{SheetSupplies, supplies},
		{SheetSummary, summary},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.rows, bold); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func toRow(rec []string) []interface{} {
	row := make([]interface{}, len(rec))
	for i, v := range rec {
		row[i] = v
	}
	return row
}

// writeSheet fills sheet from A1 and styles the first row as a header.
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}
