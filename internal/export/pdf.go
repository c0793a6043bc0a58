// Package export writes plans to files: CSV tables, Excel workbooks, PDF
// reports, QR piece labels and DXF cut templates.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StripCut/internal/report"
)

// pieceColor represents an RGB color for a cut piece.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rollBarH     = 10.0
	rollRowH     = 24.0
	rowH         = 6.0
)

// rollDiagram is the drawable form of one roll, rebuilt from cut rows.
type rollDiagram struct {
	index  int
	length float64
	used   float64
	pieces []report.CutRow
}

// rollDiagrams groups cut rows by roll, keeping roll order.
func rollDiagrams(rows []report.CutRow) []rollDiagram {
	var rolls []rollDiagram
	for _, row := range rows {
		n := len(rolls)
		if n == 0 || rolls[n-1].index != row.Roll {
			rolls = append(rolls, rollDiagram{index: row.Roll})
			n++
		}
		r := &rolls[n-1]
		r.pieces = append(r.pieces, row)
		r.used = row.CumulativeUsed
		r.length = row.CumulativeUsed + row.Remaining
	}
	return rolls
}

// ExportPDF writes a report with roll diagrams, the supply table and the
// summary statistics.
func ExportPDF(path string, rep report.Report) error {
	if len(rep.CutRows) == 0 {
		return fmt.Errorf("no rolls to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	rolls := rollDiagrams(rep.CutRows)
	avail := pageHeight - drawAreaTop - marginBottom
	perPage := int(avail / rollRowH)
	for i, roll := range rolls {
		if i%perPage == 0 {
			pdf.AddPage()
			pageTitle(pdf, fmt.Sprintf("Cut Plan (rolls %d-%d of %d)", i+1, min(i+perPage, len(rolls)), len(rolls)))
		}
		renderRoll(pdf, roll, drawAreaTop+float64(i%perPage)*rollRowH)
	}

	if len(rep.PowerRows) > 0 {
		renderSupplyPages(pdf, rep.PowerRows)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, rep)

	return pdf.OutputFileAndClose(path)
}

func pageTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")
}

// renderRoll draws one roll as a horizontal bar at y, pieces left to right
// and the remnant hatched.
func renderRoll(pdf *fpdf.Fpdf, roll rollDiagram, y float64) {
	drawWidth := pageWidth - marginLeft - marginRight
	scale := drawWidth / roll.length

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginLeft, y)
	caption := fmt.Sprintf("Roll %d: %.2f m used of %.2f m (%.1f%%)", roll.index, roll.used, roll.length, 100*roll.used/roll.length)
	pdf.CellFormat(drawWidth, 5, caption, "", 0, "L", false, 0, "")

	barY := y + 6
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(marginLeft, barY, drawWidth, rollBarH, "FD")

	x := marginLeft
	for i, p := range roll.pieces {
		col := pieceColors[i%len(pieceColors)]
		w := p.Length * scale
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(x, barY, w, rollBarH, "FD")

		label := fmt.Sprintf("%s %.2f", p.PieceID, p.Length)
		pdf.SetFont("Helvetica", "", 6)
		if lw := pdf.GetStringWidth(label); lw < w-1 {
			pdf.SetXY(x+(w-lw)/2, barY+rollBarH/2-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
		x += w
	}

	if waste := marginLeft + drawWidth - x; waste > 0.5 {
		drawHatchPattern(pdf, x, barY, waste, rollBarH)
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark waste.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + max(0, d-h)
		y1 := y + min(h, d)
		x2 := x + min(w, d)
		y2 := y + max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// renderSupplyPages draws the supply table, continuing on new pages as needed.
func renderSupplyPages(pdf *fpdf.Fpdf, rows []report.PowerRow) {
	colWidths := []float64{20, 30, 25, 112, 30, 25, 25}
	headers := []string{"Supply", "Model", "Capacity", "Pieces", "Load", "Use %", "Status"}

	var y float64
	header := func() {
		pdf.AddPage()
		pageTitle(pdf, "Power Supplies")
		y = drawAreaTop
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		x := marginLeft
		for i, h := range headers {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[i], rowH, h, "1", 0, "C", true, 0, "")
			x += colWidths[i]
		}
		y += rowH
	}

	header()
	for i, row := range rows {
		if y+rowH > pageHeight-marginBottom {
			header()
		}
		pieces := joinFit(pdf, row.Pieces, colWidths[3]-2)
		cells := []string{
			row.Supply,
			row.Label,
			fmt.Sprintf("%g", row.Capacity),
			pieces,
			fmt.Sprintf("%.2f", row.Load),
			fmt.Sprintf("%.1f", row.UtilizationPct),
			string(row.Status),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont("Helvetica", "", 8)
		x := marginLeft
		for j, cell := range cells {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], rowH, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += rowH
	}
}

// joinFit joins ids with commas, truncating with "..." to fit width.
func joinFit(pdf *fpdf.Fpdf, ids []string, width float64) string {
	out := ""
	for i, id := range ids {
		next := out
		if i > 0 {
			next += ", "
		}
		next += id
		if pdf.GetStringWidth(next+"...") > width && i < len(ids)-1 {
			return next + "..."
		}
		out = next
	}
	return out
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, rep report.Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range rep.Stats {
		if y > pageHeight-marginBottom-10 {
			break
		}
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(70, 6, s.Metric+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(180, 6, s.Value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6
	}

	if len(rep.Warnings) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNINGS", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, w := range rep.Warnings {
			if y > pageHeight-marginBottom-5 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, "- "+w, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StripCut - LED strip cut and power planner", "", 0, "C", false, 0, "")
}
