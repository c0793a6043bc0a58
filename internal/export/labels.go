package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StripCut/internal/planner"
	"github.com/piwi3910/StripCut/internal/report"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	PieceID   string  `json:"piece"`
	OrderID   string  `json:"order"`
	Label     string  `json:"label,omitempty"`
	Length    float64 `json:"length_m"`
	RollIndex int     `json:"roll"`
	Start     float64 `json:"start_m"`
	Supply    string  `json:"supply,omitempty"`
	Demand    float64 `json:"demand,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per cut piece, in
// roll order. Each label shows the piece, its roll position and the supply
// that feeds it, and carries the same data as JSON in a QR code.
func ExportLabels(path string, res planner.Result) error {
	labels := CollectLabelInfos(res)
	if len(labels) == 0 {
		return fmt.Errorf("no pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.PieceID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Piece IDs are unique within a plan.
	imgName := "qr_" + info.PieceID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	title := info.PieceID
	if info.Label != "" {
		title = info.Label + " " + info.PieceID
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	if pdf.GetStringWidth(title) > textW {
		for len(title) > 0 && pdf.GetStringWidth(title+"...") > textW {
			title = title[:len(title)-1]
		}
		title += "..."
	}
	pdf.CellFormat(textW, 4.5, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.3f m", info.Length), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Roll %d @ %.3f m", info.RollIndex, info.Start), "", 1, "L", false, 0, "")

	if info.Supply != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(0, 90, 160)
		pdf.CellFormat(textW, 3, fmt.Sprintf("Supply %s (%.2f)", info.Supply, info.Demand), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from a planner result in roll
// order. Pieces without a supply have an empty Supply.
func CollectLabelInfos(res planner.Result) []LabelInfo {
	type feed struct {
		supply string
		demand float64
	}
	feeds := map[string]feed{}
	for _, s := range res.Supplies {
		for _, d := range s.Demands {
			feeds[d.PieceID] = feed{supply: report.SupplyID(s.Index), demand: d.Demand}
		}
	}

	var labels []LabelInfo
	for _, roll := range res.Plan.Rolls {
		start := 0.0
		for _, p := range roll.Pieces {
			f := feeds[p.ID]
			labels = append(labels, LabelInfo{
				PieceID:   p.ID,
				OrderID:   p.OrderID,
				Label:     p.Label,
				Length:    p.Length,
				RollIndex: roll.Index,
				Start:     start,
				Supply:    f.supply,
				Demand:    f.demand,
			})
			start += p.Length
		}
	}
	return labels
}
