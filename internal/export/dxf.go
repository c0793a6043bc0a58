package export

import (
	"fmt"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerRoll   = "ROLL"
	LayerCuts   = "CUTS"
	LayerLabels = "LABELS"
)

// DXF template geometry in drawing units (mm).
const (
	dxfStripWidth = 10.0
	dxfRollGap    = 30.0
	dxfMarkOver   = 3.0
	dxfTextHeight = 2.5
)

// ExportDXF writes a 1:1 cut template in millimetres. Each roll is drawn as
// an outline stacked downward, with a cut mark after every piece and the
// piece ids as text.
func ExportDXF(path string, plan model.CutPlan) error {
	if len(plan.Rolls) == 0 {
		return fmt.Errorf("no rolls to export")
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		cl   color.ColorNumber
	}{
		{LayerRoll, color.White},
		{LayerCuts, color.Red},
		{LayerLabels, color.Cyan},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.cl, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	for i, roll := range plan.Rolls {
		if err := drawRoll(d, roll, -float64(i)*(dxfStripWidth+dxfRollGap)); err != nil {
			return fmt.Errorf("roll %d: %w", roll.Index, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func drawRoll(d *drawing.Drawing, roll model.RollPlan, y float64) error {
	length := roll.RollLength * 1000

	if err := d.ChangeLayer(LayerRoll); err != nil {
		return err
	}
	outline := [][4]float64{
		{0, y, length, y},
		{length, y, length, y + dxfStripWidth},
		{length, y + dxfStripWidth, 0, y + dxfStripWidth},
		{0, y + dxfStripWidth, 0, y},
	}
	for _, l := range outline {
		if _, err := d.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return err
	}
	title := fmt.Sprintf("ROLL %d  %.3f m", roll.Index, roll.RollLength)
	if _, err := d.Text(title, 0, y+dxfStripWidth+dxfMarkOver+1, 0, dxfTextHeight*1.5); err != nil {
		return err
	}

	x := 0.0
	for _, p := range roll.Pieces {
		w := p.Length * 1000
		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		if _, err := d.Text(p.ID, x+1, y+(dxfStripWidth-dxfTextHeight)/2, 0, dxfTextHeight); err != nil {
			return err
		}
		x += w

		if err := d.ChangeLayer(LayerCuts); err != nil {
			return err
		}
		if _, err := d.Line(x, y-dxfMarkOver, 0, x, y+dxfStripWidth+dxfMarkOver, 0); err != nil {
			return err
		}
	}
	return nil
}
