package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/drawerfit/internal/model"
)

// DXF layer names.
const (
	LayerDrawer = "DRAWER"
	LayerBins   = "BINS"
	LayerLabels = "LABELS"
)

// ExportDXF writes the drawer outline and every resolvable bin footprint in
// inches, for cutting a baseplate or importing into CAD. DXF's Y axis points
// up, so layout rows are mirrored to keep the drawer's top edge on top.
func ExportDXF(path string, state model.LayoutState, catalog *model.Catalog) error {
	if state.DrawerWidth <= 0 || state.DrawerLength <= 0 {
		return fmt.Errorf("drawer has no area")
	}

	d := dxf.NewDrawing()
	d.AddLayer(LayerDrawer, color.White, dxf.DefaultLineType, true)
	d.AddLayer(LayerBins, color.Cyan, dxf.DefaultLineType, true)
	d.AddLayer(LayerLabels, color.Yellow, dxf.DefaultLineType, true)

	if err := d.ChangeLayer(LayerDrawer); err != nil {
		return err
	}
	if err := dxfRect(d, 0, 0, state.DrawerWidth, state.DrawerLength); err != nil {
		return err
	}

	for _, p := range state.Placements {
		r, ok := catalog.EffectiveRect(p)
		if !ok {
			continue
		}
		y := state.DrawerLength - r.Y - r.Length

		if err := d.ChangeLayer(LayerBins); err != nil {
			return err
		}
		if err := dxfRect(d, r.X, y, r.Width, r.Length); err != nil {
			return fmt.Errorf("placement %s: %w", p.ID, err)
		}

		text := p.Label
		if text == "" {
			text = p.BinID
		}
		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		if _, err := d.Text(text, r.X+0.1, y+0.1, 0, textHeight(r)); err != nil {
			return fmt.Errorf("placement %s: %w", p.ID, err)
		}
	}

	return d.SaveAs(path)
}

// dxfRect draws an axis-aligned rectangle as four LINE entities.
func dxfRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}

func textHeight(r model.Rect) float64 {
	h := r.Length / 4
	if h > 0.25 {
		h = 0.25
	}
	return h
}
