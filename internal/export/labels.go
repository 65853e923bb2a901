package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/drawerfit/internal/model"
)

// LabelInfo holds the data encoded into each bin label's QR code.
type LabelInfo struct {
	PlacementID string  `json:"id"`
	BinID       string  `json:"bin"`
	BinName     string  `json:"bin_name"`
	Label       string  `json:"label"`
	Width       float64 `json:"width_in"`
	Length      float64 `json:"length_in"`
	X           float64 `json:"x_in"`
	Y           float64 `json:"y_in"`
	Layout      string  `json:"layout"`
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
	qrSize          = 20.0 // mm
	labelPadding    = 2.0  // mm
)

// ExportLabels generates a PDF of QR-coded labels, one per placed bin, laid
// out on Avery 5160 sheets (3 columns x 10 rows on US Letter).
func ExportLabels(path string, state model.LayoutState, catalog *model.Catalog) error {
	labels := CollectLabelInfos(state, catalog)
	if len(labels) == 0 {
		return fmt.Errorf("no bins placed to generate labels for")
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
			return fmt.Errorf("failed to render label for %q: %w", label.PlacementID, err)
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

	// Placement IDs are unique within a layout.
	imgName := "qr_" + info.PlacementID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	title := info.Label
	if title == "" {
		title = info.BinName
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fitText(pdf, title, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%g x %g in", info.Width, info.Length)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pos := fmt.Sprintf("%s @ (%g, %g)", info.BinID, info.X, info.Y)
	pdf.CellFormat(textW, 3, fitText(pdf, pos, textW), "", 1, "L", false, 0, "")

	if info.Layout != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.CellFormat(textW, 3, fitText(pdf, info.Layout, textW), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// fitText shortens s with an ellipsis until it fits in w at the current font.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// CollectLabelInfos returns label data for every resolvable placement in
// layout order.
func CollectLabelInfos(state model.LayoutState, catalog *model.Catalog) []LabelInfo {
	var labels []LabelInfo
	for _, p := range state.Placements {
		r, ok := catalog.EffectiveRect(p)
		if !ok {
			continue
		}
		spec, _ := catalog.Lookup(p.BinID)
		labels = append(labels, LabelInfo{
			PlacementID: p.ID,
			BinID:       p.BinID,
			BinName:     spec.Name,
			Label:       p.Label,
			Width:       r.Width,
			Length:      r.Length,
			X:           r.X,
			Y:           r.Y,
			Layout:      state.LayoutTitle,
		})
	}
	return labels
}
