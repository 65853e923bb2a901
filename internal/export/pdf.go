// Package export writes layouts to printable and machine-readable formats.
package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/drawerfit/internal/engine"
	"github.com/piwi3910/drawerfit/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	shareQRSize  = 45.0
)

// PDFOptions configures ExportPDF.
type PDFOptions struct {
	// ShareURL, when set, is printed as a QR code on the summary page.
	ShareURL string
}

// ExportPDF writes a drawer plan page and a summary page with the bill of
// materials.
func ExportPDF(path string, state model.LayoutState, catalog *model.Catalog, opts PDFOptions) error {
	if state.DrawerWidth <= 0 || state.DrawerLength <= 0 {
		return fmt.Errorf("drawer has no area")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(displayTitle(state), true)

	pdf.AddPage()
	renderPlanPage(pdf, state, catalog)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, state, catalog, opts); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

func displayTitle(state model.LayoutState) string {
	if state.LayoutTitle != "" {
		return state.LayoutTitle
	}
	return "Untitled drawer"
}

// renderPlanPage draws the drawer floor and every resolvable placement.
func renderPlanPage(pdf *fpdf.Fpdf, state model.LayoutState, catalog *model.Catalog) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%g x %g in)", displayTitle(state), state.DrawerWidth, state.DrawerLength)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	sum := model.Summarize(state, catalog)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Bins: %d | Used area: %.2f sq in | Drawer area: %.2f sq in | Efficiency: %.1f%%",
		sum.Placed, sum.UsedArea, sum.DrawerArea, sum.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/state.DrawerWidth, drawHeight/state.DrawerLength)
	canvasW := state.DrawerWidth * scale
	canvasH := state.DrawerLength * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Drawer floor
	pdf.SetFillColor(241, 245, 249)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawInchGrid(pdf, state, scale, offsetX, offsetY)

	flagged := make(map[string]bool)
	for _, c := range engine.Overlapping(state.Placements, catalog) {
		flagged[c.A], flagged[c.B] = true, true
	}
	for _, id := range engine.OutOfBounds(state.Placements, catalog, state.DrawerWidth, state.DrawerLength) {
		flagged[id] = true
	}

	for i, p := range state.Placements {
		r, ok := catalog.EffectiveRect(p)
		if !ok {
			continue
		}
		col := placementColor(p, i)
		pw, ph := r.Width*scale, r.Length*scale
		px, py := offsetX+r.X*scale, offsetY+r.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		if flagged[p.ID] {
			pdf.SetDrawColor(220, 0, 0)
			pdf.SetLineWidth(0.8)
		}
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := p.Label
			if label == "" {
				label = p.BinID
			}
			dims := fmt.Sprintf("%gx%g", r.Width, r.Length)

			if labelW := pdf.GetStringWidth(label); labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if dimsW := pdf.GetStringWidth(dims); ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, state, offsetX, offsetY, canvasW, canvasH)
	drawBinLegend(pdf, sum, offsetY+canvasH+6)
}

// drawInchGrid draws light one-inch guide lines across the drawer floor.
func drawInchGrid(pdf *fpdf.Fpdf, state model.LayoutState, scale, offsetX, offsetY float64) {
	if scale < 2 {
		return
	}
	pdf.SetDrawColor(210, 214, 220)
	pdf.SetLineWidth(0.1)
	for x := 1.0; x < state.DrawerWidth; x++ {
		pdf.Line(offsetX+x*scale, offsetY, offsetX+x*scale, offsetY+state.DrawerLength*scale)
	}
	for y := 1.0; y < state.DrawerLength; y++ {
		pdf.Line(offsetX, offsetY+y*scale, offsetX+state.DrawerWidth*scale, offsetY+y*scale)
	}
}

// drawDimensionAnnotations adds width and length labels outside the drawer.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, state model.LayoutState, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%g in", state.DrawerWidth)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%g in", state.DrawerLength)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-lLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawBinLegend renders a compact bill of materials under the plan.
func drawBinLegend(pdf *fpdf.Fpdf, sum model.Summary, startY float64) {
	if len(sum.Bins) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Bins:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, bc := range sum.Bins {
		label := fmt.Sprintf("%d x %s (%gx%g)", bc.Quantity, bc.BinID, bc.Width, bc.Length)
		labelW := pdf.GetStringWidth(label) + 2

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		pdf.SetXY(xPos, startY)
		pdf.CellFormat(labelW, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 4
	}
}

// renderSummaryPage draws usage statistics, the bill of materials and the
// optional share QR code.
func renderSummaryPage(pdf *fpdf.Fpdf, state model.LayoutState, catalog *model.Catalog, opts PDFOptions) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Drawer Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	sum := model.Summarize(state, catalog)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Drawer", fmt.Sprintf("%g x %g in", state.DrawerWidth, state.DrawerLength)},
		{"Bins Placed", fmt.Sprintf("%d", sum.Placed)},
		{"Floor Used", fmt.Sprintf("%.1f%%", sum.Efficiency())},
		{"Free Area", fmt.Sprintf("%.2f sq in", sum.DrawerArea-sum.UsedArea)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Bill of Materials", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{45, 60, 35, 25}
	headers := []string{"Bin", "Name", "Size (in)", "Qty"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, bc := range sum.Bins {
		if y > pageHeight-marginBottom-10 {
			break
		}
		xPos = marginLeft
		rowData := []string{
			bc.BinID,
			bc.Name,
			fmt.Sprintf("%g x %g", bc.Width, bc.Length),
			fmt.Sprintf("%d", bc.Quantity),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if sum.Unresolved > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 6, fmt.Sprintf("WARNING: %d placement(s) reference unknown bins", sum.Unresolved), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	if opts.ShareURL != "" {
		if err := drawShareQR(pdf, opts.ShareURL); err != nil {
			return err
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by drawerfit", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// drawShareQR places the share link QR code in the top-right corner of the
// summary page. Links too long for a QR code get a note instead.
func drawShareQR(pdf *fpdf.Fpdf, link string) error {
	x := pageWidth - marginRight - shareQRSize
	y := marginTop + 18

	png, err := qrcode.Encode(link, qrcode.Low, 512)
	if err != nil {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetXY(x, y)
		pdf.MultiCell(shareQRSize, 4, "Layout too large for a QR code; use the share link instead.", "", "L", false)
		return nil
	}

	pdf.RegisterImageOptionsReader("share_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions("share_qr", x, y, shareQRSize, shareQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(x, y+shareQRSize+1)
	pdf.CellFormat(shareQRSize, 4, "Scan to open this layout", "", 0, "C", false, 0, "")
	return pdf.Error()
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
