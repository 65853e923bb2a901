package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/piwi3910/drawerfit/internal/model"
)

const (
	maxPreviewCells = 48
	cellEmpty       = '.'
	cellOverlap     = '!'
)

// glyphs name placements in the preview, in layout order.
const glyphs = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// glyphFor returns the preview character for the i-th placement.
func glyphFor(i int) rune {
	if i < len(glyphs) {
		return rune(glyphs[i])
	}
	return '#'
}

// previewScale returns the inches covered by one preview cell.
func previewScale(state model.LayoutState) float64 {
	longest := math.Max(state.DrawerWidth, state.DrawerLength)
	if longest <= maxPreviewCells {
		return 1
	}
	return math.Ceil(longest / maxPreviewCells)
}

// previewGrid samples the center of every cell and returns, per cell, the
// index of the covering placement, -1 for empty, or -2 where bins overlap.
func previewGrid(state model.LayoutState, catalog *model.Catalog) [][]int {
	scale := previewScale(state)
	cols := int(math.Ceil(state.DrawerWidth / scale))
	rows := int(math.Ceil(state.DrawerLength / scale))

	rects := make([]model.Rect, len(state.Placements))
	resolved := make([]bool, len(state.Placements))
	for i, p := range state.Placements {
		rects[i], resolved[i] = catalog.EffectiveRect(p)
	}

	grid := make([][]int, rows)
	for j := range grid {
		grid[j] = make([]int, cols)
		cy := (float64(j) + 0.5) * scale
		for i := range grid[j] {
			cx := (float64(i) + 0.5) * scale
			grid[j][i] = -1
			for k, r := range rects {
				if !resolved[k] || cx < r.X || cx >= r.X+r.Width || cy < r.Y || cy >= r.Y+r.Length {
					continue
				}
				if grid[j][i] >= 0 {
					grid[j][i] = -2
					break
				}
				grid[j][i] = k
			}
		}
	}
	return grid
}

// previewLines renders the grid as text, two characters per cell so the
// drawer keeps roughly its aspect ratio in a terminal.
func previewLines(state model.LayoutState, catalog *model.Catalog, colorize bool) []string {
	grid := previewGrid(state, catalog)
	styles := make([]lipgloss.Style, len(state.Placements))
	if colorize {
		for i, p := range state.Placements {
			styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color(expandHex(p.Color)))
		}
	}
	overlap := lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	lines := make([]string, len(grid))
	for j, row := range grid {
		var b strings.Builder
		for _, k := range row {
			switch {
			case k == -1:
				b.WriteString(StyleDim.Render(string([]rune{cellEmpty, cellEmpty})))
			case k == -2:
				b.WriteString(overlap.Render(string([]rune{cellOverlap, cellOverlap})))
			default:
				cell := string([]rune{glyphFor(k), glyphFor(k)})
				if colorize && state.Placements[k].Color != "" {
					cell = styles[k].Render(cell)
				}
				b.WriteString(cell)
			}
		}
		lines[j] = b.String()
	}
	return lines
}

// renderPreview frames the preview lines.
func renderPreview(state model.LayoutState, catalog *model.Catalog) string {
	return styleFrame.Render(strings.Join(previewLines(state, catalog, true), "\n"))
}

// expandHex turns "#rgb" into "#rrggbb"; lipgloss only understands the long form.
func expandHex(s string) string {
	c, err := colorful.Hex(s)
	if err != nil {
		return s
	}
	return c.Hex()
}
