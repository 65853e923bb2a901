package export

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/piwi3910/drawerfit/internal/model"
)

// binColor represents an RGB color for a drawn bin.
type binColor struct {
	R, G, B int
}

// binColors is the fallback palette for placements without a color.
var binColors = []binColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// parseHex decodes a "#rgb" or "#rrggbb" color.
func parseHex(s string) (binColor, bool) {
	if !model.ValidColor(s) {
		return binColor{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return binColor{}, false
	}
	r, g, b := c.RGB255()
	return binColor{R: int(r), G: int(g), B: int(b)}, true
}

// placementColor returns the placement's own color or a palette entry.
func placementColor(p model.Placement, index int) binColor {
	if c, ok := parseHex(p.Color); ok {
		return c
	}
	return binColors[index%len(binColors)]
}
