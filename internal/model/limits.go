package model

// Limits bounds every value that may enter a layout.
type Limits struct {
	MinDrawerDim   float64 // inches
	MaxDrawerDim   float64 // inches
	MinBinDim      float64 // inches
	MaxBinDim      float64 // inches
	MaxPlacements  int
	MaxTitleLen    int // runes
	MaxLabelLen    int // runes
	StorageCeiling int // characters, storage and file sources
	ShareCeiling   int // characters, URL parameter source
	HistoryDepth   int
	DefaultColor   string
}

// DefaultLimits returns the limits used by the application.
func DefaultLimits() Limits {
	return Limits{
		MinDrawerDim:   1,
		MaxDrawerDim:   120,
		MinBinDim:      0.5,
		MaxBinDim:      48,
		MaxPlacements:  500,
		MaxTitleLen:    80,
		MaxLabelLen:    40,
		StorageCeiling: 200_000,
		ShareCeiling:   300_000,
		HistoryDepth:   100,
		DefaultColor:   "#94a3b8",
	}
}

// TruncateRunes shortens s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n < 0 {
		n = 0
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// ValidColor reports whether s is a "#rgb" or "#rrggbb" hex color.
func ValidColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
