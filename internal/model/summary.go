package model

import "sort"

// BinCount is one line of a layout's bill of materials.
type BinCount struct {
	BinID    string  `json:"bin_id"`
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Length   float64 `json:"length"`
	Quantity int     `json:"quantity"`
}

// Summary holds usage statistics for a layout.
type Summary struct {
	DrawerArea float64    `json:"drawer_area"` // sq in
	UsedArea   float64    `json:"used_area"`   // sq in, resolvable placements only
	Placed     int        `json:"placed"`
	Unresolved int        `json:"unresolved"` // placements whose bin is not in the catalog
	Bins       []BinCount `json:"bins"`
}

// Efficiency returns the used percentage of the drawer floor.
func (s Summary) Efficiency() float64 {
	if s.DrawerArea == 0 {
		return 0
	}
	return (s.UsedArea / s.DrawerArea) * 100.0
}

// Summarize computes usage statistics and a per-size bill of materials.
// Placements with overridden sizes are counted under their effective size.
func Summarize(state LayoutState, catalog *Catalog) Summary {
	sum := Summary{DrawerArea: state.DrawerWidth * state.DrawerLength}

	type key struct {
		binID string
		w, l  float64
	}
	counts := make(map[key]*BinCount)

	for _, p := range state.Placements {
		size, ok := catalog.EffectiveSize(p)
		if !ok {
			sum.Unresolved++
			continue
		}
		sum.Placed++
		sum.UsedArea += size.Area()

		k := key{p.BinID, size.Width, size.Length}
		bc, ok := counts[k]
		if !ok {
			spec, _ := catalog.Lookup(p.BinID)
			bc = &BinCount{BinID: p.BinID, Name: spec.Name, Width: size.Width, Length: size.Length}
			counts[k] = bc
		}
		bc.Quantity++
	}

	for _, bc := range counts {
		sum.Bins = append(sum.Bins, *bc)
	}
	sort.Slice(sum.Bins, func(i, j int) bool {
		a, b := sum.Bins[i], sum.Bins[j]
		if a.BinID != b.BinID {
			return a.BinID < b.BinID
		}
		if a.Width != b.Width {
			return a.Width < b.Width
		}
		return a.Length < b.Length
	})
	return sum
}
