package editor

// Kind tags the outcome of a placement-level operation.
type Kind string

const (
	Placed  Kind = "placed"  // Applied exactly as requested
	Autofit Kind = "autofit" // Requested spot collided; nearest free spot used
	Blocked Kind = "blocked" // Rejected; state unchanged
)

// Reason explains a blocked result.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonUnknownBin   Reason = "unknown bin"
	ReasonNotFound     Reason = "placement not found"
	ReasonUnresolvable Reason = "placement references an unknown bin"
	ReasonTooLarge     Reason = "bin is larger than the drawer"
	ReasonNoSpace      Reason = "no free space in the drawer"
	ReasonSizeRange    Reason = "size outside the allowed range"
	ReasonOutOfBounds  Reason = "would extend past the drawer"
	ReasonCollision    Reason = "would overlap another bin"
	ReasonInvalidColor Reason = "invalid color"
	ReasonEmpty        Reason = "layout is already empty"
	ReasonDrawerRange  Reason = "drawer size outside the allowed range"

	ReasonInvalidPosition Reason = "coordinates must be finite numbers"
)

// Result reports what a single operation did. X and Y are the final origin
// for add and move operations.
type Result struct {
	Kind        Kind
	PlacementID string
	X, Y        float64
	Reason      Reason
}

// OK reports whether the operation was applied.
func (r Result) OK() bool {
	return r.Kind != Blocked
}

func blocked(id string, reason Reason) Result {
	return Result{Kind: Blocked, PlacementID: id, Reason: reason}
}
