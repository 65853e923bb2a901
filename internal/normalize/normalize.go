// Package normalize validates layouts arriving from outside the process:
// local storage, share links and imported files. A payload either becomes a
// fully valid model.LayoutState or is rejected as a whole.
package normalize

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/piwi3910/drawerfit/internal/engine"
	"github.com/piwi3910/drawerfit/internal/model"
)

// Source identifies the channel a payload arrived on.
type Source string

const (
	SourceStorage Source = "storage"
	SourceFile    Source = "file"
	SourceShare   Source = "share"
)

// Reason classifies a rejection.
type Reason string

const (
	ReasonTooLarge    Reason = "payload too large"
	ReasonMalformed   Reason = "malformed payload"
	ReasonDrawer      Reason = "invalid drawer size"
	ReasonPlacements  Reason = "invalid placements"
	ReasonTooMany     Reason = "too many placements"
	ReasonDuplicateID Reason = "duplicate placement id"
	ReasonUnknownBin  Reason = "unknown bin"
	ReasonPosition    Reason = "invalid position"
	ReasonSize        Reason = "invalid size override"
	ReasonOutOfDrawer Reason = "placement outside drawer"
	ReasonOverlap     Reason = "overlapping placements"
)

// Rejection is the only error type returned by this package.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return "layout rejected: " + string(r.Reason)
	}
	return fmt.Sprintf("layout rejected: %s: %s", r.Reason, r.Detail)
}

// IsRejection reports whether err is a *Rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// ReasonOf returns the rejection reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return "", false
}

func reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// FromText parses and validates a JSON snapshot read from storage or a file.
func FromText(text string, source Source, catalog *model.Catalog, limits model.Limits) (model.LayoutState, error) {
	ceiling := limits.StorageCeiling
	if source == SourceShare {
		ceiling = limits.ShareCeiling
	}
	if err := checkCeiling(text, ceiling); err != nil {
		return model.LayoutState{}, err
	}
	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return model.LayoutState{}, reject(ReasonMalformed, "%v", err)
	}
	return Normalize(payload, catalog, limits)
}

// FromShareParam decodes and validates the base64 layout parameter of a
// share link. Standard and URL-safe alphabets are accepted, with or without
// padding.
func FromShareParam(param string, catalog *model.Catalog, limits model.Limits) (model.LayoutState, error) {
	if err := checkCeiling(param, limits.ShareCeiling); err != nil {
		return model.LayoutState{}, err
	}
	raw, err := decodeBase64(strings.TrimSpace(param))
	if err != nil {
		return model.LayoutState{}, reject(ReasonMalformed, "share parameter is not base64")
	}
	if !utf8.Valid(raw) {
		return model.LayoutState{}, reject(ReasonMalformed, "share parameter is not UTF-8 text")
	}
	return FromText(string(raw), SourceShare, catalog, limits)
}

func decodeBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// checkCeiling bounds parse cost. Byte length is an upper bound on the
// character count, so runes are only counted when it is exceeded.
func checkCeiling(text string, ceiling int) error {
	if len(text) <= ceiling {
		return nil
	}
	if n := utf8.RuneCountInString(text); n > ceiling {
		return reject(ReasonTooLarge, "%d characters exceeds %d", n, ceiling)
	}
	return nil
}

// Normalize validates an already-decoded payload, typically the result of
// json.Unmarshal into an any. It never panics.
func Normalize(payload any, catalog *model.Catalog, limits model.Limits) (state model.LayoutState, err error) {
	defer func() {
		if r := recover(); r != nil {
			state, err = model.LayoutState{}, reject(ReasonMalformed, "unexpected payload: %v", r)
		}
	}()

	obj, ok := payload.(map[string]any)
	if !ok {
		return model.LayoutState{}, reject(ReasonMalformed, "snapshot must be a JSON object")
	}

	drawerW, err := drawerDim(obj, "drawerWidth", limits)
	if err != nil {
		return model.LayoutState{}, err
	}
	drawerL, err := drawerDim(obj, "drawerLength", limits)
	if err != nil {
		return model.LayoutState{}, err
	}

	list, ok := obj["placements"].([]any)
	if !ok {
		return model.LayoutState{}, reject(ReasonPlacements, "placements must be an array")
	}
	if len(list) > limits.MaxPlacements {
		return model.LayoutState{}, reject(ReasonTooMany, "%d placements exceeds %d", len(list), limits.MaxPlacements)
	}

	placements := make([]model.Placement, 0, len(list))
	seen := make(map[string]bool, len(list))
	for i, item := range list {
		p, err := placement(i, item, catalog, limits)
		if err != nil {
			return model.LayoutState{}, err
		}
		if seen[p.ID] {
			return model.LayoutState{}, reject(ReasonDuplicateID, "%q", p.ID)
		}
		seen[p.ID] = true

		r, _ := catalog.EffectiveRect(p)
		if r.X+r.Width > drawerW || r.Y+r.Length > drawerL {
			return model.LayoutState{}, reject(ReasonOutOfDrawer, "%q", p.ID)
		}
		placements = append(placements, p)
	}

	if conflicts := engine.Overlapping(placements, catalog); len(conflicts) > 0 {
		return model.LayoutState{}, reject(ReasonOverlap, "%q and %q", conflicts[0].A, conflicts[0].B)
	}

	title, _ := obj["layoutTitle"].(string)
	return model.LayoutState{
		LayoutTitle:  model.TruncateRunes(title, limits.MaxTitleLen),
		DrawerWidth:  drawerW,
		DrawerLength: drawerL,
		Placements:   placements,
	}, nil
}

func drawerDim(obj map[string]any, key string, limits model.Limits) (float64, error) {
	v, ok := number(obj[key])
	if !ok {
		return 0, reject(ReasonDrawer, "%s must be a finite number", key)
	}
	v = model.RoundQuarter(v)
	if v < limits.MinDrawerDim || v > limits.MaxDrawerDim {
		return 0, reject(ReasonDrawer, "%s %.2f outside [%.2f, %.2f]", key, v, limits.MinDrawerDim, limits.MaxDrawerDim)
	}
	return v, nil
}

// placement validates one element of the placements array.
func placement(i int, item any, catalog *model.Catalog, limits model.Limits) (model.Placement, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return model.Placement{}, reject(ReasonPlacements, "placement %d is not an object", i)
	}

	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return model.Placement{}, reject(ReasonPlacements, "placement %d has no id", i)
	}
	binID, ok := obj["binId"].(string)
	if !ok {
		return model.Placement{}, reject(ReasonUnknownBin, "placement %q has no binId", id)
	}
	if _, ok := catalog.Lookup(binID); !ok {
		return model.Placement{}, reject(ReasonUnknownBin, "placement %q references %q", id, binID)
	}

	p := model.Placement{ID: id, BinID: binID}
	var err error
	if p.X, err = coord(obj, "x", id, limits); err != nil {
		return model.Placement{}, err
	}
	if p.Y, err = coord(obj, "y", id, limits); err != nil {
		return model.Placement{}, err
	}
	if p.Width, err = override(obj, "width", id, limits); err != nil {
		return model.Placement{}, err
	}
	if p.Length, err = override(obj, "length", id, limits); err != nil {
		return model.Placement{}, err
	}

	if raw, present := obj["color"]; present && raw != nil {
		color, _ := raw.(string)
		if !model.ValidColor(color) {
			color = limits.DefaultColor
		}
		p.Color = color
	}
	if label, ok := obj["label"].(string); ok {
		p.Label = model.TruncateRunes(label, limits.MaxLabelLen)
	}
	return p, nil
}

func coord(obj map[string]any, key, id string, limits model.Limits) (float64, error) {
	v, ok := number(obj[key])
	if !ok {
		return 0, reject(ReasonPosition, "placement %q: %s must be a finite number", id, key)
	}
	v = model.RoundQuarter(v)
	if v < 0 || v > limits.MaxDrawerDim {
		return 0, reject(ReasonPosition, "placement %q: %s %.2f outside [0, %.2f]", id, key, v, limits.MaxDrawerDim)
	}
	return v, nil
}

// override reads an optional size override; absent or null means inherit.
func override(obj map[string]any, key, id string, limits model.Limits) (*float64, error) {
	raw, present := obj[key]
	if !present || raw == nil {
		return nil, nil
	}
	v, ok := number(raw)
	if !ok {
		return nil, reject(ReasonSize, "placement %q: %s must be a finite number", id, key)
	}
	v = model.RoundQuarter(v)
	if v < limits.MinBinDim || v > limits.MaxBinDim {
		return nil, reject(ReasonSize, "placement %q: %s %.2f outside [%.2f, %.2f]", id, key, v, limits.MinBinDim, limits.MaxBinDim)
	}
	return &v, nil
}

// number accepts the numeric types json.Unmarshal and Go callers produce
// and rejects NaN and infinities.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
