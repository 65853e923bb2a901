package model

// AppConfig holds application-wide preferences and defaults.
type AppConfig struct {
	// Defaults for a fresh layout
	DefaultDrawerWidth  float64 `json:"default_drawer_width"`
	DefaultDrawerLength float64 `json:"default_drawer_length"`

	// Paths; empty means the default under ~/.drawerfit
	LayoutPath  string `json:"layout_path"`
	CatalogPath string `json:"catalog_path"`

	// Share links are built as ShareBaseURL?layout=<base64 snapshot>
	ShareBaseURL string `json:"share_base_url"`

	// Application preferences
	HistoryDepth int    `json:"history_depth"`
	LogLevel     string `json:"log_level"` // "debug", "info", "warn", "error"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	limits := DefaultLimits()
	return AppConfig{
		DefaultDrawerWidth:  24,
		DefaultDrawerLength: 18,
		ShareBaseURL:        "https://drawerfit.app/",
		HistoryDepth:        limits.HistoryDepth,
		LogLevel:            "info",
	}
}

// ApplyToLimits copies config overrides into a Limits value.
func (c AppConfig) ApplyToLimits(l *Limits) {
	if c.HistoryDepth > 0 {
		l.HistoryDepth = c.HistoryDepth
	}
}

// NewLayout returns an empty layout using the configured default drawer,
// clamped into the allowed drawer range.
func (c AppConfig) NewLayout(l Limits) LayoutState {
	w, ln := c.DefaultDrawerWidth, c.DefaultDrawerLength
	if w < l.MinDrawerDim || w > l.MaxDrawerDim {
		w = DefaultAppConfig().DefaultDrawerWidth
	}
	if ln < l.MinDrawerDim || ln > l.MaxDrawerDim {
		ln = DefaultAppConfig().DefaultDrawerLength
	}
	return NewLayoutState(RoundQuarter(w), RoundQuarter(ln))
}
