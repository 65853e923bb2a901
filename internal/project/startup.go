package project

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/drawerfit/internal/model"
	"github.com/piwi3910/drawerfit/internal/normalize"
)

// Origin records where the startup layout came from.
type Origin string

const (
	OriginShare   Origin = "share"
	OriginStorage Origin = "storage"
	OriginDefault Origin = "default"
)

// StartupSources lists the candidate layouts in precedence order.
type StartupSources struct {
	SharedParam string            // encoded share parameter, empty when absent
	StoragePath string            // storage channel file, empty to skip
	Default     model.LayoutState // used when nothing else is valid
}

// ResolveStartup picks the initial layout. A valid share parameter wins over
// local storage, which wins over the default drawer. Rejected sources are
// logged and discarded; this never fails.
func ResolveStartup(src StartupSources, catalog *model.Catalog, limits model.Limits, logger *log.Logger) (model.LayoutState, Origin) {
	if logger == nil {
		logger = log.Default()
	}

	if src.SharedParam != "" {
		state, err := normalize.FromShareParam(src.SharedParam, catalog, limits)
		if err == nil {
			logger.Debug("loaded shared layout", "placements", len(state.Placements))
			return state, OriginShare
		}
		logger.Warn("ignoring shared layout", "err", err)
	}

	if src.StoragePath != "" {
		state, err := LoadLayout(src.StoragePath, catalog, limits)
		switch {
		case err == nil:
			logger.Debug("loaded saved layout", "path", src.StoragePath, "placements", len(state.Placements))
			return state, OriginStorage
		case errors.Is(err, ErrNoLayout):
			logger.Debug("no saved layout", "path", src.StoragePath)
		default:
			logger.Warn("ignoring saved layout", "path", src.StoragePath, "err", err)
		}
	}

	def := src.Default
	if def.DrawerWidth == 0 || def.DrawerLength == 0 {
		def = model.DefaultAppConfig().NewLayout(limits)
	}
	return def.Clone(), OriginDefault
}
