package commands

import (
	"github.com/edwisdom/resident-scheduler/internal/config"
)

// AppContext holds the dependencies every subcommand needs.
type AppContext struct {
	Cfg *config.Config
}

func NewAppContext(cfg *config.Config) *AppContext {
	return &AppContext{Cfg: cfg}
}
