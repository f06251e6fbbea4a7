package repository

import (
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	// ApplyEnvironment reads an optional .env file and overlays RAD_* variables on cfg.
	ApplyEnvironment(cfg *types.Config) error
}
