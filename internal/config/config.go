package config

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/spf13/viper"
)

// DefaultPageSize is the number of transactions shown per page.
const DefaultPageSize = 20

// Config keys understood by the ledger.
const (
	KeyDatabasePath  = "database.path"
	KeyPageSize      = "pagination.page_size"
	KeyLoggingLevel  = "logging.level"
	KeyLoggingFormat = "logging.format"
)

// Config holds the resolved runtime settings.
type Config struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string
	PageSize     int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "~/.local/share/ledger/ledger.db")
	v.SetDefault(KeyPageSize, DefaultPageSize)
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyLoggingFormat, "console")
}

// Load reads a Config from v, expanding paths and validating values.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		PageSize:     v.GetInt(KeyPageSize),
		LogLevel:     v.GetString(KeyLoggingLevel),
		LogFormat:    v.GetString(KeyLoggingFormat),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: %s is empty", common.ErrMissingConfig, KeyDatabasePath)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, KeyPageSize, c.PageSize)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %s must be console or json, got %q", common.ErrInvalidConfig, KeyLoggingFormat, c.LogFormat)
	}
	return nil
}
