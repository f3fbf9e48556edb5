// Package config provides settings management for mmcp using Viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mmcp/internal/paths"
)

// Settings keys.
const (
	KeyConfig          = "config"
	KeyLogFormat       = "log_format"
	KeyBackupRetention = "backup_retention"
)

// DefaultBackupRetention is the number of backups kept per agent.
const DefaultBackupRetention = 5

// EnvPrefix prefixes the environment variables that override settings,
// e.g. MMCP_CONFIG.
const EnvPrefix = "MMCP"

// Settings holds mmcp's own preferences. It does not describe MCP servers;
// those live in the canonical config file Settings.Config points at.
type Settings struct {
	// Config is the path of the canonical configuration file.
	Config string `mapstructure:"config" yaml:"config"`

	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// BackupRetention is how many backups of each agent's file to keep.
	// Zero disables backups.
	BackupRetention int `mapstructure:"backup_retention" yaml:"backup_retention"`
}

// Init resets Viper and installs the search path, environment binding and
// defaults. Call it once at startup before [Load].
func Init(r paths.Resolver) {
	viper.Reset()

	viper.SetConfigName("settings")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.SettingsDir(r))

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	if canonical, err := paths.CanonicalConfigPath(r); err == nil {
		viper.SetDefault(KeyConfig, canonical)
	}
	viper.SetDefault(KeyLogFormat, "text")
	viper.SetDefault(KeyBackupRetention, DefaultBackupRetention)
}

// Load reads the settings file.
// If path is provided, it reads from that specific file and a missing file
// is an error. If path is empty, the default location is searched and a
// missing file leaves the defaults in place.
func Load(path string) (*Settings, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	if errs := Validate(&s); len(errs) > 0 {
		return nil, fmt.Errorf("validating settings: %w", errs[0])
	}

	return &s, nil
}
