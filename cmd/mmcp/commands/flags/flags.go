// Package flags provides shared flag accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (agents).
package flags

import (
	"github.com/spf13/afero"

	"github.com/thoreinstein/mmcp/internal/config"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/mcp"
	"github.com/thoreinstein/mmcp/internal/mcp/parser"
	"github.com/thoreinstein/mmcp/internal/paths"
)

var (
	// configPath holds the resolved canonical config path (--config, settings or default).
	configPath string

	// quiet mirrors the -q/--quiet flag.
	quiet bool

	// backupRetention comes from settings; zero disables backups.
	backupRetention = config.DefaultBackupRetention

	fs       afero.Fs       = afero.NewOsFs()
	resolver paths.Resolver = paths.OS{}
)

// GetConfigPath returns the canonical config path chosen by the root command.
func GetConfigPath() string {
	return configPath
}

// SetConfigPath sets the canonical config path.
func SetConfigPath(path string) {
	configPath = path
}

// IsQuiet reports whether non-error output is suppressed.
func IsQuiet() bool {
	return quiet
}

// SetQuiet sets the quiet flag value.
func SetQuiet(q bool) {
	quiet = q
}

// BackupRetention returns how many backups to keep per agent.
func BackupRetention() int {
	return backupRetention
}

// SetBackupRetention sets the backup retention count.
func SetBackupRetention(n int) {
	backupRetention = n
}

// FS returns the filesystem commands read and write through.
func FS() afero.Fs {
	return fs
}

// SetFS replaces the filesystem, typically with afero.NewMemMapFs in tests.
func SetFS(f afero.Fs) {
	fs = f
}

// Resolver returns the path resolver used to locate target files.
func Resolver() paths.Resolver {
	return resolver
}

// SetResolver replaces the path resolver.
func SetResolver(r paths.Resolver) {
	resolver = r
}

// LoadConfig reads the canonical config. A missing file yields an empty
// Config in merge mode.
func LoadConfig() (*mcp.Config, error) {
	if configPath == "" {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "no config path set")
	}
	cfg, err := parser.ParseFile(fs, configPath)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return cfg, nil
}

// SaveConfig writes the canonical config back to its path.
func SaveConfig(cfg *mcp.Config) error {
	if err := parser.WriteFile(fs, configPath, cfg); err != nil {
		return errors.NewSystemError(err, "check permissions on "+configPath)
	}
	return nil
}
