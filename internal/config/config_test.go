package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mmcp/internal/paths"
)

func testResolver(t *testing.T) paths.Static {
	t.Helper()
	return paths.Static{HomeDir: t.TempDir()}
}

func TestInit(t *testing.T) {
	r := testResolver(t)
	Init(r)

	wantConfig := filepath.Join(r.HomeDir, ".mmcp.json")
	if got := viper.GetString(KeyConfig); got != wantConfig {
		t.Errorf("config default = %q, want %q", got, wantConfig)
	}
	if got := viper.GetString(KeyLogFormat); got != "text" {
		t.Errorf("log_format default = %q, want %q", got, "text")
	}
	if got := viper.GetInt(KeyBackupRetention); got != DefaultBackupRetention {
		t.Errorf("backup_retention default = %d, want %d", got, DefaultBackupRetention)
	}
}

func TestInit_NoHome(t *testing.T) {
	Init(paths.Static{ConfigDir: t.TempDir()})

	if got := viper.GetString(KeyConfig); got != "" {
		t.Errorf("config default = %q, want empty without a home directory", got)
	}
}

func TestLoad_NoSettingsFile(t *testing.T) {
	r := testResolver(t)
	Init(r)

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no settings file should not error: %v", err)
	}
	if s.Config != filepath.Join(r.HomeDir, ".mmcp.json") {
		t.Errorf("Config = %q, want default", s.Config)
	}
	if s.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", s.LogFormat)
	}
	if s.BackupRetention != DefaultBackupRetention {
		t.Errorf("BackupRetention = %d, want %d", s.BackupRetention, DefaultBackupRetention)
	}
}

func TestLoad_DefaultLocation(t *testing.T) {
	r := testResolver(t)
	dir := paths.SettingsDir(r)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := []byte("config: /srv/team/mcp.json\nlog_format: json\nbackup_retention: 2\n")
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), content, 0o600); err != nil {
		t.Fatal(err)
	}

	Init(r)
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Config != "/srv/team/mcp.json" {
		t.Errorf("Config = %q", s.Config)
	}
	if s.LogFormat != "json" {
		t.Errorf("LogFormat = %q", s.LogFormat)
	}
	if s.BackupRetention != 2 {
		t.Errorf("BackupRetention = %d, want 2", s.BackupRetention)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("log_format: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	Init(testResolver(t))
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", s.LogFormat)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	Init(testResolver(t))

	if _, err := Load("/non/existent/path/settings.yaml"); err == nil {
		t.Error("Load() with non-existent explicit path should error")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MMCP_LOG_FORMAT", "json")
	t.Setenv("MMCP_CONFIG", "/env/mcp.json")

	Init(testResolver(t))
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json from environment", s.LogFormat)
	}
	if s.Config != "/env/mcp.json" {
		t.Errorf("Config = %q, want value from environment", s.Config)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("log_format: xml\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	Init(testResolver(t))
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error, got nil")
	}
	if !errors.Is(err, ErrInvalidLogFormat) {
		t.Errorf("Load() error = %v, want ErrInvalidLogFormat", err)
	}
	if !strings.HasPrefix(err.Error(), "validating settings: ") {
		t.Errorf("Load() error = %q", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings *Settings
		wantErrs []error
	}{
		{
			name:     "valid",
			settings: &Settings{Config: "/home/u/.mmcp.json", LogFormat: "text"},
		},
		{
			name:     "empty values use defaults",
			settings: &Settings{},
		},
		{
			name:     "bad log format",
			settings: &Settings{LogFormat: "xml"},
			wantErrs: []error{ErrInvalidLogFormat},
		},
		{
			name:     "backups disabled",
			settings: &Settings{BackupRetention: 0},
		},
		{
			name:     "negative retention",
			settings: &Settings{BackupRetention: -1},
			wantErrs: []error{ErrInvalidRetention},
		},
		{
			name:     "null byte in path",
			settings: &Settings{Config: "a\x00b"},
			wantErrs: []error{ErrInvalidPath},
		},
		{
			name:     "dot path",
			settings: &Settings{Config: ".", LogFormat: "yaml"},
			wantErrs: []error{ErrInvalidLogFormat, ErrInvalidPath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.settings)
			if len(errs) != len(tt.wantErrs) {
				t.Fatalf("Validate() = %v, want %d errors", errs, len(tt.wantErrs))
			}
			for i, want := range tt.wantErrs {
				if !errors.Is(errs[i], want) {
					t.Errorf("error %d = %v, want %v", i, errs[i], want)
				}
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}
}

func TestFieldError(t *testing.T) {
	err := &FieldError{Field: "log_format", Value: "xml", Err: ErrInvalidLogFormat}
	if got, want := err.Error(), "log_format: invalid log format: xml"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
