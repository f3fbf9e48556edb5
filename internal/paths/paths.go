package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/mmcp/internal/errors"
)

// AppName is the directory name used under XDG roots.
const AppName = "mmcp"

// CanonicalConfigFile is the canonical configuration file name in the home
// directory.
const CanonicalConfigFile = ".mmcp.json"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// Resolver supplies the roots that configuration paths are built from.
type Resolver interface {
	// Home returns the user's home directory.
	Home() (string, error)

	// ConfigHome returns the XDG config home directory.
	ConfigHome() string

	// Getenv returns the value of an environment variable.
	Getenv(key string) string

	// OS returns the operating system name, as in runtime.GOOS.
	OS() string
}

// OS resolves paths from the running process environment.
type OS struct{}

// Home implements Resolver.
func (OS) Home() (string, error) {
	return ResolveHome()
}

// ConfigHome implements Resolver.
func (OS) ConfigHome() string {
	return ConfigHome()
}

// Getenv implements Resolver.
func (OS) Getenv(key string) string {
	return os.Getenv(key)
}

// OS implements Resolver.
func (OS) OS() string {
	return runtime.GOOS
}

// Static is a Resolver with fixed answers.
type Static struct {
	HomeDir   string
	ConfigDir string
	Env       map[string]string
	GOOS      string
}

// Home implements Resolver. An empty HomeDir reports ErrHomeDirNotFound.
func (s Static) Home() (string, error) {
	if s.HomeDir == "" {
		return "", ErrHomeDirNotFound
	}
	return s.HomeDir, nil
}

// ConfigHome implements Resolver, defaulting to <HomeDir>/.config.
func (s Static) ConfigHome() string {
	if s.ConfigDir != "" {
		return s.ConfigDir
	}
	return filepath.Join(s.HomeDir, ".config")
}

// Getenv implements Resolver.
func (s Static) Getenv(key string) string {
	return s.Env[key]
}

// OS implements Resolver, defaulting to "linux".
func (s Static) OS() string {
	if s.GOOS == "" {
		return "linux"
	}
	return s.GOOS
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	if home == "" {
		return "", ErrHomeDirNotFound
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// HomeFile joins elem onto the home directory reported by r.
func HomeFile(r Resolver, elem ...string) (string, error) {
	home, err := r.Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}

// CanonicalConfigPath returns the default location of the canonical
// configuration file, ~/.mmcp.json.
func CanonicalConfigPath(r Resolver) (string, error) {
	return HomeFile(r, CanonicalConfigFile)
}

// SettingsDir returns the directory holding mmcp's own settings file.
func SettingsDir(r Resolver) string {
	return filepath.Join(r.ConfigHome(), AppName)
}
