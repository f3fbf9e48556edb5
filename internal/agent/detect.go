package agent

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// InstallStatus indicates whether an agent appears to be installed.
type InstallStatus string

const (
	// StatusInstalled means the directory holding the agent's config file exists.
	StatusInstalled InstallStatus = "installed"

	// StatusNotInstalled means the directory does not exist.
	StatusNotInstalled InstallStatus = "not_installed"

	// StatusUnknown means the config path could not be resolved.
	StatusUnknown InstallStatus = "unknown"
)

// Detection describes the install state of one registered agent.
type Detection struct {
	// ID is the agent identifier.
	ID string

	// Path is the agent's config file, empty when it could not be resolved.
	Path string

	// Status indicates the installation state.
	Status InstallStatus
}

// Detect reports, in registration order, which agents look installed.
// Only the config directory is checked; the config file itself may not exist
// yet.
func Detect(fs afero.Fs, reg *Registry) []Detection {
	adapters := reg.All()
	out := make([]Detection, 0, len(adapters))
	for _, a := range adapters {
		d := Detection{ID: a.ID(), Status: StatusUnknown}
		path, err := a.Path()
		if err == nil {
			d.Path = path
			d.Status = StatusNotInstalled
			if ok, _ := afero.DirExists(fs, filepath.Dir(path)); ok {
				d.Status = StatusInstalled
			}
		}
		out = append(out, d)
	}
	return out
}
