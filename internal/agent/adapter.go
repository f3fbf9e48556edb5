package agent

import (
	"bytes"

	"github.com/spf13/afero"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp"
	"github.com/thoreinstein/mmcp/internal/merge"
	"github.com/thoreinstein/mmcp/internal/paths"
	"github.com/thoreinstein/mmcp/pkg/fileutil"
)

// Format identifies the on-disk encoding of a target file.
type Format string

const (
	// FormatJSON targets hold a JSON object with a top-level "mcpServers" mapping.
	FormatJSON Format = "json"
	// FormatTOML targets hold TOML with one [mcp_servers.<name>] table per server.
	FormatTOML Format = "toml"
)

// Adapter applies a Config to one client's settings file.
type Adapter interface {
	// ID returns the stable identifier used in the Config's agents list.
	ID() string

	// Path returns the absolute path of the target file.
	Path() (string, error)

	// Apply merges cfg into the target file and writes the result.
	Apply(cfg *mcp.Config) error
}

// Target describes a supported MCP client.
type Target struct {
	// ID is the identifier users list in the Config.
	ID string

	// DisplayName is the human-readable client name.
	DisplayName string

	// Format selects the merge algorithm.
	Format Format

	// Normalization is applied to JSON targets. It is ignored for TOML.
	Normalization merge.Normalization

	// Locate returns the path of the settings file.
	Locate func(r paths.Resolver) (string, error)
}

// fileAdapter is the Adapter for a Target backed by an afero filesystem.
type fileAdapter struct {
	target   Target
	fs       afero.Fs
	resolver paths.Resolver
}

// NewAdapter binds target to a filesystem and path resolver.
func NewAdapter(target Target, fs afero.Fs, r paths.Resolver) Adapter {
	return &fileAdapter{target: target, fs: fs, resolver: r}
}

func (a *fileAdapter) ID() string {
	return a.target.ID
}

func (a *fileAdapter) Path() (string, error) {
	path, err := a.target.Locate(a.resolver)
	if err != nil {
		return "", errors.Wrapf(err, "locating %s config", a.target.ID)
	}
	return path, nil
}

// Apply reads the target (a missing or blank file counts as empty), computes
// the merged content in memory and only then writes it. Nothing is written
// when any step before the write fails.
func (a *fileAdapter) Apply(cfg *mcp.Config) error {
	path, err := a.Path()
	if err != nil {
		return err
	}

	data, _, err := fileutil.ReadFileIfExists(a.fs, path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	var out []byte
	switch a.target.Format {
	case FormatTOML:
		out, err = applyTOML(data, cfg)
	default:
		out, err = applyJSON(data, cfg, a.target.Normalization)
	}
	if err != nil {
		return errors.Wrapf(err, "merging into %s", path)
	}

	if err := fileutil.WriteFilePreservingMode(a.fs, path, out); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func applyJSON(data []byte, cfg *mcp.Config, norm merge.Normalization) ([]byte, error) {
	var doc *jsontree.Object
	if len(bytes.TrimSpace(data)) > 0 {
		parsed, err := jsontree.Parse(data)
		if err != nil {
			return nil, errors.Malformed(err, "parsing JSON")
		}
		doc = parsed
	}

	merged, err := merge.JSON(doc, cfg, norm)
	if err != nil {
		return nil, err
	}
	return jsontree.MarshalIndent(merged)
}

func applyTOML(data []byte, cfg *mcp.Config) ([]byte, error) {
	merged, err := merge.TOML(string(data), cfg)
	if err != nil {
		return nil, err
	}
	return []byte(merged), nil
}
