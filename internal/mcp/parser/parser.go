// Package parser reads and writes the canonical mmcp configuration file
// (~/.mmcp.json). It handles loading the file from disk and writing it back
// with stable formatting and atomic file operations.
package parser

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp"
	"github.com/thoreinstein/mmcp/pkg/fileutil"
)

// Sentinel errors for parser operations.
var (
	// ErrInvalidJSON indicates the input is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInvalidConfig indicates the JSON doesn't represent a valid mmcp config.
	ErrInvalidConfig = errors.New("invalid mmcp configuration")
)

// ParseError wraps errors that occur during parsing with path context.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parsing mmcp config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parsing mmcp config: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a canonical config from JSON bytes.
//
// Empty or whitespace-only input yields [mcp.NewConfig]. A missing "mode"
// defaults to merge; a present mode is kept verbatim, even when unrecognized,
// so that the dispatcher can reject it with a precise error.
func Parse(data []byte) (*mcp.Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return mcp.NewConfig(), nil
	}

	root, err := jsontree.Parse(data)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding"), ErrInvalidJSON)
	}

	cfg := mcp.NewConfig()

	if v, ok := root.Get("mode"); ok {
		mode, isString := v.(string)
		if !isString {
			return nil, errors.Wrapf(ErrInvalidConfig, "mode must be a string, got %T", v)
		}
		cfg.Mode = mcp.Mode(mode)
	}

	if v, ok := root.Get("agents"); ok && v != nil {
		arr, isArray := v.([]any)
		if !isArray {
			return nil, errors.Wrapf(ErrInvalidConfig, "agents must be an array, got %T", v)
		}
		for i, e := range arr {
			id, isString := e.(string)
			if !isString {
				return nil, errors.Wrapf(ErrInvalidConfig, "agents[%d] must be a string, got %T", i, e)
			}
			cfg.Agents = append(cfg.Agents, id)
		}
	}

	if v, ok := root.Get("mcpServers"); ok && v != nil {
		servers, isObject := v.(*jsontree.Object)
		if !isObject {
			return nil, errors.Wrapf(ErrInvalidConfig, "mcpServers must be an object, got %T", v)
		}
		for name, raw := range servers.All() {
			fields, isObject := raw.(*jsontree.Object)
			if !isObject {
				return nil, errors.Wrapf(ErrInvalidConfig, "mcpServers[%q] must be an object, got %T", name, raw)
			}
			cfg.SetServer(name, mcp.ServerSpecFrom(fields))
		}
	}

	return cfg, nil
}

// ParseFile reads a canonical config from a file path.
// Returns a default config (not error) if the file doesn't exist, following
// the principle that a missing config file means "nothing configured yet".
func ParseFile(fs afero.Fs, path string) (*mcp.Config, error) {
	data, exists, err := fileutil.ReadFileIfExists(fs, path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if !exists {
		return mcp.NewConfig(), nil
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return cfg, nil
}

// Write encodes a canonical config as JSON with 2-space indentation and a
// trailing newline. Server and field order is preserved.
func Write(cfg *mcp.Config) ([]byte, error) {
	if cfg == nil {
		cfg = mcp.NewConfig()
	}

	data, err := jsontree.MarshalIndent(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling mmcp config")
	}
	return data, nil
}

// WriteFile writes a canonical config atomically, creating parent
// directories if they don't exist.
func WriteFile(fs afero.Fs, path string, cfg *mcp.Config) error {
	data, err := Write(cfg)
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}

	if err := fileutil.WriteFilePreservingMode(fs, path, data); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}
