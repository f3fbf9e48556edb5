package doctor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"slices"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/thoreinstein/mmcp/internal/agent"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/mcp/parser"
	"github.com/thoreinstein/mmcp/internal/mcp/validator"
	"github.com/thoreinstein/mmcp/internal/merge"
	"github.com/thoreinstein/mmcp/internal/paths"
	"github.com/thoreinstein/mmcp/pkg/fileutil"
)

// maxSecureFilePerm is the maximum permission for files that may hold
// secrets in env or headers (-rw-r--r--).
const maxSecureFilePerm os.FileMode = 0o644

// DefaultChecks returns the canonical config check followed by one file check
// per supported agent listed in the config at configPath.
func DefaultChecks(fs afero.Fs, r paths.Resolver, configPath string) []Check {
	var known []string
	for _, t := range agent.Targets() {
		known = append(known, t.ID)
	}
	checks := []Check{NewConfigCheck(fs, configPath, known)}

	cfg, err := parser.ParseFile(fs, configPath)
	if err != nil {
		return checks
	}
	for _, t := range agent.Targets() {
		if slices.Contains(cfg.Agents, t.ID) {
			checks = append(checks, NewAgentFileCheck(fs, r, t))
		}
	}
	return checks
}

// ConfigCheck parses and validates the canonical config.
type ConfigCheck struct {
	fs          afero.Fs
	path        string
	knownAgents []string
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check of the canonical config at path.
func NewConfigCheck(fs afero.Fs, path string, knownAgents []string) *ConfigCheck {
	return &ConfigCheck{fs: fs, path: path, knownAgents: knownAgents}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "canonical-config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the check.
func (c *ConfigCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category(), Path: c.path}

	data, exists, err := fileutil.ReadFileIfExists(c.fs, c.path)
	if err != nil {
		return fail(res, fmt.Sprintf("cannot read file: %v", err))
	}
	if !exists {
		res.Status = SeverityInfo
		res.Message = "not found; nothing is configured yet"
		res.FixHint = "mmcp add <name> <command> [args...]"
		return res
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fail(res, formatJSONError(err, data))
	}
	cfg, err := parser.Parse(data)
	if err != nil {
		return fail(res, err.Error())
	}

	issues := validator.New(validator.WithKnownAgents(c.knownAgents)).Validate(cfg)
	for _, issue := range issues {
		res.Details = append(res.Details, issue.Error())
	}
	errs, warnings := validator.Split(issues)
	switch {
	case len(errs) > 0:
		res.Status = SeverityError
		res.Message = fmt.Sprintf("%d error(s)", len(errs))
		res.FixHint = "mmcp edit"
	case len(warnings) > 0:
		res.Status = SeverityWarning
		res.Message = fmt.Sprintf("%d warning(s)", len(warnings))
	default:
		res.Status = SeverityPass
		res.Message = fmt.Sprintf("%d server(s), %d agent(s), mode %s", cfg.MCPServers.Len(), len(cfg.Agents), cfg.Mode)
	}
	return res
}

// AgentFileCheck checks that an agent's config file can be parsed and merged
// into, and that its permissions are not too open.
type AgentFileCheck struct {
	fs     afero.Fs
	r      paths.Resolver
	target agent.Target
}

var _ Check = (*AgentFileCheck)(nil)

// NewAgentFileCheck creates a check of target's config file.
func NewAgentFileCheck(fs afero.Fs, r paths.Resolver, target agent.Target) *AgentFileCheck {
	return &AgentFileCheck{fs: fs, r: r, target: target}
}

// Name returns the unique identifier for this check.
func (c *AgentFileCheck) Name() string {
	return "agent:" + c.target.ID
}

// Category returns the grouping for this check.
func (c *AgentFileCheck) Category() string {
	return "agent"
}

// Run executes the check.
func (c *AgentFileCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	path, err := c.target.Locate(c.r)
	if err != nil {
		return fail(res, fmt.Sprintf("cannot locate config file: %v", err))
	}
	res.Path = path

	data, exists, err := fileutil.ReadFileIfExists(c.fs, path)
	if err != nil {
		return fail(res, fmt.Sprintf("cannot read file: %v", err))
	}
	if !exists {
		res.Status = SeverityInfo
		res.Message = "not found; mmcp apply will create it"
		return res
	}

	var servers int
	if c.target.Format == agent.FormatTOML {
		servers, err = countTOMLServers(data)
	} else {
		servers, err = countJSONServers(data)
	}
	if err != nil {
		res.FixHint = "fix the file by hand or run 'mmcp restore " + c.target.ID + "'"
		return fail(res, err.Error())
	}

	if runtime.GOOS != "windows" {
		if info, err := c.fs.Stat(path); err == nil {
			if msg := permissionProblem(info.Mode()); msg != "" {
				res.Status = SeverityWarning
				res.Message = msg
				res.Fixable = true
				res.FixHint = fmt.Sprintf("chmod %s %s", formatOctal(info.Mode().Perm()&maxSecureFilePerm), path)
				return res
			}
		}
	}

	res.Status = SeverityPass
	res.Message = fmt.Sprintf("%d server(s)", servers)
	return res
}

func countJSONServers(data []byte) (int, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return 0, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, errors.New(formatJSONError(err, data))
	}
	doc, err := jsontree.Parse(data)
	if err != nil {
		return 0, err
	}
	raw, ok := doc.Get(merge.ServersKey)
	if !ok {
		return 0, nil
	}
	servers, ok := raw.(*jsontree.Object)
	if !ok {
		return 0, errors.Newf("%q is not an object", merge.ServersKey)
	}
	return servers.Len(), nil
}

func countTOMLServers(data []byte) (int, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return 0, errors.New(formatTOMLError(err))
	}
	raw, ok := doc[merge.TOMLServersKey]
	if !ok {
		return 0, nil
	}
	servers, ok := raw.(map[string]any)
	if !ok {
		return 0, errors.Newf("%q is not a table", merge.TOMLServersKey)
	}
	return len(servers), nil
}

func permissionProblem(mode os.FileMode) string {
	perm := mode.Perm()
	if perm&0o002 != 0 {
		return fmt.Sprintf("file is world-writable (mode %s)", formatOctal(perm))
	}
	if perm > maxSecureFilePerm {
		return fmt.Sprintf("file has overly permissive permissions (mode %s, expected %s or less)", formatOctal(perm), formatOctal(maxSecureFilePerm))
	}
	return ""
}

func fail(res *CheckResult, msg string) *CheckResult {
	res.Status = SeverityError
	res.Message = msg
	return res
}

func formatOctal(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

// formatJSONError extracts position information from JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	return fmt.Sprintf("JSON error: %v", err)
}

// formatTOMLError extracts position information from TOML decode errors.
func formatTOMLError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}
	return fmt.Sprintf("TOML error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-indexed line and column numbers.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = max(0, min(offset, len(data)))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}
