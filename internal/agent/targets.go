package agent

import (
	"path/filepath"

	"github.com/thoreinstein/mmcp/internal/merge"
	"github.com/thoreinstein/mmcp/internal/paths"
)

// Target identifiers.
const (
	ClaudeDesktop    = "claude-desktop"
	Cursor           = "cursor"
	GeminiCLI        = "gemini-cli"
	CodexCLI         = "codex-cli"
	CopilotCLI       = "copilot-cli"
	GitHubCopilotCLI = "github-copilot-cli"
)

// Targets returns every supported client in a fixed order.
func Targets() []Target {
	return []Target{
		{
			ID:          ClaudeDesktop,
			DisplayName: "Claude Desktop",
			Format:      FormatJSON,
			Locate:      claudeDesktopPath,
		},
		{
			ID:          Cursor,
			DisplayName: "Cursor",
			Format:      FormatJSON,
			Locate:      homePath(".cursor", "mcp.json"),
		},
		{
			ID:          GeminiCLI,
			DisplayName: "Gemini CLI",
			Format:      FormatJSON,
			Locate:      homePath(".gemini", "settings.json"),
		},
		{
			ID:          CodexCLI,
			DisplayName: "Codex CLI",
			Format:      FormatTOML,
			Locate:      codexPath,
		},
		{
			ID:            CopilotCLI,
			DisplayName:   "Copilot CLI",
			Format:        FormatJSON,
			Normalization: merge.NormalizeLocalDefaults,
			Locate:        homePath(".copilot", "mcp-config.json"),
		},
		{
			ID:            GitHubCopilotCLI,
			DisplayName:   "GitHub Copilot CLI",
			Format:        FormatJSON,
			Normalization: merge.NormalizeLocalTouched,
			Locate: func(r paths.Resolver) (string, error) {
				return filepath.Join(r.ConfigHome(), "github-copilot", "mcp-config.json"), nil
			},
		},
	}
}

func homePath(elem ...string) func(paths.Resolver) (string, error) {
	return func(r paths.Resolver) (string, error) {
		return paths.HomeFile(r, elem...)
	}
}

func claudeDesktopPath(r paths.Resolver) (string, error) {
	const file = "claude_desktop_config.json"

	switch r.OS() {
	case "darwin":
		return paths.HomeFile(r, "Library", "Application Support", "Claude", file)
	case "windows":
		if appData := r.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Claude", file), nil
		}
		return paths.HomeFile(r, "AppData", "Roaming", "Claude", file)
	default:
		return filepath.Join(r.ConfigHome(), "Claude", file), nil
	}
}

func codexPath(r paths.Resolver) (string, error) {
	if codexHome := r.Getenv("CODEX_HOME"); codexHome != "" {
		return filepath.Join(codexHome, "config.toml"), nil
	}
	return paths.HomeFile(r, ".codex", "config.toml")
}
