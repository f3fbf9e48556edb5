// Package config manages mmcp's own settings.
//
// Settings are distinct from the canonical MCP configuration (~/.mmcp.json)
// and from the client files the adapters write. They only select where the
// canonical file lives and how logs are formatted.
//
// # Settings File
//
// The optional settings file lives at $XDG_CONFIG_HOME/mmcp/settings.yaml:
//
//	config: /path/to/team-mcp.json
//	log_format: json
//
// Every key can be overridden from the environment with the MMCP_ prefix
// (MMCP_CONFIG, MMCP_LOG_FORMAT); command-line flags take precedence over
// both.
//
// # Loading
//
//	config.Init(paths.OS{})
//	s, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
// Loaded settings are validated; see [Validate].
package config
