// Package mcp defines the canonical Config model: the single, tool-agnostic
// description of which MCP servers every target agent should have registered.
//
// # Config
//
// A [Config] is constructed once per invocation, usually by loading
// ~/.mmcp.json with the parser package, and is treated as immutable while the
// adapters reconcile it into each target file:
//
//	{
//	  "mode": "merge",
//	  "agents": ["claude-desktop", "codex-cli"],
//	  "mcpServers": {
//	    "context7": {"command": "npx", "args": ["-y", "@upstash/context7-mcp@latest"], "env": {}}
//	  }
//	}
//
// # Server Specs
//
// [ServerSpec] is an open record. The usual fields (command, args, env, url)
// have typed accessors, but arbitrary extra fields such as headers, trust,
// type or tools are preserved in order and passed through to the targets.
// Server names are literal keys; "name.with dot" is one server.
//
// A field whose value is JSON null is the deletion sentinel: merging it into a
// target removes that field from the existing entry.
package mcp
