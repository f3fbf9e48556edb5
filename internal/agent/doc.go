// Package agent connects the canonical Config to the configuration files of
// the supported MCP clients.
//
// Each client is described by a [Target]: a stable identifier, the location
// of its settings file, the file format, and the normalization policy its
// schema needs. An [Adapter] pairs a Target with a filesystem and performs
// the read, merge, write cycle. The [Dispatcher] runs the adapters named by a
// Config, isolating failures per target.
package agent
