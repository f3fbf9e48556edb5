// Package merge reconciles a canonical [mcp.Config] with the native
// configuration document of a client application.
//
// [JSON] merges into a decoded JSON document whose servers live under the
// "mcpServers" key. [TOML] merges into TOML text whose servers are the
// sub-tables of "mcp_servers". Both honour the two update policies:
//
//   - merge: servers named in the Config are added, or merged field by field
//     into the existing entry; every other server is left as it is.
//   - replace: the managed server region becomes exactly the Config's servers.
//
// Nothing outside the managed region is touched. The functions here are pure:
// they neither read nor write files and never mutate their inputs.
package merge
