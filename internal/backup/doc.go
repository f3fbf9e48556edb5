// Package backup keeps copies of agent config files so a bad apply can be
// undone.
//
// Before mmcp rewrites an agent's file, the current contents are copied into
// a timestamped directory together with a manifest:
//
//	~/.config/mmcp/backups/
//	└── {agent}/
//	    └── {timestamp}/
//	        ├── manifest.json
//	        └── {file name}
//
// The manifest records the original path, permissions and a SHA256 hash that
// [Manager.Restore] verifies before writing the copy back. Only the most
// recent backups are kept per agent; see [WithRetentionCount].
//
//	mgr := backup.NewManager(afero.NewOsFs(), paths.OS{})
//	manifest, err := mgr.Backup("cursor", "/home/u/.cursor/mcp.json")
//	...
//	_, err = mgr.Restore("cursor", "") // most recent
package backup
