// Package paths resolves the directories mmcp derives file locations from.
//
// Target applications keep their configuration under the user's home
// directory, under the XDG config home, or (on Windows) under %APPDATA%.
// Those roots are reached through a [Resolver] so that adapters can be
// exercised against a fixed layout in tests:
//
//	r := paths.OS{}                                   // real environment
//	r := paths.Static{HomeDir: "/home/u", GOOS: "linux"} // tests
//
// The package wraps github.com/adrg/xdg for XDG Base Directory resolution.
package paths
