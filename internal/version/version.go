// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.2.0"

// Milestones:
// 0.2.0 - Neighbor-offset placement around catalog stars, TUI field preview
// 0.1.0 - Initial release: background/density map placement, TAN WCS, bin summary
