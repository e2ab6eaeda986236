// Package cli implements the quarry command-line interface: resolving
// requested packages against configured depots, inspecting discovered
// registries, and showing the active environment's manifest.
package cli
