// Package registry handles registry discovery and package indexing for
// Quarry depots. It scans depot directories for registries (a descriptor plus
// a package listing), filters listing records down to requested names, and
// builds the name → identity → location index consumed by resolution.
package registry
