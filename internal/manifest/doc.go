// Package manifest reads the environment manifest: the record of which
// package identities and versions are currently installed. The manifest is
// the authoritative tiebreaker during identity resolution and is consumed
// strictly read-only. It also provides JSON Schema validation of manifest
// documents for diagnostics.
package manifest
