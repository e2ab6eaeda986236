// Package version wraps semantic version parsing and constraint matching for
// resolution requests. A Spec is either an exact version ("1.2.3") or a range
// predicate (">=1.0.0, <2.0.0"); both filter candidate versions the same way.
package version
