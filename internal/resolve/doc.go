// Package resolve turns a resolution request into the inputs a version
// solver needs. It fixes a unique identity for every package name in play
// (consulting the environment manifest first, then the registry index),
// expands declared dependencies transitively via an explicit worklist, and
// prunes candidate versions that cannot satisfy the request — either because
// they fall outside the requested version spec or because they depend on a
// different identity than the one already fixed for a name.
package resolve
