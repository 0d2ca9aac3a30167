// Package preflight provides readiness checks for the filesystem paths
// the daemon depends on.
//
// The daemon runs RunAll once at startup, after directories have been
// created but before the socket goes live. A failed check aborts
// startup so that a mount session never begins with an unwritable
// journal or log directory.
package preflight
