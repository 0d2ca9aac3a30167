// Package journal persists the command history shared by the daemon and
// the CLI.
//
// The daemon records every executed mount command (verb, arguments,
// resulting status code, timing, session) into a SQLite database in the
// data directory. The CLI reads the same file directly in read-only mode
// for the log verb, so history survives daemon restarts and needs no RPC
// round-trip.
//
// The schema carries an explicit version; on mismatch the journal refuses
// to open and names the remedy rather than guessing at a migration.
package journal
