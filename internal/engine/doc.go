// Package engine executes CLI commands and turns their outcomes into
// operator-facing status reporting.
//
// Run invokes a command handler, classifies the result (context
// cancellation, communication failure, or a daemon-reported code), and
// prints the status message for the final code in exactly one place.
// When an interrupt lands during a motion command the engine substitutes
// a single mount stop on a fresh context before reporting, so an
// abandoned slew never leaves the axes moving.
//
// Handlers that explain a failure themselves return the reported code and
// stay silent here; everything else leaves message wording to the status
// code table.
package engine
