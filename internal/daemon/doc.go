// Package daemon runs the long-lived meridiand process.
//
// Run wires configuration, per-run logging, the command journal, the
// mount simulator, and the IPC server into a single lifecycle with
// flock-based locking to prevent multiple instances. Every executed
// command is journaled under the run's session ID and counted in the
// optional Prometheus endpoint.
//
// Keep orchestration here: mount mechanics live in the mount package
// and wire handling in ipc, while this package focuses on startup,
// shutdown, and the order between them.
package daemon
