// Package ipc exposes the mount daemon over JSON-RPC and ships the
// matching client used by the CLI.
//
// It owns endpoint lifecycle management (unix socket or TCP, inferred
// from the endpoint string), the request/response wire pairs, and the
// split between daemon-reported status codes and transport failures: a
// code travels inside the response, while anything that prevents the
// round-trip comes back as a CommunicationError. The server embeds the
// mount simulator and reports each executed command to an observer; the
// client decorates calls with per-call deadlines so short commands fail
// fast while motion calls may run unbounded.
//
// Reuse these types when adding new RPC endpoints to keep the protocol
// stable and compatible with existing command implementations.
package ipc
