// Command meridian is the operator client for the mount control daemon.
//
// Each verb maps onto one daemon RPC over the configured endpoint and
// reports its outcome through the process exit status, so scripts and
// observing pipelines can branch on the shared status registry.
// Interrupting a motion verb substitutes a single mount stop before the
// process exits; query verbs simply give up.
package main
