// Package exitcode defines the signed status codes shared between the CLI
// and the mount daemon, together with their operator-facing messages.
//
// Negative codes form the wire contract: daemon guard failures plus the
// client-reserved Cancelled and Unreachable codes. Positive codes are
// reserved for local validation layers and never cross the wire. Reported
// (-1) is the sentinel for "the explanation was already printed; say
// nothing more".
//
// ExitStatus folds a code onto the 0-255 range the OS can carry, so the
// process exit status is an explicit, tested mapping rather than whatever
// the runtime happens to do with negative values.
package exitcode
