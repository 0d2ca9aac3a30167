package exitcode

import "fmt"

// Code is a signed command status. Zero is success, negative values are the
// client/daemon contract, positive values are reserved for local validation.
type Code int

const (
	// Succeeded reports a completed command. Nothing is printed.
	Succeeded Code = 0

	// Reported marks failures whose explanation was already printed by the
	// component that detected them. Nothing more is printed.
	Reported Code = -1

	// Failed is the daemon's generic refusal when no more specific guard
	// applies, including motion aborted by a stop.
	Failed Code = -2

	// NotInitialized rejects motion and homing while the mount is powered
	// down.
	NotInitialized Code = -3

	// AlreadyInitialized rejects a second initialize.
	AlreadyInitialized Code = -4

	// NotHomed rejects motion before the axes have been homed.
	NotHomed Code = -5

	// OutsideLimits rejects targets below the pointing limits or outside
	// coordinate ranges.
	OutsideLimits Code = -6

	// UnknownPark rejects park positions missing from configuration.
	UnknownPark Code = -7

	// Busy rejects commands while another motion or homing is in flight.
	Busy Code = -8

	// NotTracking rejects offsets when the mount is not tracking a target.
	NotTracking Code = -9

	// Cancelled reports a command interrupted by the operator.
	Cancelled Code = -100

	// Unreachable reports any failure to communicate with the mount daemon.
	Unreachable Code = -101
)

var messages = map[Code]string{
	Succeeded:          "command completed successfully",
	Reported:           "",
	Failed:             "command failed",
	NotInitialized:     "mount has not been initialized",
	AlreadyInitialized: "mount has already been initialized",
	NotHomed:           "mount axes have not been homed",
	OutsideLimits:      "requested position is outside the pointing limits",
	UnknownPark:        "requested park position is not defined",
	Busy:               "mount is busy processing another command",
	NotTracking:        "mount is not currently tracking",
	Cancelled:          "command cancelled by the operator",
	Unreachable:        "unable to communicate with the mount daemon",
}

var names = map[Code]string{
	Succeeded:          "succeeded",
	Reported:           "reported",
	Failed:             "failed",
	NotInitialized:     "not-initialized",
	AlreadyInitialized: "already-initialized",
	NotHomed:           "not-homed",
	OutsideLimits:      "outside-limits",
	UnknownPark:        "unknown-park",
	Busy:               "busy",
	NotTracking:        "not-tracking",
	Cancelled:          "cancelled",
	Unreachable:        "unreachable",
}

// Describe returns the operator-facing message for a code. A code missing
// from the table indicates a bug in the caller; the returned text names the
// raw value so the bug is visible instead of silent.
func Describe(c Code) string {
	msg, ok := messages[c]
	if !ok {
		return fmt.Sprintf("unknown status code %d", c)
	}
	return msg
}

// Registered reports whether the code belongs to the table.
func Registered(c Code) bool {
	_, ok := messages[c]
	return ok
}

// String returns a short stable name for logs and metric labels.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Codes returns every registered code. Ordering is unspecified.
func Codes() []Code {
	out := make([]Code, 0, len(messages))
	for c := range messages {
		out = append(out, c)
	}
	return out
}

// ExitStatus maps a command status onto the 0-255 process exit range.
// Success stays zero; every other code becomes abs(code) mod 256, floored
// at one so a failure can never encode to the success status.
func ExitStatus(c Code) int {
	if c == Succeeded {
		return 0
	}
	v := int(c)
	if v < 0 {
		v = -v
	}
	v %= 256
	if v == 0 {
		v = 1
	}
	return v
}
