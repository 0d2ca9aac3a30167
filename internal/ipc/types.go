package ipc

import (
	"meridian/internal/exitcode"
	"meridian/internal/mount"
)

// StatusReport mirrors the mount snapshot for IPC callers.
type StatusReport = mount.Status

// PingRequest checks that the daemon answers at all.
type PingRequest struct{}

// PingResponse acknowledges a ping.
type PingResponse struct {
	Code exitcode.Code `json:"code"`
}

// ReportStatusRequest fetches the current mount snapshot.
type ReportStatusRequest struct{}

// ReportStatusResponse carries the snapshot. Status is nil when the
// daemon has nothing to report.
type ReportStatusResponse struct {
	Code   exitcode.Code `json:"code"`
	Status *StatusReport `json:"status,omitempty"`
}

// ParkRequest stows the mount at a named position from configuration.
type ParkRequest struct {
	Name string `json:"name"`
}

// ParkResponse reports the park result.
type ParkResponse struct {
	Code exitcode.Code `json:"code"`
}

// SlewRADecRequest moves to an equatorial target in decimal degrees.
type SlewRADecRequest struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

// SlewRADecResponse reports the slew result.
type SlewRADecResponse struct {
	Code exitcode.Code `json:"code"`
}

// SlewAltAzRequest moves to a horizontal target in decimal degrees.
type SlewAltAzRequest struct {
	Alt float64 `json:"alt"`
	Az  float64 `json:"az"`
}

// SlewAltAzResponse reports the slew result.
type SlewAltAzResponse struct {
	Code exitcode.Code `json:"code"`
}

// OffsetRADecRequest nudges the tracked target by the given deltas.
type OffsetRADecRequest struct {
	DeltaRA  float64 `json:"delta_ra"`
	DeltaDec float64 `json:"delta_dec"`
}

// OffsetRADecResponse reports the offset result.
type OffsetRADecResponse struct {
	Code exitcode.Code `json:"code"`
}

// TrackRADecRequest slews to an equatorial target and keeps following it.
type TrackRADecRequest struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

// TrackRADecResponse reports the track result.
type TrackRADecResponse struct {
	Code exitcode.Code `json:"code"`
}

// FindHomesRequest runs the axis homing sequence.
type FindHomesRequest struct{}

// FindHomesResponse reports the homing result.
type FindHomesResponse struct {
	Code exitcode.Code `json:"code"`
}

// StopRequest aborts any motion and ends tracking.
type StopRequest struct{}

// StopResponse reports the stop result.
type StopResponse struct {
	Code exitcode.Code `json:"code"`
}

// InitializeRequest powers the mount axes up.
type InitializeRequest struct{}

// InitializeResponse reports the initialize result.
type InitializeResponse struct {
	Code exitcode.Code `json:"code"`
}

// ShutdownRequest powers the mount down.
type ShutdownRequest struct{}

// ShutdownResponse reports the shutdown result.
type ShutdownResponse struct {
	Code exitcode.Code `json:"code"`
}
