// Package metrics publishes daemon telemetry in the Prometheus
// exposition format.
//
// A Collector owns its own registry so that daemon instances started in
// parallel tests never collide. Command counts and durations arrive
// through the ipc command observer; the mount state and uptime are
// sampled at scrape time. Server binds the optional HTTP endpoint with
// /metrics and /healthz routes.
package metrics
