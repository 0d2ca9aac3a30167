// Package sky converts between the coordinate forms the mount deals in.
//
// It parses operator-entered sexagesimal or decimal angles, formats angles
// back for display, computes local sidereal time, transforms between
// equatorial and horizontal frames, and carries low-precision sun and moon
// positions for the status panel's separation fields. Accuracy targets are
// display-grade: arcsecond-level for the pure geometry, degree-level for
// the ephemerides.
//
// Everything here is pure math on float64 degrees; no I/O, no state.
package sky
