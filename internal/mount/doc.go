// Package mount simulates the telescope mount the daemon drives.
//
// The Simulator is a guarded state machine (disabled, stopped, homing,
// slewing, tracking, parked) whose motion verbs block for a realistic
// travel time derived from the configured slew rate. Pointing is held in
// exactly one coordinate frame at a time: tracking holds right ascension
// and declination so the horizontal coordinates drift with sidereal time,
// while every resting state holds altitude and azimuth so the equatorial
// coordinates drift instead. Guard failures come back as status codes
// rather than errors so the IPC layer can hand them to clients unchanged.
//
// Stop interrupts an in-flight motion from another goroutine and returns
// once the axes have actually settled; the interrupted verb reports a
// failure code to its (usually long gone) caller. Keep mechanical policy
// here and transport concerns in the ipc package.
package mount
