package sky

import (
	"math"
	"time"
)

const (
	degPerRad = 180 / math.Pi
	radPerDeg = math.Pi / 180
	// j2000 is the Julian date of the J2000.0 epoch.
	j2000 = 2451545.0
)

// julianDay converts a wall-clock instant to a Julian date.
func julianDay(t time.Time) float64 {
	return float64(t.UnixMilli())/86400000.0 + 2440587.5
}

// GMST returns the Greenwich mean sidereal time at t in decimal degrees.
func GMST(t time.Time) float64 {
	d := julianDay(t) - j2000
	return Wrap360(280.46061837 + 360.98564736629*d)
}

// LST returns the local sidereal time in decimal degrees at an east-positive
// longitude.
func LST(t time.Time, longitude float64) float64 {
	return Wrap360(GMST(t) + longitude)
}

// EquatorialToHorizontal converts ra/dec to altitude and north-based,
// east-increasing azimuth for an observer at the given latitude and local
// sidereal time. All values in decimal degrees.
func EquatorialToHorizontal(ra, dec, latitude, lst float64) (alt, az float64) {
	ha := (lst - ra) * radPerDeg
	phi := latitude * radPerDeg
	delta := dec * radPerDeg

	sinAlt := math.Sin(phi)*math.Sin(delta) + math.Cos(phi)*math.Cos(delta)*math.Cos(ha)
	alt = math.Asin(clamp(sinAlt, -1, 1)) * degPerRad
	az = math.Atan2(
		-math.Cos(delta)*math.Sin(ha),
		math.Sin(delta)*math.Cos(phi)-math.Cos(delta)*math.Cos(ha)*math.Sin(phi),
	) * degPerRad
	return alt, Wrap360(az)
}

// HorizontalToEquatorial is the inverse of EquatorialToHorizontal.
func HorizontalToEquatorial(alt, az, latitude, lst float64) (ra, dec float64) {
	phi := latitude * radPerDeg
	h := alt * radPerDeg
	a := az * radPerDeg

	sinDec := math.Sin(phi)*math.Sin(h) + math.Cos(phi)*math.Cos(h)*math.Cos(a)
	dec = math.Asin(clamp(sinDec, -1, 1)) * degPerRad
	ha := math.Atan2(
		-math.Cos(h)*math.Sin(a),
		math.Sin(h)*math.Cos(phi)-math.Cos(h)*math.Cos(a)*math.Sin(phi),
	) * degPerRad
	return Wrap360(lst - ha), dec
}

// Separation returns the great-circle angle in degrees between two
// equatorial positions.
func Separation(ra1, dec1, ra2, dec2 float64) float64 {
	d1 := dec1 * radPerDeg
	d2 := dec2 * radPerDeg
	dRA := (ra2 - ra1) * radPerDeg
	dDec := d2 - d1

	s := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(d1)*math.Cos(d2)*math.Sin(dRA/2)*math.Sin(dRA/2)
	return 2 * math.Asin(clamp(math.Sqrt(s), -1, 1)) * degPerRad
}

// AngularDistance returns the great-circle angle between two horizontal
// positions. The haversine form is frame-agnostic, so it reuses Separation
// with azimuth standing in for right ascension.
func AngularDistance(alt1, az1, alt2, az2 float64) float64 {
	return Separation(az1, alt1, az2, alt2)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
