package sky

import (
	"math"
	"time"
)

// SunRADec returns the apparent solar position at t in equatorial decimal
// degrees, accurate to roughly a hundredth of a degree.
func SunRADec(t time.Time) (ra, dec float64) {
	n := julianDay(t) - j2000
	l := Wrap360(280.460 + 0.9856474*n)
	g := Wrap360(357.528+0.9856003*n) * radPerDeg
	lambda := (l + 1.915*math.Sin(g) + 0.020*math.Sin(2*g)) * radPerDeg
	eps := obliquity(n)

	ra = math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda)) * degPerRad
	dec = math.Asin(math.Sin(eps)*math.Sin(lambda)) * degPerRad
	return Wrap360(ra), dec
}

// MoonRADec returns the lunar position at t in equatorial decimal degrees.
// The truncated series is good to about a degree, which is all a separation
// display needs.
func MoonRADec(t time.Time) (ra, dec float64) {
	n := julianDay(t) - j2000
	meanLon := Wrap360(218.316 + 13.176396*n)
	anomaly := Wrap360(134.963+13.064993*n) * radPerDeg
	latArg := Wrap360(93.272+13.229350*n) * radPerDeg

	lambda := (meanLon + 6.289*math.Sin(anomaly)) * radPerDeg
	beta := 5.128 * math.Sin(latArg) * radPerDeg
	eps := obliquity(n)

	ra = math.Atan2(
		math.Sin(lambda)*math.Cos(eps)-math.Tan(beta)*math.Sin(eps),
		math.Cos(lambda),
	) * degPerRad
	dec = math.Asin(
		math.Sin(beta)*math.Cos(eps)+math.Cos(beta)*math.Sin(eps)*math.Sin(lambda),
	) * degPerRad
	return Wrap360(ra), dec
}

// obliquity returns the mean obliquity of the ecliptic in radians for a
// time n days after J2000.
func obliquity(n float64) float64 {
	return (23.439 - 0.0000004*n) * radPerDeg
}
