package sky

import (
	"math"
	"testing"
	"time"
)

func TestSunAtEquinoxAndSolstices(t *testing.T) {
	// March 2025 equinox.
	ra, dec := SunRADec(time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))
	within(t, dec, 0, 0.5, "equinox dec")
	withinAngle(t, ra, 0, 2, "equinox ra")

	// June solstice.
	ra, dec = SunRADec(time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC))
	within(t, dec, 23.43, 0.3, "june solstice dec")
	withinAngle(t, ra, 90, 2, "june solstice ra")

	// December solstice.
	ra, dec = SunRADec(time.Date(2025, 12, 21, 12, 0, 0, 0, time.UTC))
	within(t, dec, -23.43, 0.3, "december solstice dec")
	withinAngle(t, ra, 270, 2, "december solstice ra")
}

func TestMoonTracksLunarPhases(t *testing.T) {
	sep := func(at time.Time) float64 {
		sunRA, sunDec := SunRADec(at)
		moonRA, moonDec := MoonRADec(at)
		return Separation(sunRA, sunDec, moonRA, moonDec)
	}

	// New moon on 2025-01-29: moon close to the sun.
	if s := sep(time.Date(2025, 1, 29, 12, 0, 0, 0, time.UTC)); s > 10 {
		t.Errorf("new moon separation = %v, want < 10", s)
	}
	// First quarter on 2025-02-05.
	if s := sep(time.Date(2025, 2, 5, 12, 0, 0, 0, time.UTC)); s < 75 || s > 105 {
		t.Errorf("first quarter separation = %v, want 75..105", s)
	}
	// Full moon on 2025-02-12: moon opposite the sun.
	if s := sep(time.Date(2025, 2, 12, 12, 0, 0, 0, time.UTC)); s < 165 {
		t.Errorf("full moon separation = %v, want > 165", s)
	}
}

func TestMoonDeclinationBounded(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 30; day++ {
		_, dec := MoonRADec(start.AddDate(0, 0, day))
		if math.Abs(dec) > 29 {
			t.Errorf("day %d: moon dec = %v, want within -29..29", day, dec)
		}
	}
}
