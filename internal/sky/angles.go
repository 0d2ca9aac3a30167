package sky

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxOffset bounds a single offset argument. Larger moves should be slews.
const MaxOffset = 10.0

// ParseRA interprets s as a right ascension and returns decimal degrees in
// [0, 360). Sexagesimal values are hours (12:00:00.0 is 180 degrees); bare
// decimals are degrees.
func ParseRA(s string) (float64, error) {
	if strings.Contains(s, ":") {
		hours, err := parseSexagesimal(s)
		if err != nil {
			return 0, fmt.Errorf("right ascension %q: %w", s, err)
		}
		if hours < 0 || hours >= 24 {
			return 0, fmt.Errorf("right ascension %q is outside 0..24 hours", s)
		}
		return hours * 15, nil
	}
	deg, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("right ascension %q is not HH:MM:SS or decimal degrees", s)
	}
	if deg < 0 || deg >= 360 {
		return 0, fmt.Errorf("right ascension %q is outside 0..360 degrees", s)
	}
	return deg, nil
}

// ParseDec interprets s as a declination in signed sexagesimal degrees or
// decimal degrees and returns a value in [-90, +90].
func ParseDec(s string) (float64, error) {
	deg, err := parseDegrees(s, "declination")
	if err != nil {
		return 0, err
	}
	if deg < -90 || deg > 90 {
		return 0, fmt.Errorf("declination %q is outside -90..+90 degrees", s)
	}
	return deg, nil
}

// ParseAlt interprets s as an altitude in [-90, +90] degrees.
func ParseAlt(s string) (float64, error) {
	deg, err := parseDegrees(s, "altitude")
	if err != nil {
		return 0, err
	}
	if deg < -90 || deg > 90 {
		return 0, fmt.Errorf("altitude %q is outside -90..+90 degrees", s)
	}
	return deg, nil
}

// ParseAz interprets s as an azimuth in [0, 360) degrees, north-based,
// increasing eastward.
func ParseAz(s string) (float64, error) {
	deg, err := parseDegrees(s, "azimuth")
	if err != nil {
		return 0, err
	}
	if deg < 0 || deg >= 360 {
		return 0, fmt.Errorf("azimuth %q is outside 0..360 degrees", s)
	}
	return deg, nil
}

// ParseOffset interprets s as a small signed angle for offset moves.
func ParseOffset(s string) (float64, error) {
	deg, err := parseDegrees(s, "offset")
	if err != nil {
		return 0, err
	}
	if math.Abs(deg) > MaxOffset {
		return 0, fmt.Errorf("offset %q is outside %+.0f..%+.0f degrees", s, -MaxOffset, MaxOffset)
	}
	return deg, nil
}

func parseDegrees(s, what string) (float64, error) {
	if strings.Contains(s, ":") {
		deg, err := parseSexagesimal(s)
		if err != nil {
			return 0, fmt.Errorf("%s %q: %w", what, s, err)
		}
		return deg, nil
	}
	deg, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not DD:MM:SS or decimal degrees", what, s)
	}
	return deg, nil
}

// parseSexagesimal reads D:M or D:M:S with an optional leading sign and an
// optional fraction on the final field. The result carries the unit of the
// leading field.
func parseSexagesimal(s string) (float64, error) {
	body := s
	sign := 1.0
	switch {
	case strings.HasPrefix(body, "-"):
		sign = -1
		body = body[1:]
	case strings.HasPrefix(body, "+"):
		body = body[1:]
	}
	parts := strings.Split(body, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("want two or three colon-separated fields, got %d", len(parts))
	}
	lead, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("leading field %q is not a whole number", parts[0])
	}
	value := float64(lead)

	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || minutes < 0 || minutes >= 60 {
		return 0, fmt.Errorf("minutes field %q is outside 0..60", parts[1])
	}
	if len(parts) == 3 {
		if minutes != math.Trunc(minutes) {
			return 0, fmt.Errorf("minutes field %q must be whole when seconds are given", parts[1])
		}
		seconds, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || seconds < 0 || seconds >= 60 {
			return 0, fmt.Errorf("seconds field %q is outside 0..60", parts[2])
		}
		value += seconds / 3600
	}
	value += minutes / 60
	return sign * value, nil
}

// FormatHMS renders an angle in degrees as sexagesimal hours, HH:MM:SS.S.
// Used for right ascension and sidereal time.
func FormatHMS(deg float64) string {
	tenths := math.Round(Wrap360(deg) / 15 * 36000)
	tenths = math.Mod(tenths, 24*36000)
	h := int(tenths) / 36000
	m := (int(tenths) / 600) % 60
	s := float64(int(tenths)%600) / 10
	return fmt.Sprintf("%02d:%02d:%04.1f", h, m, s)
}

// FormatDMS renders an angle in degrees as signed sexagesimal degrees,
// +DD:MM:SS.S.
func FormatDMS(deg float64) string {
	sign := "+"
	if deg < 0 {
		sign = "-"
		deg = -deg
	}
	tenths := math.Round(deg * 36000)
	d := int(tenths) / 36000
	m := (int(tenths) / 600) % 60
	s := float64(int(tenths)%600) / 10
	return fmt.Sprintf("%s%02d:%02d:%04.1f", sign, d, m, s)
}

// Wrap360 wraps an angle onto [0, 360).
func Wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
