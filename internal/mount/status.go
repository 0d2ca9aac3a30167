package mount

import (
	"math"

	"meridian/internal/sky"
)

// State identifies a position in the mount state machine.
type State string

const (
	StateDisabled State = "disabled"
	StateStopped  State = "stopped"
	StateHoming   State = "homing"
	StateSlewing  State = "slewing"
	StateTracking State = "tracking"
	StateParked   State = "parked"
)

var allStates = []State{
	StateDisabled,
	StateStopped,
	StateHoming,
	StateSlewing,
	StateTracking,
	StateParked,
}

// AllStates returns the ordered list of known states.
func AllStates() []State {
	cp := make([]State, len(allStates))
	copy(cp, allStates)
	return cp
}

// Status is the snapshot reported to clients. All angles are decimal
// degrees; RA/Dec already include any accumulated tracking offsets.
type Status struct {
	State          string  `json:"state"`
	AxesHomed      bool    `json:"axes_homed"`
	RA             float64 `json:"ra"`
	Dec            float64 `json:"dec"`
	Alt            float64 `json:"alt"`
	Az             float64 `json:"az"`
	OffsetRA       float64 `json:"offset_ra"`
	OffsetDec      float64 `json:"offset_dec"`
	MoonSeparation float64 `json:"moon_separation"`
	SunSeparation  float64 `json:"sun_separation"`
	LST            float64 `json:"lst"`
	SiteLatitude   float64 `json:"site_latitude"`
	SiteLongitude  float64 `json:"site_longitude"`
}

// pointing holds the axis position in exactly one coordinate frame.
type pointing struct {
	equatorial bool
	ra, dec    float64 // held when equatorial
	alt, az    float64 // held otherwise
}

// resolvePointing yields both coordinate pairs for p at the given site
// latitude and local sidereal time.
func resolvePointing(p pointing, latitude, lst float64) (ra, dec, alt, az float64) {
	if p.equatorial {
		alt, az = sky.EquatorialToHorizontal(p.ra, p.dec, latitude, lst)
		return p.ra, p.dec, alt, az
	}
	ra, dec = sky.HorizontalToEquatorial(p.alt, p.az, latitude, lst)
	return ra, dec, p.alt, p.az
}

// motionDistance is the great-circle angle between two pointings held in
// the same frame.
func motionDistance(from, to pointing) float64 {
	if from.equatorial {
		return sky.Separation(from.ra, from.dec, to.ra, to.dec)
	}
	return sky.AngularDistance(from.alt, from.az, to.alt, to.az)
}

// lerpPointing interpolates between two pointings in the same frame,
// taking the short way around on the circular axis.
func lerpPointing(from, to pointing, frac float64) pointing {
	if from.equatorial {
		return pointing{
			equatorial: true,
			ra:         lerpWrap(from.ra, to.ra, frac),
			dec:        from.dec + (to.dec-from.dec)*frac,
		}
	}
	return pointing{
		alt: from.alt + (to.alt-from.alt)*frac,
		az:  lerpWrap(from.az, to.az, frac),
	}
}

func lerpWrap(from, to, frac float64) float64 {
	d := math.Mod(to-from+540, 360) - 180
	return sky.Wrap360(from + d*frac)
}

// homePointing is the axis index position: homing leaves the tube on the
// meridian pointing at the celestial pole.
func homePointing(latitude float64) (alt, az float64) {
	if latitude >= 0 {
		return latitude, 0
	}
	return -latitude, 180
}
