package mount

import (
	"context"
	"math"
	"sync"
	"time"

	"log/slog"

	"meridian/internal/config"
	"meridian/internal/exitcode"
	"meridian/internal/logging"
	"meridian/internal/sky"
)

// stepInterval bounds how long an in-flight motion takes to notice a stop.
const stepInterval = 25 * time.Millisecond

// motion is the handle a blocked motion verb and its interrupters share.
type motion struct {
	abort chan struct{}
	done  chan struct{}
	once  sync.Once
}

func (m *motion) interrupt() {
	m.once.Do(func() { close(m.abort) })
}

// Simulator drives the mount state machine. Motion verbs block until the
// axes land or the motion is interrupted; Stop and Shutdown may be called
// concurrently from other connections.
type Simulator struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
	step   time.Duration

	mu        sync.Mutex
	state     State
	homed     bool
	at        pointing
	offsetRA  float64
	offsetDec float64
	inflight  *motion
}

// New returns a simulator in the disabled state with the axes resting at
// the home position.
func New(cfg *config.Config, logger *slog.Logger) *Simulator {
	s := &Simulator{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "mount"),
		now:    time.Now,
		step:   stepInterval,
		state:  StateDisabled,
	}
	alt, az := homePointing(cfg.Site.Latitude)
	s.at = pointing{alt: alt, az: az}
	return s
}

// State reports the current state machine position.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status assembles the full snapshot from the held pointing, the site,
// and the clock.
func (s *Simulator) Status() Status {
	t := s.now()
	s.mu.Lock()
	state := s.state
	homed := s.homed
	at := s.at
	offRA, offDec := s.offsetRA, s.offsetDec
	s.mu.Unlock()

	lat := s.cfg.Site.Latitude
	lst := sky.LST(t, s.cfg.Site.Longitude)
	ra, dec, alt, az := resolvePointing(at, lat, lst)
	sunRA, sunDec := sky.SunRADec(t)
	moonRA, moonDec := sky.MoonRADec(t)
	return Status{
		State:          string(state),
		AxesHomed:      homed,
		RA:             ra,
		Dec:            dec,
		Alt:            alt,
		Az:             az,
		OffsetRA:       offRA,
		OffsetDec:      offDec,
		MoonSeparation: sky.Separation(ra, dec, moonRA, moonDec),
		SunSeparation:  sky.Separation(ra, dec, sunRA, sunDec),
		LST:            lst,
		SiteLatitude:   lat,
		SiteLongitude:  s.cfg.Site.Longitude,
	}
}

// Initialize powers the axes up. The homed flag stays false until a
// FindHomes completes.
func (s *Simulator) Initialize(ctx context.Context) exitcode.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDisabled {
		return exitcode.AlreadyInitialized
	}
	s.state = StateStopped
	s.logger.Info("mount initialized")
	return exitcode.Succeeded
}

// Shutdown aborts any motion, freezes the axes, and powers the mount
// down. Shutting down an already disabled mount succeeds.
func (s *Simulator) Shutdown(ctx context.Context) exitcode.Code {
	for {
		s.mu.Lock()
		m := s.inflight
		if m == nil {
			if s.state != StateDisabled {
				s.holdHorizontalLocked()
				s.state = StateDisabled
				s.homed = false
				s.logger.Info("mount shut down")
			}
			s.mu.Unlock()
			return exitcode.Succeeded
		}
		s.mu.Unlock()
		m.interrupt()
		select {
		case <-m.done:
		case <-ctx.Done():
			return exitcode.Failed
		}
	}
}

// Stop interrupts an in-flight motion or ends tracking, then waits for
// the axes to settle. Stopping an idle or disabled mount is a no-op
// success.
func (s *Simulator) Stop(ctx context.Context) exitcode.Code {
	for {
		s.mu.Lock()
		m := s.inflight
		if m == nil {
			if s.state == StateTracking {
				s.holdHorizontalLocked()
				s.state = StateStopped
				s.logger.Info("tracking stopped")
			}
			s.mu.Unlock()
			return exitcode.Succeeded
		}
		s.mu.Unlock()
		m.interrupt()
		select {
		case <-m.done:
		case <-ctx.Done():
			return exitcode.Failed
		}
	}
}

// FindHomes runs the homing sequence and sets the homed flag. Homing is
// allowed at any time after initialization, including re-homing.
func (s *Simulator) FindHomes(ctx context.Context) exitcode.Code {
	s.mu.Lock()
	if s.state == StateDisabled {
		s.mu.Unlock()
		return exitcode.NotInitialized
	}
	if s.inflight != nil {
		s.mu.Unlock()
		return exitcode.Busy
	}
	from := s.horizontalHereLocked()
	alt, az := homePointing(s.cfg.Site.Latitude)
	to := pointing{alt: alt, az: az}
	m := s.beginMotionLocked(StateHoming, from)
	s.mu.Unlock()

	s.logger.Info("homing started")
	total := time.Duration(s.cfg.Mount.HomeSeconds * float64(time.Second))
	return s.travel(ctx, m, total, from, to, func() {
		s.at = to
		s.homed = true
		s.state = StateStopped
		s.logger.Info("homing complete")
	})
}

// SlewRADec moves to the given equatorial target and stops there.
func (s *Simulator) SlewRADec(ctx context.Context, ra, dec float64) exitcode.Code {
	ra = sky.Wrap360(ra)
	s.mu.Lock()
	if code := s.motionGuardsLocked(); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	if code := s.equatorialTargetLocked(ra, dec); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	from := s.equatorialHereLocked()
	to := pointing{equatorial: true, ra: ra, dec: dec}
	m := s.beginMotionLocked(StateSlewing, from)
	s.mu.Unlock()

	s.logger.Info("slew started",
		logging.Float64("ra", ra),
		logging.Float64("dec", dec))
	return s.travel(ctx, m, s.travelTime(from, to), from, to, func() {
		s.at = to
		s.holdHorizontalLocked()
		s.state = StateStopped
		s.logger.Info("slew complete")
	})
}

// SlewAltAz moves to the given horizontal target and stops there.
func (s *Simulator) SlewAltAz(ctx context.Context, alt, az float64) exitcode.Code {
	az = sky.Wrap360(az)
	s.mu.Lock()
	if code := s.motionGuardsLocked(); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	if code := s.horizontalTarget(alt); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	from := s.horizontalHereLocked()
	to := pointing{alt: alt, az: az}
	m := s.beginMotionLocked(StateSlewing, from)
	s.mu.Unlock()

	s.logger.Info("slew started",
		logging.Float64("alt", alt),
		logging.Float64("az", az))
	return s.travel(ctx, m, s.travelTime(from, to), from, to, func() {
		s.at = to
		s.state = StateStopped
		s.logger.Info("slew complete")
	})
}

// TrackRADec slews to the given equatorial target and keeps following
// it. A new target clears any accumulated offsets.
func (s *Simulator) TrackRADec(ctx context.Context, ra, dec float64) exitcode.Code {
	ra = sky.Wrap360(ra)
	s.mu.Lock()
	if code := s.motionGuardsLocked(); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	if code := s.equatorialTargetLocked(ra, dec); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	from := s.equatorialHereLocked()
	to := pointing{equatorial: true, ra: ra, dec: dec}
	m := s.beginMotionLocked(StateSlewing, from)
	s.mu.Unlock()

	s.logger.Info("track started",
		logging.Float64("ra", ra),
		logging.Float64("dec", dec))
	return s.travel(ctx, m, s.travelTime(from, to), from, to, func() {
		s.at = to
		s.offsetRA = 0
		s.offsetDec = 0
		s.state = StateTracking
		s.logger.Info("tracking target")
	})
}

// OffsetRADec nudges the tracked target. Offsets accumulate until the
// next TrackRADec.
func (s *Simulator) OffsetRADec(ctx context.Context, dra, ddec float64) exitcode.Code {
	s.mu.Lock()
	if code := s.motionGuardsLocked(); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	if s.state != StateTracking {
		s.mu.Unlock()
		return exitcode.NotTracking
	}
	if math.Abs(dra) > sky.MaxOffset || math.Abs(ddec) > sky.MaxOffset {
		s.mu.Unlock()
		return exitcode.OutsideLimits
	}
	ra := sky.Wrap360(s.at.ra + dra)
	dec := s.at.dec + ddec
	if code := s.equatorialTargetLocked(ra, dec); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	from := s.at
	to := pointing{equatorial: true, ra: ra, dec: dec}
	// The nudge stays in the tracking state; Busy still covers it while
	// the motion is in flight.
	m := s.beginMotionLocked(StateTracking, from)
	s.mu.Unlock()

	return s.travel(ctx, m, s.travelTime(from, to), from, to, func() {
		s.at = to
		s.offsetRA += dra
		s.offsetDec += ddec
		s.state = StateTracking
		s.logger.Info("offset applied",
			logging.Float64("offset_ra", s.offsetRA),
			logging.Float64("offset_dec", s.offsetDec))
	})
}

// Park stows the mount at a named position from configuration.
func (s *Simulator) Park(ctx context.Context, name string) exitcode.Code {
	s.mu.Lock()
	if code := s.motionGuardsLocked(); code != exitcode.Succeeded {
		s.mu.Unlock()
		return code
	}
	park, ok := s.cfg.Parks[name]
	if !ok {
		s.mu.Unlock()
		return exitcode.UnknownPark
	}
	from := s.horizontalHereLocked()
	to := pointing{alt: park.Alt, az: sky.Wrap360(park.Az)}
	m := s.beginMotionLocked(StateSlewing, from)
	s.mu.Unlock()

	s.logger.Info("park started", logging.String("position", name))
	return s.travel(ctx, m, s.travelTime(from, to), from, to, func() {
		s.at = to
		s.state = StateParked
		s.logger.Info("parked", logging.String("position", name))
	})
}

// motionGuardsLocked enforces the preconditions shared by every motion
// verb, in precedence order.
func (s *Simulator) motionGuardsLocked() exitcode.Code {
	switch {
	case s.state == StateDisabled:
		return exitcode.NotInitialized
	case !s.homed:
		return exitcode.NotHomed
	case s.inflight != nil:
		return exitcode.Busy
	default:
		return exitcode.Succeeded
	}
}

// equatorialTargetLocked validates an equatorial target, including its
// altitude at the current sidereal time.
func (s *Simulator) equatorialTargetLocked(ra, dec float64) exitcode.Code {
	if dec < -90 || dec > 90 {
		return exitcode.OutsideLimits
	}
	lst := sky.LST(s.now(), s.cfg.Site.Longitude)
	alt, _ := sky.EquatorialToHorizontal(ra, dec, s.cfg.Site.Latitude, lst)
	if alt < s.cfg.Mount.MinAltitude {
		return exitcode.OutsideLimits
	}
	return exitcode.Succeeded
}

func (s *Simulator) horizontalTarget(alt float64) exitcode.Code {
	if alt < s.cfg.Mount.MinAltitude || alt > 90 {
		return exitcode.OutsideLimits
	}
	return exitcode.Succeeded
}

func (s *Simulator) beginMotionLocked(during State, from pointing) *motion {
	m := &motion{abort: make(chan struct{}), done: make(chan struct{})}
	s.inflight = m
	s.state = during
	s.at = from
	return m
}

// travel blocks for the motion duration, stepping the pointing so a
// concurrent Stop lands the axes close to where they really are.
func (s *Simulator) travel(ctx context.Context, m *motion, total time.Duration, from, to pointing, land func()) exitcode.Code {
	begin := time.Now()
	ticker := time.NewTicker(s.step)
	defer ticker.Stop()

	for time.Since(begin) < total {
		select {
		case <-ctx.Done():
			return s.landAborted(m)
		case <-m.abort:
			return s.landAborted(m)
		case <-ticker.C:
			frac := float64(time.Since(begin)) / float64(total)
			if frac >= 1 {
				continue
			}
			s.mu.Lock()
			s.at = lerpPointing(from, to, frac)
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	land()
	s.inflight = nil
	s.mu.Unlock()
	close(m.done)
	return exitcode.Succeeded
}

func (s *Simulator) landAborted(m *motion) exitcode.Code {
	s.mu.Lock()
	s.holdHorizontalLocked()
	s.state = StateStopped
	s.inflight = nil
	s.mu.Unlock()
	close(m.done)
	s.logger.Info("motion aborted")
	return exitcode.Failed
}

// holdHorizontalLocked freezes the axes where they are, converting an
// equatorial hold into a horizontal one.
func (s *Simulator) holdHorizontalLocked() {
	if !s.at.equatorial {
		return
	}
	lst := sky.LST(s.now(), s.cfg.Site.Longitude)
	_, _, alt, az := resolvePointing(s.at, s.cfg.Site.Latitude, lst)
	s.at = pointing{alt: alt, az: az}
}

func (s *Simulator) equatorialHereLocked() pointing {
	lst := sky.LST(s.now(), s.cfg.Site.Longitude)
	ra, dec, _, _ := resolvePointing(s.at, s.cfg.Site.Latitude, lst)
	return pointing{equatorial: true, ra: ra, dec: dec}
}

func (s *Simulator) horizontalHereLocked() pointing {
	lst := sky.LST(s.now(), s.cfg.Site.Longitude)
	_, _, alt, az := resolvePointing(s.at, s.cfg.Site.Latitude, lst)
	return pointing{alt: alt, az: az}
}

func (s *Simulator) travelTime(from, to pointing) time.Duration {
	rate := s.cfg.Mount.SlewRate
	if rate <= 0 {
		return 0
	}
	return time.Duration(motionDistance(from, to) / rate * float64(time.Second))
}
