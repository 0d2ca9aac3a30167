package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meridian/internal/ipc"
	"meridian/internal/logging"
	"meridian/internal/mount"
)

// durationBuckets spans sub-second status calls through multi-minute
// slews.
var durationBuckets = []float64{0.05, 0.25, 1, 5, 15, 60, 300, 900}

// Collector owns the Prometheus registry for one daemon instance.
type Collector struct {
	registry *prometheus.Registry
	started  time.Time

	commands  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewCollector builds a registry populated with the daemon metric set.
// stateFn is sampled at scrape time to report the mount state; a nil
// stateFn reports disabled.
func NewCollector(stateFn func() mount.State) *Collector {
	if stateFn == nil {
		stateFn = func() mount.State { return mount.StateDisabled }
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_commands_total",
			Help: "Commands executed by the daemon, labeled by verb and outcome.",
		}, []string{"verb", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meridian_command_duration_seconds",
			Help:    "Wall-clock command duration; motion verbs span the whole move.",
			Buckets: durationBuckets,
		}, []string{"verb"}),
	}
	c.registry.MustRegister(c.commands, c.durations)
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "meridian_uptime_seconds",
		Help: "Seconds since the daemon started.",
	}, func() float64 {
		return time.Since(c.started).Seconds()
	}))
	for _, state := range mount.AllStates() {
		c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "meridian_mount_state",
			Help:        "Mount state at scrape time, 1 for the active state.",
			ConstLabels: prometheus.Labels{"state": string(state)},
		}, func() float64 {
			if stateFn() == state {
				return 1
			}
			return 0
		}))
	}
	return c
}

// ObserveCommand records one executed command. It satisfies
// ipc.CommandObserver.
func (c *Collector) ObserveCommand(event ipc.CommandEvent) {
	c.commands.WithLabelValues(event.Verb, event.Code.String()).Inc()
	c.durations.WithLabelValues(event.Verb).Observe(event.Duration.Seconds())
}

// Handler serves the registry in the exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Server publishes a Collector over HTTP.
type Server struct {
	logger   *slog.Logger
	srv      *http.Server
	listener net.Listener

	mu     sync.Mutex
	closed bool
}

// NewServer binds addr and begins serving collector output in the
// background. Use Addr to discover the bound address when addr carries
// port zero.
func NewServer(collector *Collector, addr string, logger *slog.Logger) (*Server, error) {
	if collector == nil {
		return nil, errors.New("metrics: collector is required")
	}
	log := logging.NewComponentLogger(logger, "metrics")

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind metrics address %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "{\"status\":\"ok\",\"uptime_seconds\":%.0f}\n", time.Since(collector.started).Seconds())
	})

	s := &Server{
		logger:   log,
		srv:      &http.Server{Handler: mux},
		listener: listener,
	}
	go func() {
		log.Info("metrics server listening", logging.String("address", listener.Addr().String()))
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", logging.Error(err))
		}
	}()
	return s, nil
}

// Addr reports the bound listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close drains in-flight scrapes and stops the server. It is safe to
// call more than once.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.srv.Shutdown(ctx)
}
