package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"meridian/internal/exitcode"
	"meridian/internal/logging"
	"meridian/internal/mount"
)

// CommandEvent describes one executed command for observers.
type CommandEvent struct {
	Verb      string
	Arguments string
	Code      exitcode.Code
	StartedAt time.Time
	Duration  time.Duration
}

// CommandObserver receives an event per executed command. Pings and
// status reads are not observed.
type CommandObserver func(CommandEvent)

// Server exposes mount control via JSON-RPC at a unix socket or TCP
// endpoint.
type Server struct {
	endpoint  string
	network   string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given endpoint. The observer
// may be nil.
func NewServer(ctx context.Context, endpoint string, sim *mount.Simulator, observer CommandObserver, logger *slog.Logger) (*Server, error) {
	if sim == nil {
		return nil, errors.New("ipc server requires a mount")
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	network := Network(endpoint)
	if network == "unix" {
		if err := os.RemoveAll(endpoint); err != nil {
			return nil, fmt.Errorf("remove existing socket: %w", err)
		}
	}
	listener, err := net.Listen(network, endpoint)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", endpoint, err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	svc := &service{mount: sim, observer: observer, logger: logger, ctx: serverCtx}
	if err := rpcServer.RegisterName("Mount", svc); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		endpoint:  endpoint,
		network:   network,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Addr returns the listener address, useful for TCP endpoints bound to
// port zero.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve starts accepting RPC connections until Close or context
// cancellation.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("endpoint", s.endpoint))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes a unix socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if s.network == "unix" {
		if err := os.RemoveAll(s.endpoint); err != nil {
			s.logger.Warn("failed to remove socket",
				logging.String("endpoint", s.endpoint),
				logging.Error(err))
		}
	}
}

type service struct {
	mount    *mount.Simulator
	observer CommandObserver
	logger   *slog.Logger
	ctx      context.Context
}

// run executes one command against the mount, logs the outcome, and
// notifies the observer. The returned code travels inside the response;
// Go errors are reserved for malformed requests.
func (s *service) run(verb, arguments string, fn func(context.Context) exitcode.Code) exitcode.Code {
	started := time.Now()
	code := fn(s.ctx)
	duration := time.Since(started)
	s.logger.Info("command executed",
		logging.String("verb", verb),
		logging.String("arguments", arguments),
		logging.String("result", code.String()),
		logging.Duration("duration", duration))
	if s.observer != nil {
		s.observer(CommandEvent{
			Verb:      verb,
			Arguments: arguments,
			Code:      code,
			StartedAt: started,
			Duration:  duration,
		})
	}
	return code
}

func formatArgs(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func (s *service) Ping(_ PingRequest, resp *PingResponse) error {
	resp.Code = exitcode.Succeeded
	return nil
}

func (s *service) ReportStatus(_ ReportStatusRequest, resp *ReportStatusResponse) error {
	report := s.mount.Status()
	resp.Status = &report
	resp.Code = exitcode.Succeeded
	return nil
}

func (s *service) Park(req ParkRequest, resp *ParkResponse) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("park requires a position name")
	}
	resp.Code = s.run("park", req.Name, func(ctx context.Context) exitcode.Code {
		return s.mount.Park(ctx, req.Name)
	})
	return nil
}

func (s *service) SlewRADec(req SlewRADecRequest, resp *SlewRADecResponse) error {
	resp.Code = s.run("slew", formatArgs(req.RA, req.Dec), func(ctx context.Context) exitcode.Code {
		return s.mount.SlewRADec(ctx, req.RA, req.Dec)
	})
	return nil
}

func (s *service) SlewAltAz(req SlewAltAzRequest, resp *SlewAltAzResponse) error {
	resp.Code = s.run("horizon", formatArgs(req.Alt, req.Az), func(ctx context.Context) exitcode.Code {
		return s.mount.SlewAltAz(ctx, req.Alt, req.Az)
	})
	return nil
}

func (s *service) OffsetRADec(req OffsetRADecRequest, resp *OffsetRADecResponse) error {
	resp.Code = s.run("offset", formatArgs(req.DeltaRA, req.DeltaDec), func(ctx context.Context) exitcode.Code {
		return s.mount.OffsetRADec(ctx, req.DeltaRA, req.DeltaDec)
	})
	return nil
}

func (s *service) TrackRADec(req TrackRADecRequest, resp *TrackRADecResponse) error {
	resp.Code = s.run("track", formatArgs(req.RA, req.Dec), func(ctx context.Context) exitcode.Code {
		return s.mount.TrackRADec(ctx, req.RA, req.Dec)
	})
	return nil
}

func (s *service) FindHomes(_ FindHomesRequest, resp *FindHomesResponse) error {
	resp.Code = s.run("home", "", func(ctx context.Context) exitcode.Code {
		return s.mount.FindHomes(ctx)
	})
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	resp.Code = s.run("stop", "", func(ctx context.Context) exitcode.Code {
		return s.mount.Stop(ctx)
	})
	return nil
}

func (s *service) Initialize(_ InitializeRequest, resp *InitializeResponse) error {
	resp.Code = s.run("init", "", func(ctx context.Context) exitcode.Code {
		return s.mount.Initialize(ctx)
	})
	return nil
}

func (s *service) Shutdown(_ ShutdownRequest, resp *ShutdownResponse) error {
	resp.Code = s.run("kill", "", func(ctx context.Context) exitcode.Code {
		return s.mount.Shutdown(ctx)
	})
	return nil
}
