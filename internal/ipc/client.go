package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"time"

	"meridian/internal/exitcode"
)

// dialTimeout bounds connection establishment. Reaching a local daemon
// should never be slow; per-call deadlines are the caller's choice.
const dialTimeout = 2 * time.Second

// CommunicationError marks any failure to reach the daemon or complete a
// round-trip, as opposed to a status the daemon itself reported.
type CommunicationError struct {
	Op  string
	Err error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CommunicationError) Unwrap() error { return e.Err }

// IsCommunication reports whether err is a transport-level failure.
func IsCommunication(err error) bool {
	var commErr *CommunicationError
	return errors.As(err, &commErr)
}

// Network picks the dial network for an endpoint: anything containing a
// path separator is a unix socket, the rest is host:port TCP.
func Network(endpoint string) string {
	if strings.Contains(endpoint, "/") {
		return "unix"
	}
	return "tcp"
}

// Client provides RPC access to the daemon. Use is scoped: dial, make
// calls, Close. The CLI runs one connect/call/disconnect cycle per
// command and never pools connections.
type Client struct {
	conn        net.Conn
	client      *rpc.Client
	callTimeout time.Duration
}

// Dial connects to the daemon at the given endpoint. callTimeout bounds
// each RPC round-trip; zero means unbounded, which motion calls use
// because a slew lasts as long as the mechanics say, not the network.
func Dial(endpoint string, callTimeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout(Network(endpoint), endpoint, dialTimeout)
	if err != nil {
		return nil, &CommunicationError{Op: "dial " + endpoint, Err: err}
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient, callTimeout: callTimeout}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// call runs one RPC round-trip. Transport and server errors come back as
// CommunicationError; a canceled context surfaces as the context's own
// error so interrupts are never mistaken for daemon failures.
func (c *Client) call(ctx context.Context, method string, req, resp any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var deadline time.Time
	if c.callTimeout > 0 {
		deadline = time.Now().Add(c.callTimeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return &CommunicationError{Op: method, Err: err}
	}
	call := c.client.Go(method, req, resp, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		// Abandon the in-flight call; the caller discards the whole
		// connection via Close.
		return ctx.Err()
	case done := <-call.Done:
		if done.Error != nil {
			return &CommunicationError{Op: method, Err: done.Error}
		}
		return nil
	}
}

// Ping checks daemon liveness.
func (c *Client) Ping(ctx context.Context) (exitcode.Code, error) {
	var resp PingResponse
	if err := c.call(ctx, "Mount.Ping", PingRequest{}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// ReportStatus retrieves the mount snapshot. The report is nil when the
// daemon has nothing to say beyond the code.
func (c *Client) ReportStatus(ctx context.Context) (*StatusReport, exitcode.Code, error) {
	var resp ReportStatusResponse
	if err := c.call(ctx, "Mount.ReportStatus", ReportStatusRequest{}, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Status, resp.Code, nil
}

// Park stows the mount at a named position.
func (c *Client) Park(ctx context.Context, name string) (exitcode.Code, error) {
	var resp ParkResponse
	if err := c.call(ctx, "Mount.Park", ParkRequest{Name: name}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// SlewRADec moves to an equatorial target and stops there.
func (c *Client) SlewRADec(ctx context.Context, ra, dec float64) (exitcode.Code, error) {
	var resp SlewRADecResponse
	if err := c.call(ctx, "Mount.SlewRADec", SlewRADecRequest{RA: ra, Dec: dec}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// SlewAltAz moves to a horizontal target and stops there.
func (c *Client) SlewAltAz(ctx context.Context, alt, az float64) (exitcode.Code, error) {
	var resp SlewAltAzResponse
	if err := c.call(ctx, "Mount.SlewAltAz", SlewAltAzRequest{Alt: alt, Az: az}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// OffsetRADec nudges the tracked target.
func (c *Client) OffsetRADec(ctx context.Context, deltaRA, deltaDec float64) (exitcode.Code, error) {
	var resp OffsetRADecResponse
	req := OffsetRADecRequest{DeltaRA: deltaRA, DeltaDec: deltaDec}
	if err := c.call(ctx, "Mount.OffsetRADec", req, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// TrackRADec slews to an equatorial target and keeps following it.
func (c *Client) TrackRADec(ctx context.Context, ra, dec float64) (exitcode.Code, error) {
	var resp TrackRADecResponse
	if err := c.call(ctx, "Mount.TrackRADec", TrackRADecRequest{RA: ra, Dec: dec}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// FindHomes runs the axis homing sequence.
func (c *Client) FindHomes(ctx context.Context) (exitcode.Code, error) {
	var resp FindHomesResponse
	if err := c.call(ctx, "Mount.FindHomes", FindHomesRequest{}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// Stop aborts any motion and ends tracking.
func (c *Client) Stop(ctx context.Context) (exitcode.Code, error) {
	var resp StopResponse
	if err := c.call(ctx, "Mount.Stop", StopRequest{}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// Initialize powers the mount axes up.
func (c *Client) Initialize(ctx context.Context) (exitcode.Code, error) {
	var resp InitializeResponse
	if err := c.call(ctx, "Mount.Initialize", InitializeRequest{}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// Shutdown powers the mount down.
func (c *Client) Shutdown(ctx context.Context) (exitcode.Code, error) {
	var resp ShutdownResponse
	if err := c.call(ctx, "Mount.Shutdown", ShutdownRequest{}, &resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}
