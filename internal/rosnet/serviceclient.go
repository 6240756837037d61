package rosnet

import (
	"context"
	"sync"
	"time"

	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/internal/transport"
	"github.com/valetudo-ecovacs/roscore/internal/xmlrpc"
	"github.com/valetudo-ecovacs/roscore/model"
)

// ServiceClient calls a single ROS service, encoding and framing handled by
// the caller; Call exchanges one request payload for one response payload.
type ServiceClient interface {
	Call(ctx context.Context, payload []byte) ([]byte, error)
	Close() error
}

// dialParams bundles what both client variants need to resolve and connect.
type dialParams struct {
	master         *xmlrpc.MasterClient
	desc           model.EndpointDescriptor
	callerID       string
	connectTimeout time.Duration
	callTimeout    time.Duration
}

func dialService(ctx context.Context, p dialParams, persistent bool) (*transport.Conn, string, error) {
	name, hostPort, err := ResolveService(ctx, p.master, p.desc)
	if err != nil {
		return nil, "", err
	}
	conn, err := transport.Dial(hostPort, p.connectTimeout, p.callTimeout)
	if err != nil {
		return nil, "", err
	}
	_, err = transport.PerformClientHandshake(conn, transport.HandshakeHeader{
		CallerID:   p.callerID,
		Service:    name,
		MD5Sum:     p.desc.MD5Sum,
		Persistent: persistent,
	}, false)
	if err != nil {
		conn.Close()
		return nil, "", err
	}
	return conn, name, nil
}

// PersistentServiceClient holds one TCPROS socket open across calls (spec.md
// §4.4: "persistent clients keep the service socket open and serialize
// concurrent calls through it"). On any transport error it closes the
// socket and reconnects exactly once before giving up, grounded on the
// teacher's internal/k8s/watcher.go reconnect-on-error retry pattern.
type PersistentServiceClient struct {
	params dialParams

	mu           sync.Mutex
	conn         *transport.Conn
	resolvedName string
}

// NewPersistentServiceClient builds a client that lazily dials on first Call.
func NewPersistentServiceClient(master *xmlrpc.MasterClient, desc model.EndpointDescriptor, callerID string, connectTimeout, callTimeout time.Duration) *PersistentServiceClient {
	return &PersistentServiceClient{
		params: dialParams{
			master:         master,
			desc:           desc,
			callerID:       callerID,
			connectTimeout: connectTimeout,
			callTimeout:    callTimeout,
		},
	}
}

// Call serializes the payload write/read pair through the held socket,
// reconnecting once on any transport failure before returning an error.
func (c *PersistentServiceClient) Call(ctx context.Context, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		conn, name, err := dialService(ctx, c.params, true)
		if err != nil {
			return nil, err
		}
		c.conn, c.resolvedName = conn, name
	}

	resp, err := c.exchange(payload)
	if err == nil {
		return resp, nil
	}

	c.reset()
	conn, name, dialErr := dialService(ctx, c.params, true)
	if dialErr != nil {
		return nil, roserr.Wrap(roserr.KindServiceUnavailable, dialErr, "reconnect %s after call failure: %v", c.params.desc.Path, err)
	}
	c.conn, c.resolvedName = conn, name

	resp, err = c.exchange(payload)
	if err != nil {
		c.reset()
		return nil, err
	}
	return resp, nil
}

func (c *PersistentServiceClient) exchange(payload []byte) ([]byte, error) {
	if err := c.conn.WriteFrame(payload); err != nil {
		return nil, err
	}
	return c.conn.ReadLengthPrefixedMessage()
}

func (c *PersistentServiceClient) reset() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.resolvedName = ""
}

// Close releases the held socket, if any.
func (c *PersistentServiceClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// EphemeralServiceClient dials a fresh socket for every call and closes it
// immediately after, matching spec.md §4.4's short-lived call pattern used
// for commands that are issued rarely (manual control session start, room
// label writes).
type EphemeralServiceClient struct {
	params dialParams
}

// NewEphemeralServiceClient builds a client that dials anew on every Call.
func NewEphemeralServiceClient(master *xmlrpc.MasterClient, desc model.EndpointDescriptor, callerID string, connectTimeout, callTimeout time.Duration) *EphemeralServiceClient {
	return &EphemeralServiceClient{
		params: dialParams{
			master:         master,
			desc:           desc,
			callerID:       callerID,
			connectTimeout: connectTimeout,
			callTimeout:    callTimeout,
		},
	}
}

// Call dials, performs the handshake, exchanges one payload, and closes the
// socket unconditionally.
func (c *EphemeralServiceClient) Call(ctx context.Context, payload []byte) ([]byte, error) {
	conn, _, err := dialService(ctx, c.params, false)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := conn.WriteFrame(payload); err != nil {
		return nil, err
	}
	return conn.ReadLengthPrefixedMessage()
}

// Close is a no-op: EphemeralServiceClient never holds a socket between calls.
func (c *EphemeralServiceClient) Close() error { return nil }
