// Package mdsctl implements the local command client from spec.md §6: a
// JSON-line request/response exchange over a Unix socket used to reach the
// vendor's on-device media daemon (audio playback, password-state gating,
// and the live video push stream). Grounded on the teacher's
// internal/k8s informer client shape (one typed call per verb, a shared
// transport underneath) adapted from HTTP/gRPC to a local JSON socket.
package mdsctl

import (
	"bufio"
	"encoding/json"
	"net"
	"time"

	"github.com/valetudo-ecovacs/roscore/internal/roserr"
)

// Client dials a fresh connection to a Unix socket for every command, per
// spec.md §6: "Unix datagram/stream socket ... speaking a JSON line
// protocol", with a single JSON object request and a single JSON object
// response per connection.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// New returns a client for the socket at socketPath, bounding every command
// by timeout.
func New(socketPath string, timeout time.Duration) *Client {
	return &Client{socketPath: socketPath, timeout: timeout}
}

// Response is the single JSON object the daemon replies with.
type Response map[string]interface{}

func (c *Client) send(req map[string]interface{}) (Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, roserr.Wrap(roserr.KindServiceUnavailable, err, "dial mdsctl socket %s", c.socketPath)
	}
	defer conn.Close()

	if c.timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, roserr.Wrap(roserr.KindTransportTimeout, err, "set mdsctl deadline")
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, roserr.Wrap(roserr.KindInvalidArgument, err, "encode mdsctl request")
	}
	body = append(body, '\n')
	if _, err := conn.Write(body); err != nil {
		return nil, roserr.Wrap(roserr.KindTransportClosed, err, "write mdsctl request")
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, roserr.Wrap(roserr.KindTransportClosed, err, "read mdsctl response")
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, roserr.Wrap(roserr.KindProtocolError, err, "decode mdsctl response")
	}
	return resp, nil
}

// PlayAudio asks the daemon to play an indexed sound file.
func (c *Client) PlayAudio(fileNumber int) (Response, error) {
	return c.send(map[string]interface{}{"todo": "audio", "cmd": "play", "file_number": fileNumber})
}

// SetPwdState toggles the device's live-view password gate.
func (c *Client) SetPwdState(state int) (Response, error) {
	return c.send(map[string]interface{}{"todo": "setPwdState", "state": state})
}

// OnLiveLaunchPwdState reports the session code used to open a live-view
// session; the device validates it server-side.
func (c *Client) OnLiveLaunchPwdState(state int, password string) (Response, error) {
	return c.send(map[string]interface{}{"todo": "onLiveLaunchPwdState", "state": state, "password": password})
}

// StartPushStream starts the live video push stream, optionally also
// toggling the headlight.
func (c *Client) StartPushStream(lightState int) (Response, error) {
	return c.send(map[string]interface{}{"todo": "start_push_stream", "light_state": lightState})
}

// StopPushStream stops the live video push stream.
func (c *Client) StopPushStream() (Response, error) {
	return c.send(map[string]interface{}{"todo": "stop_push_stream"})
}
