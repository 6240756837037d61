// Package transport implements the buffered TCP byte stream and TCPROS
// handshake framing from spec.md §4.1: length-prefixed reliable reads with
// a per-read timeout, and synchronous whole-frame writes.
package transport

import (
	"bufio"
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/valetudo-ecovacs/roscore/internal/roserr"
)

// Conn wraps a net.Conn with a buffered reader and per-call timeouts,
// exposing readExactly/readU32LE/readLengthPrefixedMessage as described in
// spec.md §4.1.
type Conn struct {
	nc     net.Conn
	r      *bufio.Reader
	readTO time.Duration
}

// Dial opens a TCP connection to addr, bounded by connectTimeout.
func Dial(addr string, connectTimeout, readTimeout time.Duration) (*Conn, error) {
	nc, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return nil, roserr.Wrap(roserr.KindServiceUnavailable, err, "dial %s", addr)
	}
	return New(nc, readTimeout), nil
}

// New wraps an already-established net.Conn.
func New(nc net.Conn, readTimeout time.Duration) *Conn {
	return &Conn{nc: nc, r: bufio.NewReaderSize(nc, 64*1024), readTO: readTimeout}
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.nc.Close()
}

// RemoteAddr returns the remote endpoint's address.
func (c *Conn) RemoteAddr() net.Addr { return c.nc.RemoteAddr() }

// ReadExactly reads n bytes, blocking until all are available, the
// underlying stream ends, or the read timeout elapses. Partial reads
// accumulate into the returned slice.
func (c *Conn) ReadExactly(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.setDeadline(); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, classifyReadErr(err)
	}
	return buf, nil
}

// ReadU32LE reads a 4-byte little-endian length/value field.
func (c *Conn) ReadU32LE() (uint32, error) {
	b, err := c.ReadExactly(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadLengthPrefixedMessage reads a 4-byte little-endian length followed by
// that many payload bytes, the framing used for every TCPROS header field
// and service/topic message.
func (c *Conn) ReadLengthPrefixedMessage() ([]byte, error) {
	n, err := c.ReadU32LE()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	return c.ReadExactly(int(n))
}

// WriteFrame emits the whole frame in one synchronous write, matching
// spec.md §4.1's "writes are synchronous at the call level".
func (c *Conn) WriteFrame(b []byte) error {
	if err := c.nc.SetWriteDeadline(time.Now().Add(c.readTO)); err != nil {
		return roserr.Wrap(roserr.KindTransportTimeout, err, "set write deadline")
	}
	if _, err := c.nc.Write(b); err != nil {
		return classifyReadErr(err)
	}
	return nil
}

func (c *Conn) setDeadline() error {
	if c.readTO <= 0 {
		return nil
	}
	if err := c.nc.SetReadDeadline(time.Now().Add(c.readTO)); err != nil {
		return roserr.Wrap(roserr.KindTransportTimeout, err, "set read deadline")
	}
	return nil
}

func classifyReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return roserr.Wrap(roserr.KindTransportClosed, err, "connection closed")
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return roserr.Wrap(roserr.KindTransportTimeout, err, "read/write timed out")
	}
	return roserr.Wrap(roserr.KindTransportClosed, err, "transport error")
}
