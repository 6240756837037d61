// Package binary implements the small value-reader/writer over a byte
// buffer named in spec.md §4.2: little-endian u8/u16/u32/i16, raw byte
// slices, and a truncation-safe remaining() check. No hidden allocation:
// Reader never copies more than the caller asked for, and Writer grows its
// backing slice geometrically the way bytes.Buffer does.
package binary

import (
	"encoding/binary"

	"github.com/valetudo-ecovacs/roscore/internal/roserr"
)

// Reader is a forward-only cursor over buf. All multi-byte reads are
// little-endian, matching the TCPROS wire format.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reads without copying it.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Seek repositions the cursor to an absolute offset. It fails with
// InvalidArgument if pos is out of [0, len(buf)].
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.buf) {
		return roserr.New(roserr.KindInvalidArgument, "seek position %d out of range [0,%d]", pos, len(r.buf))
	}
	r.pos = pos
	return nil
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return roserr.New(roserr.KindProtocolError, "truncated input: need %d bytes, have %d", n, r.Remaining())
	}
	return nil
}

// ReadBytes returns the next n bytes without copying the backing array.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadI16 reads a little-endian int16.
func (r *Reader) ReadI16() (int16, error) {
	u, err := r.ReadU16()
	if err != nil {
		return 0, err
	}
	return int16(u), nil
}

// Writer accumulates little-endian encoded values into a growable buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteU8 appends one byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16 appends a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteU32 appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteI16 appends a little-endian int16.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteLengthPrefixed appends payload preceded by its 4-byte little-endian
// length, the framing used for every TCPROS header field and message.
func (w *Writer) WriteLengthPrefixed(payload []byte) {
	w.WriteU32(uint32(len(payload)))
	w.WriteBytes(payload)
}
