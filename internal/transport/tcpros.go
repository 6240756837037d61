package transport

import (
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
)

// HandshakeHeader is the TCPROS header block sent by a client connecting to
// a service or topic endpoint, per spec.md §4.1. Persistent is encoded as
// the field "persistent"="1" only when true; it is omitted otherwise
// (firmware daemons in the field treat its absence as false).
type HandshakeHeader struct {
	CallerID   string
	Service    string // service path, or topic path for a subscriber
	MD5Sum     string
	Type       string
	Persistent bool
}

// field keys used in the ROS TCPROS header wire format.
const (
	fieldCallerID = "callerid"
	fieldService  = "service"
	fieldTopic    = "topic"
	fieldMD5Sum   = "md5sum"
	fieldType     = "type"
	fieldPersist  = "persistent"
	fieldError    = "error"
)

// EncodeServiceHeader builds the length-prefixed header block a client
// sends when opening a TCPROS connection to a service.
func EncodeServiceHeader(h HandshakeHeader) []byte {
	fields := map[string]string{
		fieldCallerID: h.CallerID,
		fieldService:  h.Service,
		fieldMD5Sum:   h.MD5Sum,
	}
	if h.Persistent {
		fields[fieldPersist] = "1"
	}
	return encodeHeaderFields(fields)
}

// EncodeTopicHeader builds the header block a subscriber sends after
// connecting to a publisher.
func EncodeTopicHeader(h HandshakeHeader) []byte {
	fields := map[string]string{
		fieldCallerID: h.CallerID,
		fieldTopic:    h.Topic(),
		fieldMD5Sum:   h.MD5Sum,
		fieldType:     h.Type,
	}
	return encodeHeaderFields(fields)
}

// Topic returns h.Service, the field doubling as the topic path for
// subscriber handshakes (the struct is shared between services and topics
// since both speak the same header wire shape).
func (h HandshakeHeader) Topic() string { return h.Service }

func encodeHeaderFields(fields map[string]string) []byte {
	w := newHeaderWriter()
	for k, v := range fields {
		w.writeField(k, v)
	}
	return w.finish()
}

type headerWriter struct {
	body []byte
}

func newHeaderWriter() *headerWriter { return &headerWriter{} }

func (w *headerWriter) writeField(key, value string) {
	entry := key + "=" + value
	w.body = append(w.body, lengthPrefix(len(entry))...)
	w.body = append(w.body, entry...)
}

func (w *headerWriter) finish() []byte {
	out := make([]byte, 0, len(w.body)+4)
	out = append(out, lengthPrefix(len(w.body))...)
	out = append(out, w.body...)
	return out
}

func lengthPrefix(n int) []byte {
	return []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
}

// ParseHeaderFields decodes a raw, already length-stripped header block
// (the payload after the outer 4-byte length) into its key=value fields.
func ParseHeaderFields(block []byte) (map[string]string, error) {
	fields := map[string]string{}
	pos := 0
	for pos < len(block) {
		if pos+4 > len(block) {
			return nil, roserr.New(roserr.KindProtocolError, "truncated header field length")
		}
		n := int(block[pos]) | int(block[pos+1])<<8 | int(block[pos+2])<<16 | int(block[pos+3])<<24
		pos += 4
		if pos+n > len(block) {
			return nil, roserr.New(roserr.KindProtocolError, "truncated header field body")
		}
		entry := string(block[pos : pos+n])
		pos += n
		for i := 0; i < len(entry); i++ {
			if entry[i] == '=' {
				fields[entry[:i]] = entry[i+1:]
				break
			}
		}
	}
	return fields, nil
}

// ValidateServerHeader checks only for the presence of an "error" field, per
// spec.md §4.1: "fields are validated only for error presence (any other
// mismatch is accepted to tolerate firmware variants)".
func ValidateServerHeader(fields map[string]string) error {
	if msg, ok := fields[fieldError]; ok {
		return roserr.New(roserr.KindProtocolError, "server reported handshake error: %s", msg)
	}
	return nil
}

// PerformClientHandshake writes h's header, then reads and validates the
// server's response header block.
func PerformClientHandshake(c *Conn, h HandshakeHeader, forTopic bool) (map[string]string, error) {
	var out []byte
	if forTopic {
		out = EncodeTopicHeader(h)
	} else {
		out = EncodeServiceHeader(h)
	}
	if err := c.WriteFrame(out); err != nil {
		return nil, err
	}
	block, err := c.ReadLengthPrefixedMessage()
	if err != nil {
		return nil, err
	}
	fields, err := ParseHeaderFields(block)
	if err != nil {
		return nil, err
	}
	if err := ValidateServerHeader(fields); err != nil {
		return nil, err
	}
	return fields, nil
}
