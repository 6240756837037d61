// Package roserr implements the error taxonomy from spec.md §7. Every
// sentinel is wrapped with github.com/pkg/errors so callers retain a stack
// trace while still being able to use errors.Is/errors.As against the
// sentinel kinds, mirroring how the teacher wraps k8s/envoy translation
// failures with pkg/errors throughout its dag and envoy packages.
package roserr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one of the taxonomy members from spec.md §7.
type Kind string

const (
	// KindTransportClosed: socket closed unexpectedly.
	KindTransportClosed Kind = "TransportClosed"
	// KindTransportTimeout: read/write exceeded its bound.
	KindTransportTimeout Kind = "TransportTimeout"
	// KindProtocolError: handshake mismatch, unexpected message shape, TLV
	// truncation, unexpected name_len.
	KindProtocolError Kind = "ProtocolError"
	// KindServiceUnavailable: endpoint resolution failed across all candidates.
	KindServiceUnavailable Kind = "ServiceUnavailable"
	// KindCommandRejected: service returned a non-zero status code.
	KindCommandRejected Kind = "CommandRejected"
	// KindDecompressionFailed: LZMA stream malformed or size mismatch.
	KindDecompressionFailed Kind = "DecompressionFailed"
	// KindInvalidArgument: caller passed out-of-range id, invalid polygon,
	// missing required config.
	KindInvalidArgument Kind = "InvalidArgument"
	// KindNotInitialized: operation requires an active map id before one has
	// been learned.
	KindNotInitialized Kind = "NotInitialized"
)

// Error is a taxonomy-tagged error. Result carries the CommandRejected
// status code when Kind is KindCommandRejected; it is zero otherwise.
type Error struct {
	Kind   Kind
	Result int
	msg    string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same Kind and a zero
// Result, so errors.Is(err, &roserr.Error{Kind: roserr.KindProtocolError})
// matches by kind; the Is(err, kind) helper below is the shorter form, and
// plain errors.As gives field access.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Result == 0
}

// New creates a taxonomy error of the given kind with a wrapped stack trace.
func New(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, msg: fmt.Sprintf(format, args...)})
}

// Wrap creates a taxonomy error of the given kind, wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause})
}

// CommandRejected builds the CommandRejected{result} variant named in
// spec.md §7.
func CommandRejected(result int) error {
	return errors.WithStack(&Error{
		Kind:   KindCommandRejected,
		Result: result,
		msg:    fmt.Sprintf("service returned non-zero result %d", result),
	})
}

// Is reports whether err (or any error it wraps) is a taxonomy Error of kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		cause := errors.Unwrap(err)
		if cause == nil {
			break
		}
		err = cause
	}
	return e != nil && e.Kind == kind
}

// KindOf extracts the taxonomy Kind carried by err, unwrapping any
// pkg/errors stack annotation. Returns "" if err is nil or not a taxonomy
// Error, so callers can use it directly as a metrics label.
func KindOf(err error) Kind {
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if ae, ok := cur.(*Error); ok {
			return ae.Kind
		}
	}
	return ""
}

// AsCommandRejected extracts the rejected result code, if err is a
// CommandRejected taxonomy error.
func AsCommandRejected(err error) (int, bool) {
	var e *Error
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if ae, ok := cur.(*Error); ok {
			e = ae
			break
		}
	}
	if e == nil || e.Kind != KindCommandRejected {
		return 0, false
	}
	return e.Result, true
}
