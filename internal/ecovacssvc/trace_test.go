package ecovacssvc

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
)

// TestGetTraceRejectsInvalidHex verifies the wrapper hex-decodes the
// response payload before handing it to the trace decoder; malformed hex
// is rejected rather than silently passed through.
func TestGetTraceRejectsInvalidHex(t *testing.T) {
	w := binary.NewWriter()
	w.WriteLengthPrefixed([]byte("not-hex!!"))
	client := &fakeClient{response: w.Bytes()}
	svc := NewTraceService(client, 10, 5)

	if _, err := svc.GetTrace(context.Background()); err == nil {
		t.Fatalf("expected error decoding invalid hex blob")
	}
}

func TestGetTraceSendsTailCount(t *testing.T) {
	w := binary.NewWriter()
	w.WriteLengthPrefixed([]byte(hex.EncodeToString([]byte{})))
	client := &fakeClient{response: w.Bytes()}
	svc := NewTraceService(client, 10, 7)

	_, _ = svc.GetTrace(context.Background())

	r := binary.NewReader(client.lastReq)
	tailCount, _ := r.ReadU32()
	if tailCount != 7 {
		t.Fatalf("expected tail count 7, got %d", tailCount)
	}
}
