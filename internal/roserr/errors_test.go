package roserr

import (
	"testing"

	"github.com/pkg/errors"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	err := Wrap(KindTransportTimeout, errors.New("read timed out"), "waiting for map response")
	if !Is(err, KindTransportTimeout) {
		t.Fatalf("expected KindTransportTimeout, got %v", err)
	}
	if Is(err, KindProtocolError) {
		t.Fatalf("did not expect KindProtocolError match")
	}
}

func TestCommandRejectedCarriesResult(t *testing.T) {
	err := CommandRejected(7)
	result, ok := AsCommandRejected(err)
	if !ok || result != 7 {
		t.Fatalf("expected result=7 ok=true, got result=%d ok=%v", result, ok)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(KindProtocolError, nil, "x") != nil {
		t.Fatalf("expected nil")
	}
}

func TestKindOfUnwrapsStackAnnotation(t *testing.T) {
	err := New(KindNotInitialized, "no active map id")
	if got := KindOf(err); got != KindNotInitialized {
		t.Fatalf("expected KindNotInitialized, got %q", got)
	}
}

func TestKindOfReturnsEmptyForPlainError(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("expected empty kind, got %q", got)
	}
}
