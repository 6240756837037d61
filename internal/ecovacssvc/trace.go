package ecovacssvc

import (
	"context"
	"encoding/hex"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/mapcodec"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// TraceService fetches the robot's recent-path trace and decodes it
// through mapcodec (spec.md §4.9).
type TraceService struct {
	client    rosnet.ServiceClient
	unitMm    int
	tailCount int
}

// NewTraceService builds a TraceService over client. unitMm is
// tracePointUnitMm and tailCount is traceTailEntries (spec.md §7 config).
func NewTraceService(client rosnet.ServiceClient, unitMm, tailCount int) *TraceService {
	return &TraceService{client: client, unitMm: unitMm, tailCount: tailCount}
}

// GetTrace fetches the most recent traceTailEntries chunks and returns
// the decoded, deduplicated point sequence.
func (s *TraceService) GetTrace(ctx context.Context) ([]model.TracePoint, error) {
	req := binary.NewWriter()
	req.WriteU32(uint32(s.tailCount))
	resp, err := s.client.Call(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}

	r := binary.NewReader(resp)
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	hexBlob, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}

	raw, err := hex.DecodeString(string(hexBlob))
	if err != nil {
		return nil, roserr.Wrap(roserr.KindProtocolError, err, "decode trace hex blob")
	}
	return mapcodec.DecodeTrace(raw, s.unitMm)
}
