package mapcodec

import (
	"bytes"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/model"
)

// lzmaChunkSignature is the 5-byte properties+dictionary-size prefix every
// vendor LZMA chunk starts with (default lc=3,lp=0,pb=2 and a
// little-endian dictionary size of 0x40000 = 256 KiB), used to split a trace blob that concatenates multiple
// chunks (spec.md §4.9).
var lzmaChunkSignature = []byte{0x5D, 0x00, 0x00, 0x04, 0x00}

// tracePointRecordSize is the 5-byte {i16 x, i16 y, u8 flag} wire record.
const tracePointRecordSize = 5

// DecodeTrace decodes a raw trace-path blob into an ordered list of points,
// scaled by unitMm. It first attempts a single-chunk decode; if that fails
// it splits the blob at every occurrence of the vendor chunk signature and
// decodes each piece independently, concatenating the results. Consecutive
// identical points are deduplicated.
func DecodeTrace(blob []byte, unitMm int) ([]model.TracePoint, error) {
	var decoded []byte
	if d, err := decompressVendorLZMA(blob); err == nil {
		decoded = d
	} else {
		chunks := splitChunks(blob)
		if len(chunks) == 0 {
			return nil, roserr.New(roserr.KindDecompressionFailed, "trace blob is not a valid single LZMA chunk and contains no chunk signature")
		}
		for _, c := range chunks {
			d, err := decompressVendorLZMA(c)
			if err != nil {
				return nil, err
			}
			decoded = append(decoded, d...)
		}
	}

	points, err := decodeTraceRecords(decoded, unitMm)
	if err != nil {
		return nil, err
	}
	return dedupConsecutive(points), nil
}

// splitChunks returns each chunk starting at a lzmaChunkSignature
// occurrence, up to (but not including) the next occurrence or the end of
// blob.
func splitChunks(blob []byte) [][]byte {
	var starts []int
	from := 0
	for {
		idx := bytes.Index(blob[from:], lzmaChunkSignature)
		if idx < 0 {
			break
		}
		starts = append(starts, from+idx)
		from = from + idx + 1
	}
	if len(starts) == 0 {
		return nil
	}
	chunks := make([][]byte, 0, len(starts))
	for i, s := range starts {
		end := len(blob)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		chunks = append(chunks, blob[s:end])
	}
	return chunks
}

func decodeTraceRecords(decoded []byte, unitMm int) ([]model.TracePoint, error) {
	if len(decoded)%tracePointRecordSize != 0 {
		return nil, roserr.New(roserr.KindProtocolError, "trace payload length %d is not a multiple of record size %d", len(decoded), tracePointRecordSize)
	}
	r := binary.NewReader(decoded)
	count := len(decoded) / tracePointRecordSize
	points := make([]model.TracePoint, 0, count)
	for i := 0; i < count; i++ {
		x, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		y, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		flag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		points = append(points, model.TracePoint{
			X:    int(x) * unitMm,
			Y:    int(y) * unitMm,
			Flag: flag,
		})
	}
	return points, nil
}

func dedupConsecutive(points []model.TracePoint) []model.TracePoint {
	if len(points) == 0 {
		return points
	}
	out := make([]model.TracePoint, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		last := out[len(out)-1]
		if p == last {
			continue
		}
		out = append(out, p)
	}
	return out
}
