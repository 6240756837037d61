// Package ecovacssvc implements the vendor service codecs from spec.md
// §4.6: each operation builds request bytes with the binary cursor, issues
// one call through a rosnet.ServiceClient, and parses the response into
// domain types. Grounded on the teacher's internal/envoy listener/cluster
// builders (typed request struct in, typed response struct out, one
// function per operation) adapted from protobuf construction to the
// vendor's length-prefixed binary wire format.
package ecovacssvc

import (
	"context"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/mapcodec"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// MapService wraps the persistent service clients for the vendor map
// service, exposing getActiveMapId and getCompressedMap. These are two
// distinct ROS endpoints (spec.md §4.6), each with its own client.
type MapService struct {
	mapIDClient rosnet.ServiceClient
	mapClient   rosnet.ServiceClient
}

// NewMapService builds a MapService over the getActiveMapId and
// getCompressedMap clients.
func NewMapService(mapIDClient, mapClient rosnet.ServiceClient) *MapService {
	return &MapService{mapIDClient: mapIDClient, mapClient: mapClient}
}

// GetActiveMapID returns the current map's identifier.
func (s *MapService) GetActiveMapID(ctx context.Context) (uint32, error) {
	resp, err := s.mapIDClient.Call(ctx, []byte{})
	if err != nil {
		return 0, err
	}
	r := binary.NewReader(resp)
	return r.ReadU32()
}

// mapInfoFieldCount is the number of fields in the fixed-size
// getCompressedMap info header: mapWidth, mapHeight, columns, rows,
// submapWidth, submapHeight, resolution, each a little-endian u32 (mapid is
// read separately, ahead of this header).
const mapInfoFieldCount = 7

// GetCompressedMap fetches a map's compressed raster and fully assembles
// it into floor/wall pixels via mapcodec.
func (s *MapService) GetCompressedMap(ctx context.Context, mapID uint32) (model.CompressedMapResult, error) {
	req := binary.NewWriter()
	req.WriteU32(mapID)

	resp, err := s.mapClient.Call(ctx, req.Bytes())
	if err != nil {
		return model.CompressedMapResult{}, err
	}

	r := binary.NewReader(resp)
	respMapID, err := r.ReadU32()
	if err != nil {
		return model.CompressedMapResult{}, err
	}
	if respMapID != mapID {
		return model.CompressedMapResult{}, roserr.New(roserr.KindProtocolError, "getCompressedMap returned mapid %d, requested %d", respMapID, mapID)
	}
	info, err := readMapInfo(r)
	if err != nil {
		return model.CompressedMapResult{}, err
	}
	submapCount, err := r.ReadU32()
	if err != nil {
		return model.CompressedMapResult{}, err
	}
	submaps, err := parseSubmapList(r, int(submapCount))
	if err != nil {
		return model.CompressedMapResult{}, err
	}

	cm, err := mapcodec.AssembleCompressedMap(info, submaps)
	if err != nil {
		return model.CompressedMapResult{}, err
	}
	return model.CompressedMapResult{MapID: mapID, CompressedMap: cm}, nil
}

func readMapInfo(r *binary.Reader) (mapcodec.MapInfo, error) {
	fields := make([]uint32, mapInfoFieldCount)
	for i := range fields {
		v, err := r.ReadU32()
		if err != nil {
			return mapcodec.MapInfo{}, err
		}
		fields[i] = v
	}
	return mapcodec.MapInfo{
		MapWidth:     int(fields[0]),
		MapHeight:    int(fields[1]),
		Columns:      int(fields[2]),
		Rows:         int(fields[3]),
		SubmapWidth:  int(fields[4]),
		SubmapHeight: int(fields[5]),
		Resolution:   int(fields[6]),
	}, nil
}

// parseSubmapList reads count length-prefixed submap byte blocks.
func parseSubmapList(r *binary.Reader, count int) ([][]byte, error) {
	out := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		n, err := r.ReadU32()
		if err != nil {
			return nil, roserr.Wrap(roserr.KindProtocolError, err, "read submap %d length", i)
		}
		data, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, roserr.Wrap(roserr.KindProtocolError, err, "read submap %d payload", i)
		}
		out = append(out, data)
	}
	return out, nil
}
