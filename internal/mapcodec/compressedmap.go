// Package mapcodec decodes the vendor's compressed raster and trace wire
// formats (spec.md §4.7/§4.9): a custom-header LZMA-alone submap stream,
// assembled tile-by-tile into a floor/wall pixel raster, and a concatenated-
// chunk trace-path decoder. Grounded on the teacher's internal/envoy
// resource builders for "assemble typed structures from raw wire bytes"
// shape; the LZMA transport itself has no analogue anywhere in the pack, so
// github.com/ulikunitz/xz/lzma is used as a named, ungrounded ecosystem
// dependency (see DESIGN.md).
package mapcodec

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/model"
)

// classicLZMAHeaderSize is the 13-byte header github.com/ulikunitz/xz/lzma
// expects: 1 properties byte + 4-byte little-endian dictionary size +
// 8-byte little-endian uncompressed size.
const classicLZMAHeaderSize = 13

// vendorPrefixSize is the 9-byte prefix the firmware attaches to each
// submap/trace chunk payload before the raw LZMA stream: 5 bytes of
// properties+dictionary size, followed by a 4-byte little-endian
// uncompressed size (spec.md §4.7).
const vendorPrefixSize = 9

// MapInfo is the decoded header accompanying a getCompressedMap response.
type MapInfo struct {
	MapWidth     int
	MapHeight    int
	Columns      int
	Rows         int
	SubmapWidth  int
	SubmapHeight int
	// Resolution is the raw firmware value before the mm/cm heuristic is
	// applied; see ResolutionCm.
	Resolution int
}

// ResolutionCm applies spec.md §4.7's heuristic: values >= 20 are
// millimeters (divide by 10 to get centimeters); smaller values are
// already centimeters.
func (i MapInfo) ResolutionCm() int {
	if i.Resolution >= 20 {
		return i.Resolution / 10
	}
	return i.Resolution
}

const (
	cellFloor   byte = 1
	cellWall1   byte = 2
	cellWall255 byte = 255
)

// decompressVendorLZMA reconstructs the 13-byte LZMA-alone header from the
// firmware's 9-byte prefix and decodes the stream, asserting the decoded
// length matches the declared uncompressed size.
func decompressVendorLZMA(data []byte) ([]byte, error) {
	if len(data) < vendorPrefixSize {
		return nil, roserr.New(roserr.KindDecompressionFailed, "submap payload shorter than vendor prefix: %d bytes", len(data))
	}
	propsAndDict := data[0:5]
	sizeLo := data[5:9]
	stream := data[vendorPrefixSize:]

	header := make([]byte, 0, classicLZMAHeaderSize)
	header = append(header, propsAndDict...)
	header = append(header, sizeLo...)
	header = append(header, 0, 0, 0, 0) // size-hi = 0, per spec.md §4.7 step 1

	full := make([]byte, 0, len(header)+len(stream))
	full = append(full, header...)
	full = append(full, stream...)

	declaredSize := leU32(sizeLo)

	r, err := lzma.NewReader(bytes.NewReader(full))
	if err != nil {
		return nil, roserr.Wrap(roserr.KindDecompressionFailed, err, "open lzma stream")
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, roserr.Wrap(roserr.KindDecompressionFailed, err, "read lzma stream")
	}
	if uint32(len(out)) != declaredSize {
		return nil, roserr.New(roserr.KindDecompressionFailed, "decoded length %d does not match declared size %d", len(out), declaredSize)
	}
	return out, nil
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// DecodeSubmap decompresses one submap tile and returns its raw
// submapWidth*submapHeight cell bytes.
func DecodeSubmap(data []byte, submapWidth, submapHeight int) ([]byte, error) {
	out, err := decompressVendorLZMA(data)
	if err != nil {
		return nil, err
	}
	want := submapWidth * submapHeight
	if len(out) != want {
		return nil, roserr.New(roserr.KindDecompressionFailed, "submap decoded to %d bytes, expected %d (%dx%d)", len(out), want, submapWidth, submapHeight)
	}
	return out, nil
}

// AssembleCompressedMap decodes every submap and places it into the full
// raster per spec.md §4.7: tile i sits at (col=i mod columns, row=i div
// columns), with pixel-space base (col*submapWidth, row*submapHeight).
func AssembleCompressedMap(info MapInfo, submaps [][]byte) (model.CompressedMap, error) {
	need := info.Columns * info.Rows
	if len(submaps) < need {
		return model.CompressedMap{}, roserr.New(roserr.KindProtocolError, "compressed map has %d submaps, need at least %d (%dx%d grid)", len(submaps), need, info.Columns, info.Rows)
	}

	cm := model.CompressedMap{
		Width:        info.MapWidth,
		Height:       info.MapHeight,
		Columns:      info.Columns,
		Rows:         info.Rows,
		SubmapWidth:  info.SubmapWidth,
		SubmapHeight: info.SubmapHeight,
		ResolutionCm: info.ResolutionCm(),
	}

	for i := 0; i < need; i++ {
		cells, err := DecodeSubmap(submaps[i], info.SubmapWidth, info.SubmapHeight)
		if err != nil {
			return model.CompressedMap{}, err
		}
		col := i % info.Columns
		row := i / info.Columns
		baseX := col * info.SubmapWidth
		baseY := row * info.SubmapHeight

		floor, wall := classifyCells(cells, info.SubmapWidth, info.SubmapHeight, baseX, baseY)
		cm.FloorPixels = append(cm.FloorPixels, floor...)
		cm.WallPixels = append(cm.WallPixels, wall...)
	}
	return cm, nil
}

// classifyCells walks a decoded submap's row-major cell bytes and buckets
// each into a floor or wall pixel, offset by (baseX,baseY) in full-raster
// coordinates. Cell value 1 is floor; 2 or 255 is wall; anything else is
// unknown and dropped (spec.md §4.7).
func classifyCells(cells []byte, width, height, baseX, baseY int) (floor, wall []model.Point) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := cells[y*width+x]
			p := model.Point{X: baseX + x, Y: baseY + y}
			switch cell {
			case cellFloor:
				floor = append(floor, p)
			case cellWall1, cellWall255:
				wall = append(wall, p)
			}
		}
	}
	return floor, wall
}
