// Package tilecodec packs a map's tile grid into a compact blob: one type
// byte followed by elevation and moisture as little-endian float64, per tile
// in row-major order. Coordinates are implied by position. Version 1 blobs
// with float32 samples are still read.
package tilecodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"overland/internal/domain/world"
)

const (
	versionFloat32 byte = 1
	version        byte = 2
	headerSize          = 1 + 4 + 4
	bytesPerTile        = 1 + 8 + 8
	bytesPerTileV1      = 1 + 4 + 4
)

var ErrCorrupt = errors.New("tilecodec: corrupt tile blob")

var typeCodes = func() map[world.TileType]byte {
	out := make(map[world.TileType]byte, len(world.TileTypes))
	for i, t := range world.TileTypes {
		out[t] = byte(i)
	}
	return out
}()

// Encode writes the current version. Samples round-trip exactly.
func Encode(width, height int, tiles []world.Tile) ([]byte, error) {
	if width <= 0 || height <= 0 || len(tiles) != width*height {
		return nil, fmt.Errorf("tilecodec: %d tiles do not fill %dx%d", len(tiles), width, height)
	}
	buf := make([]byte, headerSize+len(tiles)*bytesPerTile)
	buf[0] = version
	binary.LittleEndian.PutUint32(buf[1:], uint32(width))
	binary.LittleEndian.PutUint32(buf[5:], uint32(height))

	off := headerSize
	for i, t := range tiles {
		code, ok := typeCodes[t.Type]
		if !ok {
			return nil, fmt.Errorf("tilecodec: tile %d has unknown type %q", i, t.Type)
		}
		buf[off] = code
		binary.LittleEndian.PutUint64(buf[off+1:], math.Float64bits(t.Elevation))
		binary.LittleEndian.PutUint64(buf[off+9:], math.Float64bits(t.Moisture))
		off += bytesPerTile
	}
	return buf, nil
}

// Decode rebuilds the tile grid and returns its dimensions.
func Decode(data []byte) (width, height int, tiles []world.Tile, err error) {
	if len(data) < headerSize {
		return 0, 0, nil, ErrCorrupt
	}
	var (
		stride int
		sample func(b []byte) (elevation, moisture float64)
	)
	switch data[0] {
	case version:
		stride = bytesPerTile
		sample = func(b []byte) (float64, float64) {
			return math.Float64frombits(binary.LittleEndian.Uint64(b)),
				math.Float64frombits(binary.LittleEndian.Uint64(b[8:]))
		}
	case versionFloat32:
		stride = bytesPerTileV1
		sample = func(b []byte) (float64, float64) {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))),
				float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:])))
		}
	default:
		return 0, 0, nil, ErrCorrupt
	}
	width = int(binary.LittleEndian.Uint32(data[1:]))
	height = int(binary.LittleEndian.Uint32(data[5:]))
	if width <= 0 || height <= 0 || len(data) != headerSize+width*height*stride {
		return 0, 0, nil, ErrCorrupt
	}

	tiles = make([]world.Tile, 0, width*height)
	off := headerSize
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			code := int(data[off])
			if code >= len(world.TileTypes) {
				return 0, 0, nil, ErrCorrupt
			}
			e, m := sample(data[off+1:])
			tiles = append(tiles, world.Tile{
				X:         x,
				Y:         y,
				Type:      world.TileTypes[code],
				Elevation: e,
				Moisture:  m,
			})
			off += stride
		}
	}
	return width, height, tiles, nil
}
