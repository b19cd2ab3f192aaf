// Package geomio persists meshed geometry as a zstd-compressed binary
// stream, for profiling runs that want to inspect or diff mesher output.
//
// Inside the zstd frame, little-endian: the magic "VXGM", a uint32 format
// version, a uint32 quad count, then the buffers in order: facets (uint16),
// positions, normals (float32), indices (uint32), colors, uvws (float32),
// each with the length implied by the quad count.
package geomio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"voxmesh/internal/catalog"
	"voxmesh/internal/meshing"
)

const (
	magic   = "VXGM"
	version = 1

	// maxQuads bounds the quad count a dump header may declare. A meshed
	// chunk is in the tens of thousands of quads, so two million leaves
	// plenty of headroom while keeping the worst-case decode footprint
	// under half a gigabyte.
	maxQuads = 1 << 21
)

var ErrBadFormat = errors.New("geomio: bad geometry dump")

// Write compresses and writes g to w.
func Write(w io.Writer, g *meshing.Geometry) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := writeRaw(enc, g); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Read decompresses one geometry dump from r.
func Read(r io.Reader) (*meshing.Geometry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return readRaw(dec)
}

func writeRaw(w io.Writer, g *meshing.Geometry) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	hdr := [2]uint32{version, uint32(g.NumQuads)}
	if err := binary.Write(w, binary.LittleEndian, hdr[:]); err != nil {
		return err
	}
	for _, buf := range []any{g.Facets, g.Positions, g.Normals, g.Indices, g.Colors, g.UVWs} {
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return err
		}
	}
	return nil
}

func readRaw(r io.Reader) (*meshing.Geometry, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, err
	}
	if string(m[:]) != magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadFormat, m)
	}
	var hdr [2]uint32
	if err := binary.Read(r, binary.LittleEndian, hdr[:]); err != nil {
		return nil, err
	}
	if hdr[0] != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadFormat, hdr[0])
	}
	if hdr[1] > maxQuads {
		return nil, fmt.Errorf("%w: %d quads", ErrBadFormat, hdr[1])
	}

	n := int(hdr[1])
	g := &meshing.Geometry{NumQuads: n}
	// Allocate each buffer only once the previous one decoded, so a header
	// declaring more quads than the stream carries fails on the first short
	// read instead of committing the full set of allocations.
	for _, alloc := range []func() any{
		func() any { g.Facets = make([]catalog.FacetID, n); return g.Facets },
		func() any { g.Positions = make([]float32, 12*n); return g.Positions },
		func() any { g.Normals = make([]float32, 12*n); return g.Normals },
		func() any { g.Indices = make([]uint32, 6*n); return g.Indices },
		func() any { g.Colors = make([]float32, 16*n); return g.Colors },
		func() any { g.UVWs = make([]float32, 12*n); return g.UVWs },
	} {
		if err := binary.Read(r, binary.LittleEndian, alloc()); err != nil {
			return nil, err
		}
	}
	return g, nil
}
