package volume

import (
	"errors"
	"fmt"

	"voxmesh/internal/catalog"
)

var ErrInvalidVolumeShape = errors.New("volume: invalid shape")

// Volume is a dense 3D grid of block ids in column-major order:
// index = x + y*Shape[0] + z*Shape[0]*Shape[1].
//
// The outermost one-cell shell along every axis is a caller-supplied border,
// conventionally the empty block. The mesher samples neighbors at
// index±Stride[axis] and relies on that border for safe reads, so every
// dimension must be at least 2. Callers fill Data directly.
type Volume struct {
	Data   []catalog.BlockID
	Shape  [3]int
	Stride [3]int
}

// New allocates a zeroed volume of the given extents.
func New(sx, sy, sz int) (*Volume, error) {
	if sx < 2 || sy < 2 || sz < 2 {
		return nil, fmt.Errorf("%w: %dx%dx%d, every dimension must be >= 2",
			ErrInvalidVolumeShape, sx, sy, sz)
	}
	return &Volume{
		Data:   make([]catalog.BlockID, sx*sy*sz),
		Shape:  [3]int{sx, sy, sz},
		Stride: [3]int{1, sx, sx * sy},
	}, nil
}

// Validate checks that the strides and data length are consistent with the
// shape. Volumes built by New always pass; hand-assembled ones may not.
func (v *Volume) Validate() error {
	sx, sy, sz := v.Shape[0], v.Shape[1], v.Shape[2]
	if sx < 0 || sy < 0 || sz < 0 {
		return fmt.Errorf("%w: negative extent in %v", ErrInvalidVolumeShape, v.Shape)
	}
	if v.Stride != [3]int{1, sx, sx * sy} {
		return fmt.Errorf("%w: stride %v does not match shape %v",
			ErrInvalidVolumeShape, v.Stride, v.Shape)
	}
	if len(v.Data) != sx*sy*sz {
		return fmt.Errorf("%w: %d cells for shape %v",
			ErrInvalidVolumeShape, len(v.Data), v.Shape)
	}
	return nil
}

// Index converts cell coordinates to a flat offset into Data.
func (v *Volume) Index(x, y, z int) int {
	return x*v.Stride[0] + y*v.Stride[1] + z*v.Stride[2]
}

// Get returns the block at (x, y, z), or the empty block when the
// coordinates fall outside the volume.
func (v *Volume) Get(x, y, z int) catalog.BlockID {
	if !v.contains(x, y, z) {
		return catalog.EmptyBlock
	}
	return v.Data[v.Index(x, y, z)]
}

// Set writes the block at (x, y, z). Out-of-range writes are dropped.
func (v *Volume) Set(x, y, z int, id catalog.BlockID) {
	if !v.contains(x, y, z) {
		return
	}
	v.Data[v.Index(x, y, z)] = id
}

func (v *Volume) contains(x, y, z int) bool {
	return x >= 0 && x < v.Shape[0] &&
		y >= 0 && y < v.Shape[1] &&
		z >= 0 && z < v.Shape[2]
}
