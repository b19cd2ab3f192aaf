package meshing

import (
	"errors"
	"fmt"

	"voxmesh/internal/catalog"
	"voxmesh/internal/volume"
)

var (
	ErrUnknownBlock = errors.New("meshing: volume references unknown block")
	ErrNoVolume     = errors.New("meshing: no volume set")
)

// Mesher owns the catalog tables, the current volume and the scratch mask
// buffer reused across sweeps and calls. A mesh call is one synchronous,
// single-threaded computation; the mesher is not safe for concurrent use.
// Give each worker goroutine its own Mesher when meshing chunks in parallel.
type Mesher struct {
	reg *catalog.Registry
	vol *volume.Volume

	// mask holds one plane of face codes per sweep layer. Cell layout:
	// (signedFacet << 8) | aoByte, 0 for no face. Grows to the largest
	// plane processed, never shrinks.
	mask []int32
}

// New creates a mesher bound to the given catalog state.
func New(reg *catalog.Registry) *Mesher {
	return &Mesher{reg: reg}
}

// SetVolume points the mesher at vol after validating its metadata. The
// volume contents stay owned by the caller and may be rewritten between
// mesh calls.
func (m *Mesher) SetVolume(vol *volume.Volume) error {
	if err := vol.Validate(); err != nil {
		return err
	}
	m.vol = vol
	return nil
}

// CountQuads runs the sweep without building geometry and returns the number
// of quads a full Mesh call would emit.
func (m *Mesher) CountQuads() (int, error) {
	return m.sweep(nil)
}

// Mesh runs the sweep over the current volume and returns the geometry
// buffers for every merged quad.
func (m *Mesher) Mesh() (*Geometry, error) {
	geo := &Geometry{}
	if _, err := m.sweep(geo); err != nil {
		return nil, err
	}
	return geo, nil
}

func (m *Mesher) sweep(geo *Geometry) (int, error) {
	if m.vol == nil {
		return 0, ErrNoVolume
	}
	if err := m.checkBlocks(); err != nil {
		return 0, err
	}

	shape, stride, data := m.vol.Shape, m.vol.Stride, m.vol.Data
	if shape[0] < 2 || shape[1] < 2 || shape[2] < 2 {
		// Degenerate volume: no interior cells, nothing to mesh.
		return 0, nil
	}

	numQuads := 0
	for d := 0; d < 3; d++ {
		dir := 2 * d
		u, v := (d+1)%3, (d+2)%3
		lu, lv := shape[u]-2, shape[v]-2
		sd, su, sv := stride[d], stride[u], stride[v]
		base := su + sv

		area := lu * lv
		if len(m.mask) < area {
			m.mask = append(m.mask, make([]int32, area-len(m.mask))...)
		}
		mask := m.mask

		// Visit every adjacent layer pair along d. The cell at flat offset
		// base+id*sd has d-coordinate id, so the pass also covers the faces
		// between the border shells and the outermost interior cells.
		for id := 0; id < shape[d]-1; id++ {
			n := 0
			for iu := 0; iu < lu; iu++ {
				index := base + id*sd + iu*su
				for iv := 0; iv < lv; iv, n, index = iv+1, n+1, index+sv {
					// mask[n] covers the face between (id, iu, iv) and its
					// +d neighbor.
					block0 := data[index]
					block1 := data[index+sd]
					facing := faceDir(m.reg, block0, block1, dir)
					if facing == 0 {
						mask[n] = 0
						continue
					}
					// Occlusion is sampled at the cell the face is seen
					// from: the +d neighbor for a forward face, the near
					// cell otherwise.
					var code int32
					if facing > 0 {
						code = int32(m.reg.Block(block0).Facets[dir]) << 8
						code |= int32(packAOMask(m.reg, data, index+sd, su, sv))
					} else {
						code = (-int32(m.reg.Block(block1).Facets[dir+1])) << 8
						code |= int32(packAOMask(m.reg, data, index, su, sv))
					}
					mask[n] = code
				}
			}

			n = 0
			for iu := 0; iu < lu; iu++ {
				for iv := 0; iv < lv; {
					code := mask[n]
					if code == 0 {
						iv++
						n++
						continue
					}

					// Grow the run along v while the code matches exactly:
					// a facet or AO mismatch forces a seam.
					h := 1
					for h < lv-iv && mask[n+h] == code {
						h++
					}

					// Widen along u while the whole h-tall strip matches.
					w, nw := 1, n+lv
				widen:
					for w < lu-iu {
						for k := 0; k < h; k++ {
							if mask[nw+k] != code {
								break widen
							}
						}
						w++
						nw += lv
					}

					if geo != nil {
						geo.addQuad(m.reg, d, u, v, id, iu, iv, w, h, code)
					}
					numQuads++

					// Zero the consumed cells and skip past the run.
					nw = n
					for wx := 0; wx < w; wx++ {
						for hx := 0; hx < h; hx++ {
							mask[nw+hx] = 0
						}
						nw += lv
					}
					iv += h
					n += h
				}
			}
		}
	}
	return numQuads, nil
}

// checkBlocks rejects volumes referencing blocks outside the catalog before
// the sweep dereferences them.
func (m *Mesher) checkBlocks() error {
	limit := catalog.BlockID(m.reg.NumBlocks())
	for i, id := range m.vol.Data {
		if id >= limit {
			return fmt.Errorf("%w: id %d at cell %d", ErrUnknownBlock, id, i)
		}
	}
	return nil
}
