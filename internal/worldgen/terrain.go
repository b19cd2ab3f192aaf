package worldgen

import (
	"math"

	"github.com/aquilax/go-perlin"

	"voxmesh/internal/catalog"
	"voxmesh/internal/volume"
)

// Blocks names the block ids the terrain filler writes.
type Blocks struct {
	Surface catalog.BlockID
	Soil    catalog.BlockID
	Stone   catalog.BlockID
}

// Terrain fills volumes from a 2D perlin heightmap. The one-cell border of
// the target volume is left untouched so the mesher's border invariant
// holds.
type Terrain struct {
	noise      *perlin.Perlin
	scale      float64
	baseHeight float64
	amp        float64
}

// NewTerrain creates a terrain filler for the given seed. The same seed
// always produces the same terrain.
func NewTerrain(seed int64) *Terrain {
	const (
		alpha   = 2.0
		beta    = 2.0
		octaves = 3
	)
	return &Terrain{
		noise:      perlin.NewPerlin(alpha, beta, octaves, seed),
		scale:      1.0 / 32.0,
		baseHeight: 0.35,
		amp:        0.5,
	}
}

// heightAt returns the surface height at world column (x, z) as a fraction
// of the interior column height, in [0, 1].
func (t *Terrain) heightAt(x, z int) float64 {
	n := t.noise.Noise2D(float64(x)*t.scale, float64(z)*t.scale) // [-1, 1]
	h := t.baseHeight + t.amp*(n+1)/2
	return math.Max(0, math.Min(1, h))
}

// Fill populates the interior of vol with one heightmap column per (x, z):
// stone below, soil near the top, the surface block on top. offX and offZ
// shift the sampled region so adjacent volumes line up seamlessly.
func (t *Terrain) Fill(vol *volume.Volume, b Blocks, offX, offZ int) {
	sx, sy, sz := vol.Shape[0], vol.Shape[1], vol.Shape[2]
	interiorY := sy - 2
	for x := 1; x < sx-1; x++ {
		for z := 1; z < sz-1; z++ {
			top := int(math.Round(t.heightAt(offX+x, offZ+z) * float64(interiorY)))
			for y := 1; y <= top && y < sy-1; y++ {
				id := b.Stone
				switch {
				case y == top:
					id = b.Surface
				case y >= top-2:
					id = b.Soil
				}
				vol.Set(x, y, z, id)
			}
		}
	}
}
