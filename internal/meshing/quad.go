package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxmesh/internal/catalog"
)

// Geometry holds the output buffers of one mesh call. Per quad: 12 float32
// positions, 12 normals, 6 indices into the quad's 4 shared vertices (at
// base 4*quad), 16 colors and 12 uvw texture coordinates, plus the resolved
// facet id. Quad origins are in mask coordinates: origin[d] is the sweep
// layer and origin[u], origin[v] are interior-relative.
type Geometry struct {
	NumQuads  int
	Facets    []catalog.FacetID
	Positions []float32
	Normals   []float32
	Indices   []uint32
	Colors    []float32
	UVWs      []float32
}

// aoShade is how much one occlusion level darkens a corner color.
const aoShade = 0.3

// Two fixed triangulations per winding: one splits the quad along the v0-v2
// diagonal, the other along v1-v3. The AO-derived hint picks the split that
// keeps interpolated shading continuous across the seam.
var indexOffsets = [4][6]uint32{
	{0, 1, 2, 0, 2, 3},
	{1, 2, 3, 0, 1, 3},
	{0, 2, 1, 0, 3, 2},
	{3, 1, 0, 3, 2, 1},
}

func (g *Geometry) addQuad(reg *catalog.Registry, d, u, v, layer, iu, iv, w, h int, code int32) {
	base := uint32(4 * g.NumQuads)
	g.NumQuads++

	var pos, du, dv [3]float32
	pos[d], pos[u], pos[v] = float32(layer), float32(iu), float32(iv)
	du[u] = float32(w)
	dv[v] = float32(h)

	sign := 1
	var normal [3]float32
	if code > 0 {
		normal[d] = 1
	} else {
		normal[d] = -1
		sign = -1
	}

	// Vertex order: origin, +du, +du+dv, +dv. The AO byte packs corner
	// levels in the same order, two bits each.
	g.Positions = append(g.Positions,
		pos[0], pos[1], pos[2],
		pos[0]+du[0], pos[1]+du[1], pos[2]+du[2],
		pos[0]+du[0]+dv[0], pos[1]+du[1]+dv[1], pos[2]+du[2]+dv[2],
		pos[0]+dv[0], pos[1]+dv[1], pos[2]+dv[2],
	)
	for i := 0; i < 4; i++ {
		g.Normals = append(g.Normals, normal[0], normal[1], normal[2])
	}

	ao := uint8(code & 0xff)
	var offsets *[6]uint32
	if sign > 0 {
		if triangleHint(ao) {
			offsets = &indexOffsets[2]
		} else {
			offsets = &indexOffsets[3]
		}
	} else {
		if triangleHint(ao) {
			offsets = &indexOffsets[0]
		} else {
			offsets = &indexOffsets[1]
		}
	}
	for _, off := range offsets {
		g.Indices = append(g.Indices, base+off)
	}

	facet := code >> 8
	if facet < 0 {
		facet = -facet
	}
	facetID := catalog.FacetID(facet)
	g.Facets = append(g.Facets, facetID)

	material := reg.Facet(facetID)
	color := material.Color
	for i := 0; i < 4; i++ {
		shade := 1 - aoShade*float32(ao>>(2*i)&3)
		g.Colors = append(g.Colors, color[0]*shade, color[1]*shade, color[2]*shade, color[3])
	}

	// UV scaling depends on the tangent handedness: the z axis pairs (u, v)
	// the opposite way from x and y.
	var uvw [12]float32
	if d == 2 {
		uvw[1], uvw[4] = float32(h), float32(h)
		uvw[3], uvw[6] = float32(-sign*w), float32(-sign*w)
	} else {
		uvw[1], uvw[10] = float32(w), float32(w)
		uvw[6], uvw[9] = float32(sign*h), float32(sign*h)
	}
	tex := float32(material.Texture)
	uvw[2], uvw[5], uvw[8], uvw[11] = tex, tex, tex, tex
	g.UVWs = append(g.UVWs, uvw[:]...)
}

// triangleHint picks the diagonal split from the corner occlusion levels:
// the diagonal whose endpoints are the more occluded pair, with ties broken
// toward the v1-v3 split unless that pair is itself maximally occluded.
func triangleHint(ao uint8) bool {
	a00 := ao & 3
	a10 := ao >> 2 & 3
	a11 := ao >> 4 & 3
	a01 := ao >> 6 & 3
	if a00 == a11 {
		if a10 == a01 {
			return a10 == 3
		}
		return true
	}
	if a10 == a01 {
		return false
	}
	return a00+a11 > a10+a01
}

// Position returns corner vi (0..3) of quad qi.
func (g *Geometry) Position(qi, vi int) mgl32.Vec3 {
	o := qi*12 + vi*3
	return mgl32.Vec3{g.Positions[o], g.Positions[o+1], g.Positions[o+2]}
}

// Normal returns the normal of corner vi of quad qi.
func (g *Geometry) Normal(qi, vi int) mgl32.Vec3 {
	o := qi*12 + vi*3
	return mgl32.Vec3{g.Normals[o], g.Normals[o+1], g.Normals[o+2]}
}

// Color returns the shaded color of corner vi of quad qi.
func (g *Geometry) Color(qi, vi int) mgl32.Vec4 {
	o := qi*16 + vi*4
	return mgl32.Vec4{g.Colors[o], g.Colors[o+1], g.Colors[o+2], g.Colors[o+3]}
}
