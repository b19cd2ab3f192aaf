package meshing

import "voxmesh/internal/catalog"

// faceDir classifies the boundary between two adjacent blocks. block0 sits on
// the negative side of the face, block1 on the positive side, and dir is the
// face pair index 2*axis. The result is +1 for a face pointing along the
// axis, -1 for one pointing the opposite way, and 0 for no visible face.
func faceDir(reg *catalog.Registry, block0, block1 catalog.BlockID, dir int) int {
	if block0 == block1 {
		return 0
	}
	data0, data1 := reg.Block(block0), reg.Block(block1)
	if data0.Opaque && data1.Opaque {
		return 0
	}
	if data0.Opaque {
		return 1
	}
	if data1.Opaque {
		return -1
	}

	// Neither block is opaque: compare the facets the blocks expose toward
	// each other. Only an empty side yields a boundary, facing the non-empty
	// one; two distinct non-empty transparent materials produce no face.
	material0 := data0.Facets[dir]
	material1 := data1.Facets[dir+1]
	if material0 == material1 {
		return 0
	}
	if material0 == catalog.NoFacet {
		return -1
	}
	if material1 == catalog.NoFacet {
		return 1
	}
	return 0
}

// packAOMask computes the four 2-bit corner occlusion levels for the face
// whose exposed cell sits at flat offset ipos, with in-plane neighbor strides
// dj and dk. Each solid edge neighbor darkens its two adjacent corners; a
// corner still untouched afterwards picks up at most one level from its
// diagonal neighbor, which keeps corners already darkened by an edge from
// being counted twice.
func packAOMask(reg *catalog.Registry, data []catalog.BlockID, ipos, dj, dk int) uint8 {
	solid := func(i int) bool {
		return reg.Block(data[i]).Solid
	}

	var a00, a01, a10, a11 uint8
	if solid(ipos + dj) {
		a10++
		a11++
	}
	if solid(ipos - dj) {
		a00++
		a01++
	}
	if solid(ipos + dk) {
		a01++
		a11++
	}
	if solid(ipos - dk) {
		a00++
		a10++
	}

	if a00 == 0 && solid(ipos-dj-dk) {
		a00++
	}
	if a01 == 0 && solid(ipos-dj+dk) {
		a01++
	}
	if a10 == 0 && solid(ipos+dj-dk) {
		a10++
	}
	if a11 == 0 && solid(ipos+dj+dk) {
		a11++
	}

	// Bit order matches the vertex order used by addQuad.
	return a01<<6 | a11<<4 | a10<<2 | a00
}
