package meshing

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxmesh/internal/catalog"
	"voxmesh/internal/volume"
)

func TestFaceDir(t *testing.T) {
	reg := catalog.NewRegistry()
	glassF := reg.AddFacet(mgl32.Vec4{0.8, 0.9, 1, 0.4}, 1)
	mistF := reg.AddFacet(mgl32.Vec4{1, 1, 1, 0.2}, 2)

	stone, _ := reg.AddBlock(allFaces(glassF), true, true)
	brick, _ := reg.AddBlock(allFaces(glassF), true, true)
	glass, _ := reg.AddBlock(allFaces(glassF), false, false)
	pane, _ := reg.AddBlock(allFaces(glassF), false, false) // same facet as glass
	mist, _ := reg.AddBlock(allFaces(mistF), false, false)

	air := catalog.EmptyBlock
	cases := []struct {
		name           string
		block0, block1 catalog.BlockID
		want           int
	}{
		{"identical blocks", stone, stone, 0},
		{"both opaque", stone, brick, 0},
		{"opaque against air", stone, air, 1},
		{"air against opaque", air, stone, -1},
		{"transparent against air", glass, air, 1},
		{"air against transparent", air, glass, -1},
		{"same facet either side", glass, pane, 0},
		{"distinct transparent materials", glass, mist, 0},
		{"air against air", air, air, 0},
	}
	for _, tc := range cases {
		for dir := 0; dir < 6; dir += 2 {
			if got := faceDir(reg, tc.block0, tc.block1, dir); got != tc.want {
				t.Errorf("%s (dir %d): got %d, want %d", tc.name, dir, got, tc.want)
			}
		}
	}
}

func TestPackAOMask(t *testing.T) {
	reg := catalog.NewRegistry()
	f := reg.AddFacet(mgl32.Vec4{1, 1, 1, 1}, 1)
	solid, _ := reg.AddBlock(allFaces(f), true, true)

	v, err := volume.New(3, 3, 3)
	if err != nil {
		t.Fatalf("volume: %v", err)
	}
	ipos := v.Index(1, 1, 1)
	dj, dk := v.Stride[1], v.Stride[2]

	pack := func() uint8 {
		return packAOMask(reg, v.Data, ipos, dj, dk)
	}
	reset := func() {
		for i := range v.Data {
			v.Data[i] = catalog.EmptyBlock
		}
	}

	if got := pack(); got != 0 {
		t.Fatalf("unoccluded: got %#02x, want 0", got)
	}

	// A +dj edge neighbor darkens the two corners on that side.
	v.Set(1, 2, 1, solid)
	if got := pack(); got != 0b00010100 {
		t.Fatalf("+dj edge: got %#08b, want 00010100", got)
	}

	// An adjacent diagonal adds nothing once the edge already darkened the
	// corner.
	v.Set(1, 2, 2, solid)
	if got := pack(); got != 0b00010100 {
		t.Fatalf("+dj edge with +dj+dk diagonal: got %#08b, want 00010100", got)
	}

	// A lone diagonal contributes one level to its corner.
	reset()
	v.Set(1, 0, 0, solid)
	if got := pack(); got != 0b00000001 {
		t.Fatalf("-dj-dk diagonal: got %#08b, want 00000001", got)
	}

	// Two edges meeting at a corner stack to level 2.
	reset()
	v.Set(1, 0, 1, solid)
	v.Set(1, 1, 0, solid)
	if got := pack(); got != 0b01000110 {
		t.Fatalf("-dj and -dk edges: got %#08b, want 01000110", got)
	}
}

func TestTriangleHint(t *testing.T) {
	packLevels := func(a00, a10, a11, a01 uint8) uint8 {
		return a01<<6 | a11<<4 | a10<<2 | a00
	}
	cases := []struct {
		a00, a10, a11, a01 uint8
		want               bool
	}{
		{0, 0, 0, 0, false}, // flat face keeps the default split
		{0, 1, 0, 0, true},  // v0-v2 pair equal, v1-v3 not
		{1, 0, 0, 0, false}, // v1-v3 pair equal, v0-v2 not
		{2, 0, 1, 2, true},  // neither pair equal, v0-v2 more occluded
		{0, 2, 1, 1, false}, // neither pair equal, v1-v3 more occluded
		{3, 3, 3, 3, true},  // both pairs maximally occluded
		{2, 2, 2, 2, false},
	}
	for _, tc := range cases {
		ao := packLevels(tc.a00, tc.a10, tc.a11, tc.a01)
		if got := triangleHint(ao); got != tc.want {
			t.Errorf("hint(a00=%d a10=%d a11=%d a01=%d): got %v, want %v",
				tc.a00, tc.a10, tc.a11, tc.a01, got, tc.want)
		}
	}
}
