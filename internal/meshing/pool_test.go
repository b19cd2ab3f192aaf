package meshing

import (
	"context"
	"errors"
	"testing"

	"voxmesh/internal/volume"
)

func TestPoolMatchesSerialMeshing(t *testing.T) {
	reg, stone, _, _ := testRegistry(t)

	vols := make([]*volume.Volume, 8)
	want := make([]int, len(vols))
	m := New(reg)
	for i := range vols {
		vol := mustVolume(t, 6, 6, 6)
		seed := uint32(i*2654435761 + 1)
		for x := 1; x < 5; x++ {
			for y := 1; y < 5; y++ {
				for z := 1; z < 5; z++ {
					seed = seed*1664525 + 1013904223
					if seed%3 == 0 {
						vol.Set(x, y, z, stone)
					}
				}
			}
		}
		vols[i] = vol
		if err := m.SetVolume(vol); err != nil {
			t.Fatalf("SetVolume(%d): %v", i, err)
		}
		n, err := m.CountQuads()
		if err != nil {
			t.Fatalf("CountQuads(%d): %v", i, err)
		}
		want[i] = n
	}

	pool := NewPool(context.Background(), reg, 3, len(vols))
	for i, vol := range vols {
		if err := pool.Submit(Job{Tag: i, Volume: vol}); err != nil {
			t.Fatalf("Submit(%d): %v", i, err)
		}
	}
	pool.Close()

	got := make([]int, len(vols))
	seen := 0
	for res := range pool.Results() {
		if res.Geometry == nil {
			t.Fatalf("job %d: nil geometry", res.Tag)
		}
		if res.Quads != res.Geometry.NumQuads {
			t.Fatalf("job %d: Quads = %d, geometry has %d", res.Tag, res.Quads, res.Geometry.NumQuads)
		}
		got[res.Tag] = res.Quads
		seen++
	}
	if err := pool.Err(); err != nil {
		t.Fatalf("pool error: %v", err)
	}
	if seen != len(vols) {
		t.Fatalf("received %d results, want %d", seen, len(vols))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("job %d: pool meshed %d quads, serial meshed %d", i, got[i], want[i])
		}
	}
}

func TestPoolCountOnly(t *testing.T) {
	reg, stone, _, _ := testRegistry(t)
	vol := mustVolume(t, 3, 3, 3)
	vol.Set(1, 1, 1, stone)

	pool := NewPool(context.Background(), reg, 1, 1)
	if err := pool.Submit(Job{Volume: vol, CountOnly: true}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	pool.Close()

	res, ok := <-pool.Results()
	if !ok {
		t.Fatalf("no result: %v", pool.Err())
	}
	if res.Geometry != nil {
		t.Error("count-only job produced geometry")
	}
	if res.Quads != 6 {
		t.Errorf("Quads = %d, want 6", res.Quads)
	}
	if _, ok := <-pool.Results(); ok {
		t.Error("unexpected extra result")
	}
	if err := pool.Err(); err != nil {
		t.Fatalf("pool error: %v", err)
	}
}

func TestPoolPropagatesWorkerError(t *testing.T) {
	reg, _, _, _ := testRegistry(t)
	vol := mustVolume(t, 3, 3, 3)
	vol.Data[vol.Index(1, 1, 1)] = 999

	pool := NewPool(context.Background(), reg, 2, 4)
	if err := pool.Submit(Job{Volume: vol}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	pool.Close()

	for range pool.Results() {
	}
	if err := pool.Err(); !errors.Is(err, ErrUnknownBlock) {
		t.Fatalf("pool error = %v, want ErrUnknownBlock", err)
	}
}
