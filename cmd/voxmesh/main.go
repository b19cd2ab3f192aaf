package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"voxmesh/internal/catalog"
	"voxmesh/internal/geomio"
	"voxmesh/internal/meshing"
	"voxmesh/internal/volume"
	"voxmesh/internal/worldgen"
)

// demoCatalog is used when no catalog file is given.
const demoCatalog = `
facets:
  - {name: grass_top,  color: [0.30, 0.76, 0.35, 1.0], texture: 1}
  - {name: grass_side, color: [0.42, 0.62, 0.30, 1.0], texture: 2}
  - {name: dirt,       color: [0.55, 0.40, 0.26, 1.0], texture: 3}
  - {name: stone,      color: [0.52, 0.52, 0.55, 1.0], texture: 4}
blocks:
  - {name: grass, opaque: true, solid: true, facets: [grass_side, grass_side, grass_top, dirt, grass_side, grass_side]}
  - {name: dirt,  opaque: true, solid: true, facets: [dirt]}
  - {name: stone, opaque: true, solid: true, facets: [stone]}
`

func main() {
	var (
		catalogPath = flag.String("catalog", "", "YAML catalog file (default: built-in demo catalog)")
		size        = flag.Int("size", 34, "volume edge length, border included")
		chunks      = flag.Int("chunks", 16, "number of volumes to generate and mesh")
		seed        = flag.Int64("seed", 1, "terrain seed")
		workers     = flag.Int("workers", runtime.NumCPU(), "parallel mesher contexts")
		countOnly   = flag.Bool("count-only", false, "count quads without building geometry")
		out         = flag.String("o", "", "write the geometry of chunk 0 to this file (zstd)")
	)
	flag.Parse()

	reg, names, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	blocks, err := terrainBlocks(names)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	terrain := worldgen.NewTerrain(*seed)
	vols := make([]*volume.Volume, *chunks)
	for i := range vols {
		v, err := volume.New(*size, *size, *size)
		if err != nil {
			log.Fatalf("volume: %v", err)
		}
		// Adjacent chunks share sampled columns through the interior offset.
		terrain.Fill(v, blocks, i*(*size-2), 0)
		vols[i] = v
	}

	counts := make([]int, len(vols))
	start := time.Now()

	pool := meshing.NewPool(context.Background(), reg, *workers, len(vols))
	for i, v := range vols {
		if err := pool.Submit(meshing.Job{Tag: i, Volume: v, CountOnly: *countOnly}); err != nil {
			log.Fatalf("mesh: %v", err)
		}
	}
	pool.Close()
	for res := range pool.Results() {
		counts[res.Tag] = res.Quads
	}
	if err := pool.Err(); err != nil {
		log.Fatalf("mesh: %v", err)
	}
	elapsed := time.Since(start)

	total := 0
	for _, n := range counts {
		total += n
	}
	fmt.Printf("meshed %d chunks (%d^3) in %v: %d quads, %.1f chunks/s\n",
		len(vols), *size, elapsed, total, float64(len(vols))/elapsed.Seconds())

	if *out != "" {
		if err := writeGeometry(*out, reg, vols[0]); err != nil {
			log.Fatalf("write %s: %v", *out, err)
		}
		fmt.Printf("wrote chunk 0 geometry to %s\n", *out)
	}
}

func loadCatalog(path string) (*catalog.Registry, map[string]catalog.BlockID, error) {
	if path == "" {
		return catalog.Parse([]byte(demoCatalog))
	}
	return catalog.Load(path)
}

// terrainBlocks maps catalog names onto the roles the terrain filler needs.
func terrainBlocks(names map[string]catalog.BlockID) (worldgen.Blocks, error) {
	b := worldgen.Blocks{
		Surface: names["grass"],
		Soil:    names["dirt"],
		Stone:   names["stone"],
	}
	if b.Surface == 0 || b.Soil == 0 || b.Stone == 0 {
		return b, fmt.Errorf("catalog must define grass, dirt and stone blocks")
	}
	return b, nil
}

func writeGeometry(path string, reg *catalog.Registry, vol *volume.Volume) error {
	m := meshing.New(reg)
	if err := m.SetVolume(vol); err != nil {
		return err
	}
	geo, err := m.Mesh()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := geomio.Write(f, geo); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
