package catalog

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Catalog file layout:
//
//	facets:
//	  - name: grass_top
//	    color: [0.30, 0.76, 0.35, 1.0]
//	    texture: 1
//	blocks:
//	  - name: grass
//	    opaque: true
//	    solid: true
//	    facets: [grass_side, grass_side, grass_top, dirt, grass_side, grass_side]
//
// Facet references are by name; "none" (or an empty string) is the
// no-material sentinel. A single-element facets list applies to all six
// faces. Ids are assigned in file order, after the reserved 0 entries.

type facetSpec struct {
	Name    string     `yaml:"name"`
	Color   [4]float32 `yaml:"color"`
	Texture int        `yaml:"texture"`
}

type blockSpec struct {
	Name   string   `yaml:"name"`
	Facets []string `yaml:"facets"`
	Opaque bool     `yaml:"opaque"`
	Solid  bool     `yaml:"solid"`
}

type catalogFile struct {
	Facets []facetSpec `yaml:"facets"`
	Blocks []blockSpec `yaml:"blocks"`
}

// Load reads a YAML catalog file and returns the populated registry along
// with the registered block ids by name.
func Load(path string) (*Registry, map[string]BlockID, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return Parse(raw)
}

// Parse builds a registry from YAML catalog data.
func Parse(raw []byte) (*Registry, map[string]BlockID, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("catalog: %w", err)
	}

	reg := NewRegistry()

	facetIDs := map[string]FacetID{"none": NoFacet, "": NoFacet}
	for _, f := range file.Facets {
		if f.Name == "" || f.Name == "none" {
			return nil, nil, fmt.Errorf("catalog: reserved facet name %q", f.Name)
		}
		if _, dup := facetIDs[f.Name]; dup {
			return nil, nil, fmt.Errorf("catalog: duplicate facet %q", f.Name)
		}
		facetIDs[f.Name] = reg.AddFacet(mgl32.Vec4(f.Color), f.Texture)
	}

	blockIDs := map[string]BlockID{"air": EmptyBlock}
	for _, b := range file.Blocks {
		if b.Name == "" || b.Name == "air" {
			return nil, nil, fmt.Errorf("catalog: reserved block name %q", b.Name)
		}
		if _, dup := blockIDs[b.Name]; dup {
			return nil, nil, fmt.Errorf("catalog: duplicate block %q", b.Name)
		}

		var facets [6]FacetID
		switch len(b.Facets) {
		case 1:
			id, ok := facetIDs[b.Facets[0]]
			if !ok {
				return nil, nil, fmt.Errorf("catalog: block %q: %w: %q", b.Name, ErrUnknownFacet, b.Facets[0])
			}
			for i := range facets {
				facets[i] = id
			}
		case 6:
			for i, name := range b.Facets {
				id, ok := facetIDs[name]
				if !ok {
					return nil, nil, fmt.Errorf("catalog: block %q: %w: %q", b.Name, ErrUnknownFacet, name)
				}
				facets[i] = id
			}
		default:
			return nil, nil, fmt.Errorf("catalog: block %q: need 1 or 6 facets, got %d", b.Name, len(b.Facets))
		}

		id, err := reg.AddBlock(facets, b.Opaque, b.Solid)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog: block %q: %w", b.Name, err)
		}
		blockIDs[b.Name] = id
	}

	return reg, blockIDs, nil
}
