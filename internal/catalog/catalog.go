package catalog

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// BlockID indexes the block table. 0 is the empty/air block by convention.
type BlockID uint32

// FacetID indexes the facet table. 0 is the "no material" sentinel: that side
// of the block contributes no visible surface.
type FacetID uint16

const (
	EmptyBlock BlockID = 0
	NoFacet    FacetID = 0
)

// Block describes one block type. Facets holds one facet per face direction,
// ordered (+x, -x, +y, -y, +z, -z): the pair for axis d sits at indices 2d
// and 2d+1. Solid drives occlusion sampling only and is independent of
// Opaque.
type Block struct {
	Facets [6]FacetID
	Opaque bool
	Solid  bool
}

// Facet is the appearance of one block face: a base color and a layer index
// into the caller's texture array.
type Facet struct {
	Color   mgl32.Vec4
	Texture int
}

var ErrUnknownFacet = errors.New("catalog: unknown facet")

// Registry holds the block and facet tables consumed by a mesh call. It is
// append-only: ids are assigned sequentially after the reserved 0 entries,
// and entries are never removed or updated.
type Registry struct {
	blocks []Block
	facets []Facet
}

// NewRegistry returns a registry seeded with the reserved entries: the empty
// block (neither opaque nor solid, all sides no-material) and the no-material
// facet.
func NewRegistry() *Registry {
	return &Registry{
		blocks: []Block{{}},
		facets: []Facet{{}},
	}
}

// AddFacet registers a facet and returns its id.
func (r *Registry) AddFacet(color mgl32.Vec4, texture int) FacetID {
	r.facets = append(r.facets, Facet{Color: color, Texture: texture})
	return FacetID(len(r.facets) - 1)
}

// AddBlock registers a block and returns its id. Every facet reference must
// already be registered, which keeps quad emission free of range checks.
func (r *Registry) AddBlock(facets [6]FacetID, opaque, solid bool) (BlockID, error) {
	for i, f := range facets {
		if int(f) >= len(r.facets) {
			return 0, fmt.Errorf("%w: id %d (face %d)", ErrUnknownFacet, f, i)
		}
	}
	r.blocks = append(r.blocks, Block{Facets: facets, Opaque: opaque, Solid: solid})
	return BlockID(len(r.blocks) - 1), nil
}

// Block returns the entry for id, which must be less than NumBlocks.
func (r *Registry) Block(id BlockID) *Block { return &r.blocks[id] }

// Facet returns the entry for id, which must be less than NumFacets.
func (r *Registry) Facet(id FacetID) *Facet { return &r.facets[id] }

func (r *Registry) NumBlocks() int { return len(r.blocks) }

func (r *Registry) NumFacets() int { return len(r.facets) }
