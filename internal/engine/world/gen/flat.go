package gen

import "github.com/OCharnyshevich/voxelworld/internal/engine/world/chunk"

// Flat generates a level world with every column at the same height,
// banded like Terrain.
type Flat struct {
	level  int
	params Params
	height int
}

// NewFlat creates a Flat generator with its surface at level. The surface
// is clamped to columns of the given chunk height.
func NewFlat(level int, p Params, height int) *Flat {
	return &Flat{level: level, params: p, height: height}
}

func (g *Flat) Generate(c *chunk.Chunk) {
	w, h, d := c.Size()
	surface := g.params.clampHeight(float64(g.level), h-1)
	for x := 0; x < w; x++ {
		for z := 0; z < d; z++ {
			c.SetHeight(x, z, surface)
			fillColumn(c, x, z, h, surface, g.params)
		}
	}
	c.MarkDirty()
}

func (g *Flat) HeightAt(_, _ int) int {
	return g.params.clampHeight(float64(g.level), g.height-1)
}
