// Package gen fills chunks with deterministic terrain.
package gen

import (
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/block"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/chunk"
)

// Generator fills chunks deterministically. Generate writes every voxel and
// every height profile entry of c for the position c already carries.
type Generator interface {
	Generate(c *chunk.Chunk)
	HeightAt(blockX, blockZ int) int
}

// Params controls the fractal height field and the material bands.
type Params struct {
	Scale       float64
	Persistence float64
	Lacunarity  float64
	Octaves     int
	Amplitude   float64 // blocks of height per unit of fractal sum

	SeaLevel     int
	BedrockLevel int
	DirtDepth    int
}

// DefaultParams returns the stock terrain shape.
func DefaultParams() Params {
	return Params{
		Scale:        0.02,
		Persistence:  0.5,
		Lacunarity:   2.0,
		Octaves:      4,
		Amplitude:    20,
		SeaLevel:     63,
		BedrockLevel: 4,
		DirtDepth:    5,
	}
}

// Classify returns the block at height y of a column whose surface is at h.
func (p Params) Classify(y, h int) block.Block {
	switch {
	case y > h:
		return block.Air
	case y == h:
		return block.Grass
	case y > h-p.DirtDepth:
		return block.Dirt
	case y <= p.BedrockLevel:
		return block.Bedrock
	default:
		return block.Stone
	}
}

// clampHeight truncates f toward zero and clamps it to [BedrockLevel+1, maxY].
func (p Params) clampHeight(f float64, maxY int) int {
	lo := float64(p.BedrockLevel + 1)
	hi := float64(maxY)
	if !(f >= lo) { // NaN lands here too
		f = lo
	}
	if f > hi {
		f = hi
	}
	return int(f)
}

// Terrain is the fractal-noise height field generator.
type Terrain struct {
	noise  Noise
	params Params
	height int
}

// NewTerrain creates a Terrain sampling n. HeightAt clamps to columns of
// the given chunk height.
func NewTerrain(n Noise, p Params, height int) *Terrain {
	return &Terrain{noise: n, params: p, height: height}
}

func (t *Terrain) Generate(c *chunk.Chunk) {
	w, h, d := c.Size()
	ox, oz := c.Offset()
	for x := 0; x < w; x++ {
		for z := 0; z < d; z++ {
			surface := t.params.clampHeight(t.fractal(ox+x, oz+z), h-1)
			c.SetHeight(x, z, surface)
			fillColumn(c, x, z, h, surface, t.params)
		}
	}
	c.MarkDirty()
}

func (t *Terrain) HeightAt(blockX, blockZ int) int {
	return t.params.clampHeight(t.fractal(blockX, blockZ), t.height-1)
}

// fractal returns the unclamped surface height of world column (wx, wz).
func (t *Terrain) fractal(wx, wz int) float64 {
	amp, freq, sum := 1.0, 1.0, 0.0
	x, z := float64(wx), float64(wz)
	for i := 0; i < t.params.Octaves; i++ {
		v := t.noise.Noise2(x*t.params.Scale*freq, z*t.params.Scale*freq)
		sum += (v*2 - 1) * amp
		amp *= t.params.Persistence
		freq *= t.params.Lacunarity
	}
	return float64(t.params.SeaLevel) + sum*t.params.Amplitude
}

// fillColumn writes every voxel of column (x, z) for a surface at surface.
func fillColumn(c *chunk.Chunk, x, z, h, surface int, p Params) {
	for y := 0; y < h; y++ {
		c.SetBlock(x, y, z, p.Classify(y, surface))
	}
}
