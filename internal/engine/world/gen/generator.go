package gen

import (
	"errors"
	"fmt"

	"github.com/OCharnyshevich/voxelworld/internal/engine/world/chunk"
)

var (
	ErrUnknownGenerator = errors.New("unknown generator type")
	ErrUnknownNoise     = errors.New("unknown noise type")
)

// NewNoise returns the named noise source: "simplex" or "value".
func NewNoise(kind string, seed int64) (Noise, error) {
	switch kind {
	case "simplex", "":
		return NewSimplex(seed), nil
	case "value":
		return NewValueNoise(seed), nil
	default:
		return nil, fmt.Errorf("noise %q: %w", kind, ErrUnknownNoise)
	}
}

// New returns the named generator: "default" (fractal terrain over n) or
// "flat" (level world at p.SeaLevel).
func New(kind string, n Noise, p Params, height int) (Generator, error) {
	switch kind {
	case "default", "":
		return NewTerrain(n, p, height), nil
	case "flat":
		return NewFlat(p.SeaLevel, p, height), nil
	default:
		return nil, fmt.Errorf("generator %q: %w", kind, ErrUnknownGenerator)
	}
}

// GenerateChunk generates a heap-backed chunk at pos.
func GenerateChunk(g Generator, pos chunk.Pos, dims chunk.Dimensions) (*chunk.Chunk, error) {
	c, err := chunk.Alloc(pos, dims)
	if err != nil {
		return nil, fmt.Errorf("generate chunk %s: %w", pos, err)
	}
	g.Generate(c)
	return c, nil
}
