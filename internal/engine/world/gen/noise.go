package gen

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Noise is a deterministic 2D field. Noise2 must return values in [0, 1].
type Noise interface {
	Noise2(x, z float64) float64
}

// NoiseFunc adapts a plain function to Noise.
type NoiseFunc func(x, z float64) float64

func (f NoiseFunc) Noise2(x, z float64) float64 { return f(x, z) }

// Constant is a Noise that returns the same value everywhere.
type Constant float64

func (c Constant) Noise2(_, _ float64) float64 { return float64(c) }

type simplex struct {
	n opensimplex.Noise
}

// NewSimplex returns seeded OpenSimplex noise normalized to [0, 1].
func NewSimplex(seed int64) Noise {
	return simplex{n: opensimplex.NewNormalized(seed)}
}

func (s simplex) Noise2(x, z float64) float64 {
	return min(max(s.n.Eval2(x, z), 0), 1)
}

// ValueNoise is lattice value noise over a seeded permutation table,
// smoothstep-interpolated between integer grid points.
type ValueNoise struct {
	perm [512]int
}

// NewValueNoise creates value noise with a seeded permutation table.
func NewValueNoise(seed int64) *ValueNoise {
	vn := &ValueNoise{}

	var p [256]int
	for i := range p {
		p[i] = i
	}

	// Fisher-Yates shuffle driven by an LCG.
	s := seed
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s>>33)&0x7FFFFFFF) % (i + 1)
		p[i], p[j] = p[j], p[i]
	}

	for i := 0; i < 512; i++ {
		vn.perm[i] = p[i&255]
	}
	return vn
}

// Noise2 returns value noise at (x, z) in [0, 1].
func (vn *ValueNoise) Noise2(x, z float64) float64 {
	x0 := fastFloor(x)
	z0 := fastFloor(z)
	u := smoothstep(x - float64(x0))
	w := smoothstep(z - float64(z0))

	a := vn.lattice(x0, z0)
	b := vn.lattice(x0+1, z0)
	c := vn.lattice(x0, z0+1)
	d := vn.lattice(x0+1, z0+1)

	return lerp(lerp(a, b, u), lerp(c, d, u), w)
}

func (vn *ValueNoise) lattice(i, j int) float64 {
	return float64(vn.perm[vn.perm[i&255]+j&255]) / 255
}

func fastFloor(x float64) int {
	return int(math.Floor(x))
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
