package mesh

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelworld/internal/engine/world/block"
)

// grid is a minimal Volume backed by a flat slice.
type grid struct {
	w, h, d int
	ox, oz  int
	cells   []block.Block
}

func newGrid(w, h, d int) *grid {
	return &grid{w: w, h: h, d: d, cells: make([]block.Block, w*h*d)}
}

func (g *grid) in(x, y, z int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h && z >= 0 && z < g.d
}

func (g *grid) set(x, y, z int, b block.Block) {
	g.cells[(x*g.h+y)*g.d+z] = b
}

func (g *grid) Size() (int, int, int) { return g.w, g.h, g.d }
func (g *grid) Offset() (int, int)    { return g.ox, g.oz }

func (g *grid) Block(x, y, z int) block.Block {
	if !g.in(x, y, z) {
		return block.Air
	}
	return g.cells[(x*g.h+y)*g.d+z]
}

func (g *grid) IsSolid(x, y, z int) bool {
	return g.Block(x, y, z).Solid()
}

func vertex(m *Mesh, i uint32) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

func normal(m *Mesh, i uint32) mgl32.Vec3 {
	return mgl32.Vec3{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
}

func TestBuildSingleVoxel(t *testing.T) {
	g := newGrid(1, 1, 1)
	g.set(0, 0, 0, block.Stone)

	m := NewBuilder(1).Build(g)

	if got := m.FaceCount(); got != 6 {
		t.Errorf("FaceCount() = %d, want 6", got)
	}
	if got := m.VertexCount(); got != 24 {
		t.Errorf("VertexCount() = %d, want 24", got)
	}
	if got := len(m.Indices); got != 36 {
		t.Errorf("len(Indices) = %d, want 36", got)
	}
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount() = %d, want 12", got)
	}

	for i := uint32(0); i < uint32(m.VertexCount()); i++ {
		v := vertex(m, i)
		for axis := 0; axis < 3; axis++ {
			if v[axis] != 0.5 && v[axis] != -0.5 {
				t.Fatalf("vertex %d = %v, want corners at +-0.5", i, v)
			}
		}
	}
}

func TestBuildFaceOrder(t *testing.T) {
	g := newGrid(1, 1, 1)
	g.set(0, 0, 0, block.Dirt)
	m := NewBuilder(1).Build(g)

	want := []mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	for f, n := range want {
		for j := 0; j < 4; j++ {
			if got := normal(m, uint32(f*4+j)); got != n {
				t.Errorf("face %d vertex %d normal = %v, want %v", f, j, got, n)
			}
		}
	}

	wantIdx := []uint32{0, 1, 2, 0, 2, 3}
	for f := 0; f < 6; f++ {
		for j, off := range wantIdx {
			if got := m.Indices[f*6+j]; got != uint32(f*4)+off {
				t.Errorf("Indices[%d] = %d, want %d", f*6+j, got, uint32(f*4)+off)
			}
		}
	}
}

func TestBuildCornerOrder(t *testing.T) {
	g := newGrid(1, 1, 1)
	g.set(0, 0, 0, block.Stone)
	m := NewBuilder(2).Build(g)

	// ±Z keep the classic table order; ±X and ±Y run v0, v3, v2, v1 of it.
	want := [6][4]mgl32.Vec3{
		{{1, 1, 1}, {1, -1, 1}, {1, -1, -1}, {1, 1, -1}},
		{{-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}, {-1, -1, -1}},
		{{1, 1, 1}, {1, 1, -1}, {-1, 1, -1}, {-1, 1, 1}},
		{{1, -1, -1}, {1, -1, 1}, {-1, -1, 1}, {-1, -1, -1}},
		{{1, 1, 1}, {-1, 1, 1}, {-1, -1, 1}, {1, -1, 1}},
		{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}},
	}
	for f := range want {
		for j, c := range want[f] {
			if got := vertex(m, uint32(f*4+j)); got != c {
				t.Errorf("face %d corner %d = %v, want %v", f, j, got, c)
			}
		}
	}
}

func TestBuildCullsSharedFaces(t *testing.T) {
	tests := []struct {
		name  string
		cells [][3]int
		want  int
	}{
		{"empty", nil, 0},
		{"pair along x", [][3]int{{0, 0, 0}, {1, 0, 0}}, 10},
		{"column of three", [][3]int{{0, 0, 0}, {0, 1, 0}, {0, 2, 0}}, 14},
		{"2x2x2 cube", [][3]int{
			{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
			{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
		}, 24},
	}
	for _, tt := range tests {
		g := newGrid(3, 3, 3)
		for _, c := range tt.cells {
			g.set(c[0], c[1], c[2], block.Stone)
		}
		m := NewBuilder(1).Build(g)
		if got := m.FaceCount(); got != tt.want {
			t.Errorf("%s: FaceCount() = %d, want %d", tt.name, got, tt.want)
		}
		if tt.want == 0 && !m.IsEmpty() {
			t.Errorf("%s: IsEmpty() = false, want true", tt.name)
		}
	}
}

func TestBuildMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	b := NewBuilder(1)

	for trial := 0; trial < 20; trial++ {
		g := newGrid(4+r.IntN(5), 4+r.IntN(5), 4+r.IntN(5))
		solid := 0
		for i := range g.cells {
			if r.IntN(3) == 0 {
				g.cells[i] = block.Block(1 + r.IntN(4))
				solid++
			}
		}

		m := b.Build(g)
		want := CountExposedFaces(g)
		if got := m.FaceCount(); got != want {
			t.Errorf("trial %d: FaceCount() = %d, want %d", trial, got, want)
		}
		if m.FaceCount() > 6*solid {
			t.Errorf("trial %d: FaceCount() = %d exceeds 6*%d", trial, m.FaceCount(), solid)
		}
		if len(m.Vertices) != 12*m.FaceCount() || len(m.Normals) != 12*m.FaceCount() || len(m.Colors) != 16*m.FaceCount() {
			t.Errorf("trial %d: attribute lengths %d/%d/%d do not match %d faces",
				trial, len(m.Vertices), len(m.Normals), len(m.Colors), m.FaceCount())
		}
	}
}

func TestBuildOutwardWinding(t *testing.T) {
	g := newGrid(2, 2, 1)
	g.set(0, 0, 0, block.Grass)
	g.set(1, 1, 0, block.Stone)
	m := NewBuilder(1).Build(g)

	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := vertex(m, a), vertex(m, b), vertex(m, c)
		cross := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		n := normal(m, a)
		if !cross.ApproxEqual(n) {
			t.Errorf("triangle %d: right-hand normal %v, want %v", i/3, cross, n)
		}
	}
}

func TestBuildColors(t *testing.T) {
	types := []block.Block{block.Grass, block.Dirt, block.Stone, block.Bedrock}
	// Space voxels apart so every one keeps all six faces.
	g := newGrid(7, 1, 1)
	for i, bt := range types {
		g.set(i*2, 0, 0, bt)
	}
	m := NewBuilder(1).Build(g)

	if m.FaceCount() != 24 {
		t.Fatalf("FaceCount() = %d, want 24", m.FaceCount())
	}
	for i, bt := range types {
		want := bt.Color()
		for v := i * 24; v < (i+1)*24; v++ {
			got := m.Colors[v*4 : v*4+4]
			if got[0] != want.R || got[1] != want.G || got[2] != want.B || got[3] != want.A {
				t.Fatalf("%s vertex %d color = %v, want %v", bt, v, got, want)
			}
		}
	}
}

func TestBuildWorldOffset(t *testing.T) {
	g := newGrid(2, 1, 2)
	g.ox, g.oz = 16, -32
	g.set(1, 0, 1, block.Stone)

	m := NewBuilder(2).Build(g)

	// Center is ((16+1)*2, 0, (-32+1)*2) with half-extent 1.
	lo := mgl32.Vec3{33, -1, -63}
	hi := mgl32.Vec3{35, 1, -61}
	for i := uint32(0); i < uint32(m.VertexCount()); i++ {
		v := vertex(m, i)
		for axis := 0; axis < 3; axis++ {
			if v[axis] != lo[axis] && v[axis] != hi[axis] {
				t.Fatalf("vertex %d = %v, want corner of %v..%v", i, v, lo, hi)
			}
		}
	}
}

func TestBuildExactSizing(t *testing.T) {
	b := NewBuilder(1)

	big := newGrid(4, 4, 4)
	for i := range big.cells {
		if i%2 == 0 {
			big.cells[i] = block.Stone
		}
	}
	_ = b.Build(big)

	small := newGrid(1, 1, 1)
	small.set(0, 0, 0, block.Dirt)
	m := b.Build(small)

	if cap(m.Vertices) != len(m.Vertices) || cap(m.Normals) != len(m.Normals) ||
		cap(m.Colors) != len(m.Colors) || cap(m.Indices) != len(m.Indices) {
		t.Errorf("mesh slices are not exactly sized")
	}
	if m.FaceCount() != 6 {
		t.Errorf("FaceCount() after reuse = %d, want 6", m.FaceCount())
	}
	for _, idx := range m.Indices {
		if idx >= uint32(m.VertexCount()) {
			t.Fatalf("index %d out of range for %d vertices", idx, m.VertexCount())
		}
	}
}

func TestNewBuilderDefaultsBlockSize(t *testing.T) {
	if got := NewBuilder(0).BlockSize(); got != 1 {
		t.Errorf("NewBuilder(0).BlockSize() = %v, want 1", got)
	}
}
