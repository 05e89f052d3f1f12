package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelworld/internal/engine/world/block"
)

const (
	verticesPerFace = 4
	indicesPerFace  = 6
)

// face describes one axis-aligned side of a unit cube.
// corners are in units of half a block and wound counter-clockwise when
// seen from outside, so the right-hand normal of each triangle is normal.
type face struct {
	dx, dy, dz int
	normal     mgl32.Vec3
	corners    [verticesPerFace]mgl32.Vec3
}

// faces is ordered +X, -X, +Y, -Y, +Z, -Z. The ±Z corners follow the
// classic cube tables; the ±X and ±Y corners are listed in reverse
// (v0, v3, v2, v1) relative to those tables so that every face winds
// counter-clockwise seen from outside.
var faces = [6]face{
	{1, 0, 0, mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, 1, 1}, {1, -1, 1}, {1, -1, -1}, {1, 1, -1}}},
	{-1, 0, 0, mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}, {-1, -1, -1}}},
	{0, 1, 0, mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{1, 1, 1}, {1, 1, -1}, {-1, 1, -1}, {-1, 1, 1}}},
	{0, -1, 0, mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{1, -1, -1}, {1, -1, 1}, {-1, -1, 1}, {-1, -1, -1}}},
	{0, 0, 1, mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{1, 1, 1}, {-1, 1, 1}, {-1, -1, 1}, {1, -1, 1}}},
	{0, 0, -1, mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
}

// quadIndices splits a face into triangles (0,1,2) and (0,2,3).
var quadIndices = [indicesPerFace]uint32{0, 1, 2, 0, 2, 3}

// Builder emits meshes using scratch buffers that are reused across builds.
// A Builder is not safe for concurrent use; give each goroutine its own.
type Builder struct {
	blockSize float32

	vertices []float32
	normals  []float32
	colors   []uint8
	indices  []uint32
}

// NewBuilder creates a Builder for cubes of the given edge length.
func NewBuilder(blockSize float32) *Builder {
	if blockSize <= 0 {
		blockSize = 1
	}
	return &Builder{blockSize: blockSize}
}

// BlockSize returns the cube edge length in world units.
func (b *Builder) BlockSize() float32 {
	return b.blockSize
}

// Build converts v into a mesh with one quad per solid voxel side that
// borders a non-solid cell. The returned Mesh owns exactly-sized copies of
// the emitted data.
func (b *Builder) Build(v Volume) *Mesh {
	w, h, d := v.Size()
	ox, oz := v.Offset()

	// A voxel contributes at most six faces, so 6*k faces bound the output
	// for k non-air voxels (k <= w*h*d).
	solid := 0
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			for z := 0; z < d; z++ {
				if v.Block(x, y, z) != block.Air {
					solid++
				}
			}
		}
	}
	b.reserve(solid * len(faces))

	half := b.blockSize / 2
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			for z := 0; z < d; z++ {
				bt := v.Block(x, y, z)
				if bt == block.Air {
					continue
				}
				center := mgl32.Vec3{
					float32(ox+x) * b.blockSize,
					float32(y) * b.blockSize,
					float32(oz+z) * b.blockSize,
				}
				for i := range faces {
					f := &faces[i]
					if v.IsSolid(x+f.dx, y+f.dy, z+f.dz) {
						continue
					}
					b.emit(f, center, half, bt)
				}
			}
		}
	}

	return b.snapshot()
}

// reserve resets the scratch buffers and grows them to hold n faces.
func (b *Builder) reserve(n int) {
	if cap(b.indices) < n*indicesPerFace {
		b.vertices = make([]float32, 0, n*verticesPerFace*3)
		b.normals = make([]float32, 0, n*verticesPerFace*3)
		b.colors = make([]uint8, 0, n*verticesPerFace*4)
		b.indices = make([]uint32, 0, n*indicesPerFace)
	}
	b.vertices = b.vertices[:0]
	b.normals = b.normals[:0]
	b.colors = b.colors[:0]
	b.indices = b.indices[:0]
}

func (b *Builder) emit(f *face, center mgl32.Vec3, half float32, bt block.Block) {
	base := uint32(len(b.vertices) / 3)
	c := bt.Color()
	for _, corner := range f.corners {
		p := center.Add(corner.Mul(half))
		b.vertices = append(b.vertices, p[0], p[1], p[2])
		b.normals = append(b.normals, f.normal[0], f.normal[1], f.normal[2])
		b.colors = append(b.colors, c.R, c.G, c.B, c.A)
	}
	for _, i := range quadIndices {
		b.indices = append(b.indices, base+i)
	}
}

func (b *Builder) snapshot() *Mesh {
	m := &Mesh{
		Vertices: make([]float32, len(b.vertices)),
		Normals:  make([]float32, len(b.normals)),
		Colors:   make([]uint8, len(b.colors)),
		Indices:  make([]uint32, len(b.indices)),
	}
	copy(m.Vertices, b.vertices)
	copy(m.Normals, b.normals)
	copy(m.Colors, b.colors)
	copy(m.Indices, b.indices)
	return m
}
