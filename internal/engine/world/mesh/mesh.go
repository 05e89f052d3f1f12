// Package mesh turns a dense voxel grid into a face-culled triangle mesh.
package mesh

import "github.com/OCharnyshevich/voxelworld/internal/engine/world/block"

// Volume is the voxel grid a mesh is built from.
type Volume interface {
	// Size returns the grid extent along X, Y and Z.
	Size() (w, h, d int)
	// Offset returns the world block coordinate of the grid's (0, 0) column.
	Offset() (x, z int)
	// Block returns the block at local coordinates.
	Block(x, y, z int) block.Block
	// IsSolid reports whether a local cell is occupied. Coordinates outside
	// the grid are not solid, so faces on the grid boundary are always emitted.
	IsSolid(x, y, z int) bool
}

// Mesh is a triangle mesh in world space. All arrays are flat and parallel:
// three floats per vertex position and normal, four bytes per vertex color,
// three indices per triangle.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Colors   []uint8
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// FaceCount returns the number of quads (two triangles each).
func (m *Mesh) FaceCount() int {
	return len(m.Indices) / indicesPerFace
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// CountExposedFaces returns how many voxel sides in v are solid on one side
// and empty or outside the grid on the other. It walks the grid without
// emitting geometry and is the face count Build produces for v.
func CountExposedFaces(v Volume) int {
	w, h, d := v.Size()
	inside := func(x, y, z int) bool {
		return x >= 0 && x < w && y >= 0 && y < h && z >= 0 && z < d
	}
	n := 0
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			for z := 0; z < d; z++ {
				if !v.Block(x, y, z).Solid() {
					continue
				}
				for _, f := range faces {
					nx, ny, nz := x+f.dx, y+f.dy, z+f.dz
					if !inside(nx, ny, nz) || !v.Block(nx, ny, nz).Solid() {
						n++
					}
				}
			}
		}
	}
	return n
}
