package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelworld/internal/engine/world/chunk"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/mesh"
)

// Renderer receives every active chunk's mesh during the draw phase. Meshes
// are already in world space and are drawn with an identity transform. The
// mesh stays owned by its chunk.
type Renderer interface {
	Draw(pos chunk.Pos, m *mesh.Mesh)
}

// Viewer supplies the camera position for each frame.
type Viewer interface {
	Position(tick uint64) mgl32.Vec3
}

// LinearPath moves the viewer from Start by Velocity every tick.
type LinearPath struct {
	Start    mgl32.Vec3
	Velocity mgl32.Vec3
}

func (p LinearPath) Position(tick uint64) mgl32.Vec3 {
	return p.Start.Add(p.Velocity.Mul(float32(tick)))
}

// StatsRenderer is a headless Renderer that only counts what it is given.
type StatsRenderer struct {
	Draws     uint64
	Triangles uint64
	Vertices  uint64
}

func (s *StatsRenderer) Draw(_ chunk.Pos, m *mesh.Mesh) {
	s.Draws++
	s.Triangles += uint64(m.TriangleCount())
	s.Vertices += uint64(m.VertexCount())
}
