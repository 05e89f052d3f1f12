// Package chunk holds the dense voxel column that the world streams and meshes.
package chunk

import (
	"errors"
	"fmt"

	"github.com/OCharnyshevich/voxelworld/internal/engine/world/arena"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/block"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/mesh"
)

// ErrDimensions is returned for non-positive chunk dimensions or mismatched storage.
var ErrDimensions = errors.New("invalid chunk dimensions")

// Pos identifies a chunk on the horizontal chunk grid.
type Pos struct{ X, Z int32 }

func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Z)
}

// Dimensions is the voxel extent of a chunk.
type Dimensions struct {
	Width, Height, Depth int
}

// DefaultDimensions is 16 wide, 384 tall, 16 deep.
var DefaultDimensions = Dimensions{Width: 16, Height: 384, Depth: 16}

// Volume returns the number of voxels in a chunk.
func (d Dimensions) Volume() int { return d.Width * d.Height * d.Depth }

// Columns returns the number of vertical columns in a chunk.
func (d Dimensions) Columns() int { return d.Width * d.Depth }

// Validate returns ErrDimensions if any extent is not positive.
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 || d.Depth <= 0 {
		return fmt.Errorf("dimensions %dx%dx%d: %w", d.Width, d.Height, d.Depth, ErrDimensions)
	}
	return nil
}

// Footprint returns the arena bytes one chunk of d occupies: the voxel grid
// padded to int32 alignment followed by the height profile. Footprints are
// multiples of four, so chunks packed back to back into a word-aligned arena
// need no further padding.
func Footprint(d Dimensions) int {
	return arena.AlignUp(d.Volume(), 4) + 4*d.Columns()
}

// MeshBuilder converts a voxel volume into a mesh.
type MeshBuilder interface {
	Build(v mesh.Volume) *mesh.Mesh
}

// Chunk is a W×H×D voxel grid with a per-column height profile and a
// lazily built mesh. Voxel storage is indexed (x*H + y)*D + z.
type Chunk struct {
	pos    Pos
	dims   Dimensions
	active bool

	blocks  []block.Block
	heights []int32

	mesh      *mesh.Mesh
	meshValid bool
}

// New wraps caller-provided storage. blocks must hold dims.Volume() entries
// and heights dims.Columns() entries.
func New(pos Pos, dims Dimensions, blocks []block.Block, heights []int32) (*Chunk, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if len(blocks) != dims.Volume() || len(heights) != dims.Columns() {
		return nil, fmt.Errorf("chunk %s storage %d/%d, want %d/%d: %w",
			pos, len(blocks), len(heights), dims.Volume(), dims.Columns(), ErrDimensions)
	}
	return &Chunk{pos: pos, dims: dims, blocks: blocks, heights: heights}, nil
}

// Alloc creates a chunk with heap-allocated storage.
func Alloc(pos Pos, dims Dimensions) (*Chunk, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	return New(pos, dims, make([]block.Block, dims.Volume()), make([]int32, dims.Columns()))
}

// FromArena creates a chunk whose voxel and height storage is carved from a.
// Nothing is taken from a unless the whole footprint fits.
func FromArena(a *arena.Arena, pos Pos, dims Dimensions) (*Chunk, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if need := Footprint(dims); a.Remaining() < need {
		return nil, fmt.Errorf("chunk %s needs %d bytes, %d left: %w", pos, need, a.Remaining(), arena.ErrExhausted)
	}
	blocks, err := arena.AllocSlice[block.Block](a, dims.Volume())
	if err != nil {
		return nil, fmt.Errorf("alloc chunk %s blocks: %w", pos, err)
	}
	heights, err := arena.AllocSlice[int32](a, dims.Columns())
	if err != nil {
		return nil, fmt.Errorf("alloc chunk %s heights: %w", pos, err)
	}
	return New(pos, dims, blocks, heights)
}

func (c *Chunk) Pos() Pos               { return c.pos }
func (c *Chunk) Dimensions() Dimensions { return c.dims }

// Active reports whether the chunk is inside the current streaming radius.
func (c *Chunk) Active() bool      { return c.active }
func (c *Chunk) SetActive(on bool) { c.active = on }

// Size returns the voxel extent along X, Y and Z.
func (c *Chunk) Size() (w, h, d int) {
	return c.dims.Width, c.dims.Height, c.dims.Depth
}

// Offset returns the world block coordinate of local column (0, 0).
func (c *Chunk) Offset() (x, z int) {
	return int(c.pos.X) * c.dims.Width, int(c.pos.Z) * c.dims.Depth
}

func (c *Chunk) inBounds(x, y, z int) bool {
	return x >= 0 && x < c.dims.Width &&
		y >= 0 && y < c.dims.Height &&
		z >= 0 && z < c.dims.Depth
}

func (c *Chunk) index(x, y, z int) int {
	return (x*c.dims.Height+y)*c.dims.Depth + z
}

// Block returns the block at local coordinates, or Air outside the chunk.
func (c *Chunk) Block(x, y, z int) block.Block {
	if !c.inBounds(x, y, z) {
		return block.Air
	}
	return c.blocks[c.index(x, y, z)]
}

// SetBlock writes a block at local coordinates and invalidates the mesh.
// Writes outside the chunk are ignored.
func (c *Chunk) SetBlock(x, y, z int, b block.Block) {
	if !c.inBounds(x, y, z) {
		return
	}
	c.blocks[c.index(x, y, z)] = b
	c.meshValid = false
}

// IsSolid reports whether a local cell is occupied. Cells outside the chunk
// are never solid.
func (c *Chunk) IsSolid(x, y, z int) bool {
	return c.Block(x, y, z).Solid()
}

// Height returns the topmost solid Y of column (x, z), or -1 outside the chunk.
func (c *Chunk) Height(x, z int) int {
	if x < 0 || x >= c.dims.Width || z < 0 || z >= c.dims.Depth {
		return -1
	}
	return int(c.heights[x*c.dims.Depth+z])
}

// SetHeight records the topmost solid Y of column (x, z).
func (c *Chunk) SetHeight(x, z, h int) {
	if x < 0 || x >= c.dims.Width || z < 0 || z >= c.dims.Depth {
		return
	}
	c.heights[x*c.dims.Depth+z] = int32(h)
}

// Mesh returns the cached mesh, building it with b first if the cache is
// invalid. The result stays cached until MarkDirty.
func (c *Chunk) Mesh(b MeshBuilder) *mesh.Mesh {
	if !c.meshValid {
		c.mesh = b.Build(c)
		c.meshValid = true
	}
	return c.mesh
}

// MeshValid reports whether the cached mesh reflects the current voxels.
func (c *Chunk) MeshValid() bool { return c.meshValid }

// MarkDirty invalidates the cached mesh. The old mesh is dropped.
func (c *Chunk) MarkDirty() {
	c.mesh = nil
	c.meshValid = false
}
