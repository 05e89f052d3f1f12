// Package world owns the chunk store and streams chunks around a viewer.
//
// All chunk voxel and height storage is carved from one arena sized for
// Options.MaxChunks chunks. The store only grows; memory comes back in bulk
// through Reset or Close. A World is driven from a single goroutine.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/OCharnyshevich/voxelworld/internal/engine/world/arena"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/chunk"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/gen"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/mesh"
)

var (
	// ErrCapacity is returned by Load when the store already tracks MaxChunks chunks.
	ErrCapacity = errors.New("chunk store full")
	// ErrOptions is returned by New for unusable options.
	ErrOptions = errors.New("invalid world options")
)

// MaxArenaBytes caps the arena a World reserves up front.
const MaxArenaBytes int64 = 4 << 30

// MaxExtent caps each chunk dimension.
const MaxExtent = 1 << 12

// Options configures a World.
type Options struct {
	Dimensions   chunk.Dimensions
	MaxChunks    int
	RenderRadius int
	BlockSize    float32
}

// DefaultOptions returns a 256-chunk store of 16×384×16 chunks streamed at radius 1.
func DefaultOptions() Options {
	return Options{
		Dimensions:   chunk.DefaultDimensions,
		MaxChunks:    256,
		RenderRadius: 1,
		BlockSize:    1,
	}
}

func (o Options) validate() error {
	if err := o.Dimensions.Validate(); err != nil {
		return err
	}
	d := o.Dimensions
	if d.Width > MaxExtent || d.Height > MaxExtent || d.Depth > MaxExtent {
		return fmt.Errorf("dimensions %dx%dx%d exceed %d: %w", d.Width, d.Height, d.Depth, MaxExtent, ErrOptions)
	}
	if o.MaxChunks <= 0 {
		return fmt.Errorf("max chunks %d: %w", o.MaxChunks, ErrOptions)
	}
	footprint := chunk.Footprint(d)
	if o.MaxChunks > math.MaxInt/footprint || int64(o.MaxChunks)*int64(footprint) > MaxArenaBytes {
		return fmt.Errorf("max chunks %d of %d bytes exceed the %d byte arena limit: %w",
			o.MaxChunks, footprint, MaxArenaBytes, ErrOptions)
	}
	if o.RenderRadius < 0 {
		return fmt.Errorf("render radius %d: %w", o.RenderRadius, ErrOptions)
	}
	if !(o.BlockSize > 0) {
		return fmt.Errorf("block size %v: %w", o.BlockSize, ErrOptions)
	}
	return nil
}

// World is the arena-backed chunk store.
type World struct {
	opts Options
	gen  gen.Generator
	log  *slog.Logger

	arena  *arena.Arena
	chunks []*chunk.Chunk
	index  map[chunk.Pos]int
	active []*chunk.Chunk

	builder *mesh.Builder

	// dropping is set while streaming updates skip coordinates for lack of capacity.
	dropping bool
}

// New creates a World and reserves its arena up front.
func New(opts Options, g gen.Generator, log *slog.Logger) (*World, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("new world: nil generator: %w", ErrOptions)
	}
	if log == nil {
		log = slog.Default()
	}

	footprint := chunk.Footprint(opts.Dimensions)
	a, err := arena.New(opts.MaxChunks * footprint)
	if err != nil {
		return nil, fmt.Errorf("new world arena: %w", err)
	}

	log.Info("world arena reserved",
		"size", humanize.IBytes(uint64(a.Cap())),
		"per_chunk", humanize.IBytes(uint64(footprint)),
		"max_chunks", opts.MaxChunks,
	)

	return &World{
		opts:    opts,
		gen:     g,
		log:     log,
		arena:   a,
		chunks:  make([]*chunk.Chunk, 0, opts.MaxChunks),
		index:   make(map[chunk.Pos]int, opts.MaxChunks),
		active:  make([]*chunk.Chunk, 0, opts.MaxChunks),
		builder: mesh.NewBuilder(opts.BlockSize),
	}, nil
}

// Options returns the options the World was created with.
func (w *World) Options() Options { return w.opts }

// Lookup returns the tracked chunk at pos, if any.
func (w *World) Lookup(pos chunk.Pos) (*chunk.Chunk, bool) {
	i, ok := w.index[pos]
	if !ok {
		return nil, false
	}
	return w.chunks[i], true
}

// Load returns the chunk at pos, generating it into the arena first if it
// is not tracked yet. created reports whether generation happened. A new
// chunk starts active with an invalid mesh.
func (w *World) Load(pos chunk.Pos) (c *chunk.Chunk, created bool, err error) {
	if c, ok := w.Lookup(pos); ok {
		return c, false, nil
	}
	if len(w.chunks) >= w.opts.MaxChunks {
		return nil, false, fmt.Errorf("load chunk %s: %w", pos, ErrCapacity)
	}

	c, err = chunk.FromArena(w.arena, pos, w.opts.Dimensions)
	if err != nil {
		return nil, false, fmt.Errorf("load chunk %s: %w", pos, err)
	}
	w.gen.Generate(c)
	c.SetActive(true)

	w.index[pos] = len(w.chunks)
	w.chunks = append(w.chunks, c)
	return c, true, nil
}

// Mesh returns c's mesh, building it on the World's builder if needed.
func (w *World) Mesh(c *chunk.Chunk) *mesh.Mesh {
	return c.Mesh(w.builder)
}

// Chunks returns every tracked chunk in load order. The slice is owned by
// the World and must not be modified.
func (w *World) Chunks() []*chunk.Chunk { return w.chunks }

// Active returns the active chunks in load order. The slice is reused by
// the next call.
func (w *World) Active() []*chunk.Chunk {
	w.active = w.active[:0]
	for _, c := range w.chunks {
		if c.Active() {
			w.active = append(w.active, c)
		}
	}
	return w.active
}

// ForEachActive calls fn for every active chunk in load order.
func (w *World) ForEachActive(fn func(c *chunk.Chunk)) {
	for _, c := range w.chunks {
		if c.Active() {
			fn(c)
		}
	}
}

// Count returns the number of tracked chunks.
func (w *World) Count() int { return len(w.chunks) }

// Capacity returns the maximum number of tracked chunks.
func (w *World) Capacity() int { return w.opts.MaxChunks }

// ArenaUsed returns the arena bytes handed out to chunks.
func (w *World) ArenaUsed() int { return w.arena.Used() }

// ArenaCap returns the arena size in bytes.
func (w *World) ArenaCap() int { return w.arena.Cap() }

// SpawnHeight returns the terrain height at block (0, 0) plus one.
func (w *World) SpawnHeight() int {
	return w.gen.HeightAt(0, 0) + 1
}

// Reset forgets every chunk and rewinds the arena for reuse.
func (w *World) Reset() {
	clear(w.index)
	clear(w.chunks)
	w.chunks = w.chunks[:0]
	clear(w.active)
	w.active = w.active[:0]
	w.arena.Reset()
	w.dropping = false
	w.log.Debug("world reset")
}

// Close releases the arena. The World must not be used afterwards.
func (w *World) Close() {
	w.Reset()
	w.arena.Free()
}
