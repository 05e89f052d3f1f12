package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxelworld/internal/engine/world/chunk"
)

// StreamResult summarizes one streaming update.
type StreamResult struct {
	Center  chunk.Pos
	Active  int // chunks active after the update
	Created int // chunks generated by the update
	Dropped int // coordinates skipped because the store or arena was full
}

// ChunkPosAt returns the chunk containing world position p. Coordinates
// are floor-divided by the chunk's world extent, so negative positions map
// to negative chunks.
func ChunkPosAt(p mgl32.Vec3, dims chunk.Dimensions, blockSize float32) chunk.Pos {
	return chunk.Pos{
		X: floorDiv(p.X(), float64(dims.Width)*float64(blockSize)),
		Z: floorDiv(p.Z(), float64(dims.Depth)*float64(blockSize)),
	}
}

func floorDiv(v float32, size float64) int32 {
	f := math.Floor(float64(v) / size)
	switch {
	case math.IsNaN(f):
		return 0
	case f < math.MinInt32:
		return math.MinInt32
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(f)
}

// InRadius reports whether b lies in the square of chunks within r of a.
func InRadius(a, b chunk.Pos, r int) bool {
	dx := int64(a.X) - int64(b.X)
	if dx < 0 {
		dx = -dx
	}
	dz := int64(a.Z) - int64(b.Z)
	if dz < 0 {
		dz = -dz
	}
	return dx <= int64(r) && dz <= int64(r)
}

// ChunkAt returns the chunk coordinate containing world position p.
func (w *World) ChunkAt(p mgl32.Vec3) chunk.Pos {
	return ChunkPosAt(p, w.opts.Dimensions, w.opts.BlockSize)
}

// DeactivateAll marks every tracked chunk inactive.
func (w *World) DeactivateAll() {
	for _, c := range w.chunks {
		c.SetActive(false)
	}
}

// ActivateRadius activates every chunk within radius of center, generating
// the missing ones, X outer and Z inner. Coordinates that cannot be loaded
// because the store or its arena is full are skipped and counted as
// Dropped; the update itself never fails. The warning for dropped chunks is
// logged once when dropping starts, not on every update while it lasts.
func (w *World) ActivateRadius(center chunk.Pos, radius int) StreamResult {
	res := StreamResult{Center: center}
	r := int64(radius)
	for x := int64(center.X) - r; x <= int64(center.X)+r; x++ {
		if x < math.MinInt32 || x > math.MaxInt32 {
			continue
		}
		for z := int64(center.Z) - r; z <= int64(center.Z)+r; z++ {
			if z < math.MinInt32 || z > math.MaxInt32 {
				continue
			}
			pos := chunk.Pos{X: int32(x), Z: int32(z)}
			c, ok := w.Lookup(pos)
			if !ok {
				if len(w.chunks) >= w.opts.MaxChunks {
					res.Dropped++
					continue
				}
				var err error
				if c, _, err = w.Load(pos); err != nil {
					res.Dropped++
					continue
				}
				res.Created++
			}
			c.SetActive(true)
			res.Active++
		}
	}
	if res.Dropped > 0 && !w.dropping {
		w.log.Warn("chunks dropped while streaming",
			"center", center,
			"dropped", res.Dropped,
			"chunks", len(w.chunks),
			"max_chunks", w.opts.MaxChunks,
		)
	}
	w.dropping = res.Dropped > 0
	return res
}

// UpdateStreaming recenters the active set on the chunk containing viewer:
// every chunk is deactivated, then the square of RenderRadius around the
// viewer chunk is activated.
func (w *World) UpdateStreaming(viewer mgl32.Vec3) StreamResult {
	center := w.ChunkAt(viewer)
	w.DeactivateAll()
	return w.ActivateRadius(center, w.opts.RenderRadius)
}
