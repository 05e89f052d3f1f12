package world

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/alitto/pond/v2"

	"github.com/OCharnyshevich/voxelworld/internal/engine/world/chunk"
	"github.com/OCharnyshevich/voxelworld/internal/engine/world/mesh"
)

// PrebuildMeshes builds the missing meshes of active chunks on a worker
// pool and returns how many were built. Each worker owns a mesh builder and
// a disjoint stripe of chunks. It must run between the update and draw
// phases, never concurrently with either. workers <= 0 uses GOMAXPROCS.
func (w *World) PrebuildMeshes(ctx context.Context, workers int) (int, error) {
	var pending []*chunk.Chunk
	for _, c := range w.chunks {
		if c.Active() && !c.MeshValid() {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(pending))

	var built atomic.Int64
	pool := pond.NewPool(workers)
	for i := 0; i < workers; i++ {
		stripe := i
		pool.Submit(func() {
			b := mesh.NewBuilder(w.opts.BlockSize)
			for j := stripe; j < len(pending); j += workers {
				if ctx.Err() != nil {
					return
				}
				pending[j].Mesh(b)
				built.Add(1)
			}
		})
	}
	pool.StopAndWait()

	n := int(built.Load())
	if err := ctx.Err(); err != nil {
		return n, fmt.Errorf("prebuild meshes: %w", err)
	}
	w.log.Debug("meshes prebuilt", "chunks", n, "workers", workers)
	return n, nil
}
