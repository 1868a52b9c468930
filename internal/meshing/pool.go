package meshing

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// gridPool recycles corner-sample buffers. Streaming churns through one
// ~19KB grid per chunk load, so reuse keeps that steady allocation out of
// the meshing hot path.
var gridPool = sync.Pool{
	New: func() any { return &Grid{} },
}

// AcquireGrid returns a zeroed grid from the recycle pool, growing the
// backing buffer when the requested size exceeds what was pooled.
func AcquireGrid(origin mgl32.Vec3, size int) *Grid {
	g := gridPool.Get().(*Grid)
	g.Origin = origin
	g.Size = size
	n := size + 1
	need := n * n * n
	if cap(g.Values) < need {
		g.Values = make([]float32, need)
	} else {
		g.Values = g.Values[:need]
		clear(g.Values)
	}
	return g
}

// ReleaseGrid returns a grid to the pool. The grid must not be used after
// release.
func ReleaseGrid(g *Grid) {
	if g == nil {
		return
	}
	gridPool.Put(g)
}
