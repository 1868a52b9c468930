package main

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/physics"
	"terravox/internal/profiling"
	"terravox/internal/viewer"
	"terravox/internal/world"
)

const (
	tickRate = 20
	tickStep = 1.0 / tickRate

	orbitRadius = 48.0
	orbitPeriod = 90.0 // seconds per revolution
	hoverHeight = 12.0

	editEvery  = 80 // ticks between scripted brush strokes
	statsEvery = tickRate
)

// runState owns the demo's scripted viewer path and edit schedule. The manager
// is single-goroutine, so feed control messages land in a slot the loop
// applies at the top of the next tick.
type runState struct {
	manager *world.Manager
	feed    *viewer.Feed

	viewerMu  sync.Mutex
	viewerReq *mgl32.Vec3

	strokes int
}

func (r *runState) requestViewer(pos mgl32.Vec3) {
	r.viewerMu.Lock()
	p := pos
	r.viewerReq = &p
	r.viewerMu.Unlock()
}

func (r *runState) takeViewer() (mgl32.Vec3, bool) {
	r.viewerMu.Lock()
	defer r.viewerMu.Unlock()
	if r.viewerReq == nil {
		return mgl32.Vec3{}, false
	}
	p := *r.viewerReq
	r.viewerReq = nil
	return p, true
}

// loop runs the fixed-timestep tick loop. Pacing to real time only matters
// when a feed client may be watching or the run is open-ended; a bounded
// headless run goes as fast as it can.
func (r *runState) loop(ctx context.Context, ticks int, paced bool) {
	var ticker *time.Ticker
	if paced || ticks == 0 {
		ticker = time.NewTicker(time.Second / tickRate)
		defer ticker.Stop()
	}

	manual := false
	for n := 0; ticks == 0 || n < ticks; n++ {
		select {
		case <-ctx.Done():
			fmt.Println("terravox: interrupted")
			return
		default:
		}

		profiling.Reset()

		if pos, ok := r.takeViewer(); ok {
			manual = true
			r.manager.SetViewer(pos)
		} else if !manual {
			r.manager.SetViewer(r.orbitPosition(n))
		}

		r.manager.Tick(tickStep)

		if n > 0 && n%editEvery == 0 {
			r.scriptedEdit()
		}

		if n%statsEvery == 0 {
			r.printStats(n)
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
	}

	stats := r.manager.Stats()
	fmt.Printf("done after %d ticks: resident %d, triangles %d, overlay %d\n",
		stats.Ticks, stats.Resident, stats.Triangles, stats.Edits)
}

func (r *runState) printStats(tick int) {
	stats := r.manager.Stats()
	line := fmt.Sprintf("tick %5d | resident %4d queued %4d unloads %4d triangles %7d overlay %5d",
		tick, stats.Resident, stats.Queued, stats.UnloadQueued, stats.Triangles, stats.Edits)
	if world := profiling.SumWithPrefix("world."); world > 0 {
		line += fmt.Sprintf(" | world %.1fms", float64(world.Microseconds())/1000.0)
	}
	if top := profiling.TopN(3); top != "" {
		line += " | " + top
	}
	if r.feed != nil {
		line += fmt.Sprintf(" | clients %d", r.feed.ClientCount())
	}
	fmt.Println(line)
}

// orbitPosition walks the viewer around a circle hovering above the surface.
func (r *runState) orbitPosition(tick int) mgl32.Vec3 {
	angle := 2 * math.Pi * float64(tick) * tickStep / orbitPeriod
	x := orbitRadius * math.Cos(angle)
	z := orbitRadius * math.Sin(angle)

	y := r.manager.Field().Params().GroundLevel + hoverHeight
	if h, ok := physics.SurfaceHeight(r.manager.Field(), x, z); ok {
		y = h + hoverHeight
	}
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

// scriptedEdit carves or fills at the terrain point straight below the
// viewer, alternating ops so the landscape keeps changing without drifting
// solid or hollow.
func (r *runState) scriptedEdit() {
	pos, ok := r.manager.Viewer()
	if !ok {
		return
	}
	hit := physics.Raycast(r.manager.Field(), pos, mgl32.Vec3{0, -1, 0}, physics.MaxReachDistance)
	if !hit.Hit {
		return
	}

	op := world.OpAdd
	if r.strokes%2 == 1 {
		op = world.OpSubtract
	}
	r.strokes++

	touched := r.manager.ModifyTerrain(hit.Position, 3, 4, op)
	fmt.Printf("%s brush at (%.0f, %.0f, %.0f): %d lattice points\n",
		op, hit.Position.X(), hit.Position.Y(), hit.Position.Z(), touched)
}
