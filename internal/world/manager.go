package world

import (
	"log"
	"math"
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/config"
	"terravox/internal/meshing"
	"terravox/internal/profiling"
)

// maxPending caps the load queue so a huge render distance cannot balloon
// bookkeeping; discovery re-finds skipped chunks on later ticks.
const maxPending = 16384

// ManagerStats is a point-in-time summary for status lines and tests.
type ManagerStats struct {
	Resident     int
	Queued       int
	UnloadQueued int
	Triangles    int
	Edits        int
	Ticks        uint64
	Elapsed      float64
}

// Manager owns the resident chunk set. Each Tick it discovers chunks the
// viewer should have and retires chunks it should not, both through bounded
// FIFO queues so load and unload work is spread across ticks, then refreshes
// LOD levels.
//
// All mutation happens on the caller's goroutine; the only internal
// concurrency is the worker pool that fills density grids plane-parallel
// during meshing.
type Manager struct {
	field   *Field
	sampler meshing.Sampler
	store   *ChunkStore

	viewer    mgl32.Vec3
	hasViewer bool

	loadQueue []ChunkCoord
	pending   map[ChunkCoord]struct{}

	unloadQueue   []ChunkCoord
	pendingUnload map[ChunkCoord]struct{}

	pool pond.Pool

	onMeshUpdated   []func(*Chunk)
	onChunkUnloaded []func(ChunkCoord)

	ticks   uint64
	elapsed float64
}

// NewManager creates a manager streaming chunks of the given field.
func NewManager(field *Field) *Manager {
	return &Manager{
		field:         field,
		sampler:       field,
		store:         NewChunkStore(),
		pending:       make(map[ChunkCoord]struct{}),
		pendingUnload: make(map[ChunkCoord]struct{}),
		pool:          pond.NewPool(runtime.NumCPU()),
	}
}

// Close stops the meshing workers. The manager must not be ticked afterwards.
func (m *Manager) Close() {
	m.pool.StopAndWait()
}

// Field returns the density field the manager streams.
func (m *Manager) Field() *Field {
	return m.field
}

// Store returns the resident chunk set.
func (m *Manager) Store() *ChunkStore {
	return m.store
}

// SetViewer moves the streaming center. Until the first call the manager
// idles: no loads, no unloads.
func (m *Manager) SetViewer(pos mgl32.Vec3) {
	m.viewer = pos
	m.hasViewer = true
}

// Viewer returns the current streaming center, if one has been set.
func (m *Manager) Viewer() (mgl32.Vec3, bool) {
	return m.viewer, m.hasViewer
}

// OnMeshUpdated registers a callback fired whenever a chunk gains a new mesh
// or changes LOD. Callbacks run synchronously on the ticking goroutine.
func (m *Manager) OnMeshUpdated(fn func(*Chunk)) {
	m.onMeshUpdated = append(m.onMeshUpdated, fn)
}

// OnChunkUnloaded registers a callback fired when a chunk leaves residency.
func (m *Manager) OnChunkUnloaded(fn func(ChunkCoord)) {
	m.onChunkUnloaded = append(m.onChunkUnloaded, fn)
}

// Stats returns a snapshot of streaming counters.
func (m *Manager) Stats() ManagerStats {
	return ManagerStats{
		Resident:     m.store.Count(),
		Queued:       len(m.pending),
		UnloadQueued: len(m.pendingUnload),
		Triangles:    m.store.TotalTriangles(),
		Edits:        m.field.EditCount(),
		Ticks:        m.ticks,
		Elapsed:      m.elapsed,
	}
}

// Tick advances the streaming state by one step of dt seconds.
func (m *Manager) Tick(dt float64) {
	defer profiling.Track("world.ManagerTick")()

	m.ticks++
	m.elapsed += dt
	if !m.hasViewer {
		return
	}

	m.enqueuePass()
	m.drainLoads()
	m.queueUnloads()
	m.drainUnloads()
	m.refreshLOD()
	m.remeshDirty()
}

// enqueuePass walks rings outward from the viewer chunk and queues missing
// chunks inside the render disc and vertical band viewer-first.
func (m *Manager) enqueuePass() {
	defer profiling.Track("world.EnqueuePass")()

	vc := ChunkCoordAt(m.viewer)
	radius := config.GetRenderDistance()

	for r := 0; r <= radius; r++ {
		if r == 0 {
			m.requestColumn(vc, 0, 0, radius)
			continue
		}
		x0, x1 := -r, r
		z0, z1 := -r, r
		for dx := x0; dx <= x1; dx++ {
			m.requestColumn(vc, dx, z0, radius)
		}
		for dz := z0 + 1; dz <= z1-1; dz++ {
			m.requestColumn(vc, x1, dz, radius)
		}
		for dx := x1; dx >= x0; dx-- {
			m.requestColumn(vc, dx, z1, radius)
		}
		for dz := z1 - 1; dz >= z0+1; dz-- {
			m.requestColumn(vc, x0, dz, radius)
		}
	}
}

// requestColumn queues the vertical band of one (dx, dz) column if the
// column lies inside the render disc.
func (m *Manager) requestColumn(vc ChunkCoord, dx, dz, radius int) {
	if dx*dx+dz*dz > radius*radius {
		return
	}
	vr := config.GetVerticalRange()
	for dy := -vr; dy <= vr; dy++ {
		m.requestChunk(ChunkCoord{X: vc.X + dx, Y: vc.Y + dy, Z: vc.Z + dz})
	}
}

// requestChunk appends a coordinate to the load queue unless it is already
// resident, already queued, or the queue is at capacity.
func (m *Manager) requestChunk(coord ChunkCoord) bool {
	if m.store.Has(coord) {
		return false
	}
	if _, ok := m.pending[coord]; ok {
		return false
	}
	if len(m.pending) >= maxPending {
		return false
	}
	m.pending[coord] = struct{}{}
	m.loadQueue = append(m.loadQueue, coord)
	return true
}

// drainLoads pops queued coordinates in FIFO order and loads up to the
// per-tick budget. Entries that became resident, were canceled, or drifted
// out of range since they were queued are discarded without spending budget.
func (m *Manager) drainLoads() {
	defer profiling.Track("world.DrainLoads")()

	vc := ChunkCoordAt(m.viewer)
	budget := config.GetLoadsPerTick()
	for budget > 0 && len(m.loadQueue) > 0 {
		coord := m.loadQueue[0]
		m.loadQueue = m.loadQueue[1:]
		if _, ok := m.pending[coord]; !ok {
			continue
		}
		delete(m.pending, coord)
		if m.store.Has(coord) || !m.retained(coord, vc) {
			continue
		}
		m.LoadChunk(coord)
		budget--
	}
}

// retained reports whether a coordinate lies inside the retention volume: the
// render disc plus the hysteresis margin horizontally, the vertical band plus
// the same margin vertically. Queued loads outside it are stale; resident
// chunks outside it are queued for unload.
func (m *Manager) retained(coord, vc ChunkCoord) bool {
	dx := coord.X - vc.X
	dz := coord.Z - vc.Z
	dy := coord.Y - vc.Y
	keep := config.GetUnloadDistance()
	keepY := config.GetVerticalRange() + config.GetHysteresis()
	return dx*dx+dz*dz <= keep*keep && dy >= -keepY && dy <= keepY
}

// LoadChunk synchronously generates, meshes and installs the chunk at coord.
// Loading an already-resident coordinate returns the existing chunk untouched.
func (m *Manager) LoadChunk(coord ChunkCoord) *Chunk {
	if existing := m.store.Get(coord); existing != nil {
		return existing
	}

	chunk := NewChunk(coord)
	m.meshChunk(chunk)
	m.store.Add(chunk)
	m.notifyMesh(chunk)
	return chunk
}

// UnloadChunk evicts the chunk at coord and cancels any queued load or unload
// for it. Unloading a non-resident coordinate is a no-op. Reports whether a
// resident chunk was actually evicted.
func (m *Manager) UnloadChunk(coord ChunkCoord) bool {
	delete(m.pending, coord)
	delete(m.pendingUnload, coord)
	if !m.store.Remove(coord) {
		return false
	}
	for _, fn := range m.onChunkUnloaded {
		fn(coord)
	}
	return true
}

// queueUnloads queues resident chunks beyond the retention volume for
// eviction. Retention exceeds the load volume by the hysteresis margin so a
// viewer oscillating near a boundary does not thrash load/unload cycles.
func (m *Manager) queueUnloads() {
	defer profiling.Track("world.QueueUnloads")()

	vc := ChunkCoordAt(m.viewer)
	for _, chunk := range m.store.All() {
		if !m.retained(chunk.Coord, vc) {
			m.requestUnload(chunk.Coord)
		}
	}
}

// requestUnload appends a coordinate to the unload queue unless it is already
// there, canceling any queued load for it first. A coordinate is never in
// both queues at once.
func (m *Manager) requestUnload(coord ChunkCoord) {
	if _, ok := m.pendingUnload[coord]; ok {
		return
	}
	delete(m.pending, coord)
	m.pendingUnload[coord] = struct{}{}
	m.unloadQueue = append(m.unloadQueue, coord)
}

// drainUnloads pops queued coordinates in FIFO order and evicts up to the
// per-tick budget. Entries that were evicted by hand or drifted back inside
// the retention volume since they were queued are discarded without spending
// budget.
func (m *Manager) drainUnloads() {
	defer profiling.Track("world.DrainUnloads")()

	vc := ChunkCoordAt(m.viewer)
	budget := config.GetUnloadsPerTick()
	for budget > 0 && len(m.unloadQueue) > 0 {
		coord := m.unloadQueue[0]
		m.unloadQueue = m.unloadQueue[1:]
		if _, ok := m.pendingUnload[coord]; !ok {
			continue
		}
		delete(m.pendingUnload, coord)
		if !m.store.Has(coord) || m.retained(coord, vc) {
			continue
		}
		m.UnloadChunk(coord)
		budget--
	}
}

// refreshLOD reassigns presentation levels from horizontal viewer distance.
// Transitions flip the wireframe flag but never force a re-mesh.
func (m *Manager) refreshLOD() {
	defer profiling.Track("world.RefreshLOD")()

	vc := ChunkCoordAt(m.viewer)
	full := config.GetFullDetailDistance()
	render := config.GetRenderDistance()
	for _, chunk := range m.store.All() {
		dx := chunk.Coord.X - vc.X
		dz := chunk.Coord.Z - vc.Z
		d2 := dx*dx + dz*dz

		lod := LODInvisible
		switch {
		case d2 <= full*full:
			lod = LODFull
		case d2 <= render*render:
			lod = LODReduced
		}
		if chunk.LOD == lod {
			continue
		}
		chunk.LOD = lod
		if chunk.Mesh != nil {
			chunk.Mesh.Wireframe = lod == LODReduced
		}
		m.notifyMesh(chunk)
	}
}

// remeshDirty re-meshes chunks marked dirty by hand, up to the per-tick load
// budget.
func (m *Manager) remeshDirty() {
	budget := config.GetLoadsPerTick()
	for _, chunk := range m.store.All() {
		if budget == 0 {
			return
		}
		if !chunk.IsDirty() {
			continue
		}
		m.meshChunk(chunk)
		m.notifyMesh(chunk)
		budget--
	}
}

// ModifyTerrain applies a brush to the field and synchronously re-meshes the
// resident chunks whose corner grids overlap the edited lattice region.
// Chunks that are not resident are skipped; they pick the edit up from the
// field whenever they load. Returns the number of lattice points touched.
func (m *Manager) ModifyTerrain(point mgl32.Vec3, radius, strength float32, op EditOp) int {
	defer profiling.Track("world.ModifyTerrain")()

	touched := m.field.Modify(point, radius, strength, op)
	if touched == 0 {
		return 0
	}

	px, py, pz := float64(point.X()), float64(point.Y()), float64(point.Z())
	r := float64(radius)
	x0, x1 := int(math.Ceil(px-r)), int(math.Floor(px+r))
	y0, y1 := int(math.Ceil(py-r)), int(math.Floor(py+r))
	z0, z1 := int(math.Ceil(pz-r)), int(math.Floor(pz+r))

	// A chunk's corner grid spans [16c, 16c+16], so lattice point p lands in
	// chunks floorDiv(p-1, 16) through floorDiv(p, 16).
	for cx := floorDiv(x0-1, ChunkSize); cx <= floorDiv(x1, ChunkSize); cx++ {
		for cy := floorDiv(y0-1, ChunkSize); cy <= floorDiv(y1, ChunkSize); cy++ {
			for cz := floorDiv(z0-1, ChunkSize); cz <= floorDiv(z1, ChunkSize); cz++ {
				chunk := m.store.Get(ChunkCoord{X: cx, Y: cy, Z: cz})
				if chunk == nil {
					continue
				}
				m.meshChunk(chunk)
				m.notifyMesh(chunk)
			}
		}
	}
	return touched
}

// meshChunk rebuilds the chunk's mesh from the field. Grid planes fill in
// parallel on the worker pool; a panic out of the sampler downgrades the
// chunk to an empty mesh instead of taking the whole tick down.
func (m *Manager) meshChunk(chunk *Chunk) {
	defer profiling.Track("world.MeshChunk")()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("world: meshing chunk %v failed: %v", chunk.Coord, r)
			chunk.Mesh = &meshing.Mesh{Wireframe: chunk.LOD == LODReduced}
			chunk.Version++
			chunk.SetClean()
		}
	}()

	grid := meshing.AcquireGrid(chunk.Coord.Origin(), ChunkSize)
	defer meshing.ReleaseGrid(grid)

	group := m.pool.NewGroup()
	for x := 0; x <= ChunkSize; x++ {
		x := x
		group.Submit(func() {
			grid.FillPlane(m.sampler, x)
		})
	}
	// The pool recovers worker panics and hands them back as the group error.
	// Re-raising here routes a poisoned fill through the recovery above
	// instead of marching a half-filled grid.
	if err := group.Wait(); err != nil {
		panic(err)
	}

	mesh := meshing.March(m.sampler, grid)
	mesh.Wireframe = chunk.LOD == LODReduced
	chunk.Mesh = mesh
	chunk.Version++
	chunk.SetClean()
}

func (m *Manager) notifyMesh(chunk *Chunk) {
	for _, fn := range m.onMeshUpdated {
		fn(chunk)
	}
}
