package config

import "sync"

// StreamSettings holds chunk streaming configuration
type StreamSettings struct {
	mu                 sync.RWMutex
	renderDistance     int // in chunks, horizontal
	verticalRange      int // in chunks, above and below the viewer
	fullDetailDistance int // in chunks, full-LOD radius
	loadsPerTick       int
	unloadsPerTick     int
	hysteresis         int // extra chunks kept beyond the render distance
	voxelSize          float32
}

var globalStreamSettings = &StreamSettings{
	renderDistance:     6,
	verticalRange:      2,
	fullDetailDistance: 3,
	loadsPerTick:       2,
	unloadsPerTick:     4,
	hysteresis:         2,
	voxelSize:          1.0,
}

// GetRenderDistance returns the current render distance in chunks
func GetRenderDistance() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks
func SetRenderDistance(distance int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()

	// Clamp to reasonable values
	if distance < 2 {
		distance = 2
	}
	if distance > 32 {
		distance = 32
	}

	globalStreamSettings.renderDistance = distance
}

// GetVerticalRange returns the vertical streaming band half-height in chunks
func GetVerticalRange() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.verticalRange
}

// SetVerticalRange sets the vertical streaming band half-height in chunks
func SetVerticalRange(r int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()

	if r < 1 {
		r = 1
	}
	if r > 8 {
		r = 8
	}

	globalStreamSettings.verticalRange = r
}

// GetFullDetailDistance returns the radius of the full-LOD region in chunks
func GetFullDetailDistance() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.fullDetailDistance
}

// SetFullDetailDistance sets the radius of the full-LOD region in chunks
func SetFullDetailDistance(d int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()

	if d < 1 {
		d = 1
	}
	if d > 32 {
		d = 32
	}

	globalStreamSettings.fullDetailDistance = d
}

// GetLoadsPerTick returns the number of load queue entries drained per tick
func GetLoadsPerTick() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.loadsPerTick
}

// SetLoadsPerTick sets the number of load queue entries drained per tick
func SetLoadsPerTick(n int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()

	if n < 1 {
		n = 1
	}
	if n > 64 {
		n = 64
	}

	globalStreamSettings.loadsPerTick = n
}

// GetUnloadsPerTick returns the number of unload queue entries drained per tick
func GetUnloadsPerTick() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.unloadsPerTick
}

// SetUnloadsPerTick sets the number of unload queue entries drained per tick
func SetUnloadsPerTick(n int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()

	if n < 1 {
		n = 1
	}
	if n > 64 {
		n = 64
	}

	globalStreamSettings.unloadsPerTick = n
}

// GetHysteresis returns how many chunks beyond the render distance stay resident
func GetHysteresis() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.hysteresis
}

// SetHysteresis sets how many chunks beyond the render distance stay resident
func SetHysteresis(h int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()

	if h < 0 {
		h = 0
	}
	if h > 8 {
		h = 8
	}

	globalStreamSettings.hysteresis = h
}

// GetVoxelSize returns the world-space edge length of one voxel cell
func GetVoxelSize() float32 {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.voxelSize
}

// SetVoxelSize sets the world-space edge length of one voxel cell
func SetVoxelSize(s float32) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()

	if s < 0.1 {
		s = 0.1
	}
	if s > 8 {
		s = 8
	}

	globalStreamSettings.voxelSize = s
}

// GetUnloadDistance returns the radius beyond which chunks are queued for unload
func GetUnloadDistance() int {
	return GetRenderDistance() + GetHysteresis()
}
