package config

import "sync"

// LiveSettings holds the toggles that may change while the terrain runs.
// The tick loop reads them once per tick.
type LiveSettings struct {
	mu             sync.RWMutex
	smoothShading  bool
	weldVertices   bool
	chunksPerFrame int // 0 means use the loaded configuration
}

var globalLiveSettings = &LiveSettings{
	smoothShading: true,
}

// GetSmoothShading returns whether interpolated normals are kept.
func GetSmoothShading() bool {
	globalLiveSettings.mu.RLock()
	defer globalLiveSettings.mu.RUnlock()
	return globalLiveSettings.smoothShading
}

// SetSmoothShading switches between interpolated and recomputed normals.
func SetSmoothShading(enabled bool) {
	globalLiveSettings.mu.Lock()
	defer globalLiveSettings.mu.Unlock()
	globalLiveSettings.smoothShading = enabled
}

// GetWeldVertices returns whether assembly deduplicates vertices.
func GetWeldVertices() bool {
	globalLiveSettings.mu.RLock()
	defer globalLiveSettings.mu.RUnlock()
	return globalLiveSettings.weldVertices
}

// SetWeldVertices toggles vertex welding.
func SetWeldVertices(enabled bool) {
	globalLiveSettings.mu.Lock()
	defer globalLiveSettings.mu.Unlock()
	globalLiveSettings.weldVertices = enabled
}

// GetChunksPerFrame returns the live override, or 0 when none is set.
func GetChunksPerFrame() int {
	globalLiveSettings.mu.RLock()
	defer globalLiveSettings.mu.RUnlock()
	return globalLiveSettings.chunksPerFrame
}

// SetChunksPerFrame overrides scheduler.chunksPerFrame. Non-positive values
// clear the override; large values are clamped.
func SetChunksPerFrame(n int) {
	globalLiveSettings.mu.Lock()
	defer globalLiveSettings.mu.Unlock()

	if n < 0 {
		n = 0
	}
	if n > 4096 {
		n = 4096
	}
	globalLiveSettings.chunksPerFrame = n
}

// ApplyLive seeds the live toggles from a loaded configuration.
func ApplyLive(c *Config) {
	globalLiveSettings.mu.Lock()
	defer globalLiveSettings.mu.Unlock()
	globalLiveSettings.smoothShading = c.Mesh.SmoothShading
	globalLiveSettings.weldVertices = c.Mesh.WeldVertices
	globalLiveSettings.chunksPerFrame = 0
}
