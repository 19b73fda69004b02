package config

import "sync"

// RenderSettings holds toggles changed at runtime from the viewer.
type RenderSettings struct {
	mu        sync.RWMutex
	wireframe bool
	showStats bool
}

var globalRenderSettings = &RenderSettings{}

// GetWireframeMode reports whether chunks are drawn as lines.
func GetWireframeMode() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.wireframe
}

// ToggleWireframeMode flips wireframe drawing and returns the new state.
func ToggleWireframeMode() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframe = !globalRenderSettings.wireframe
	return globalRenderSettings.wireframe
}

// GetShowStats reports whether per-second profiling stats are logged.
func GetShowStats() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.showStats
}

// SetShowStats enables or disables stats logging.
func SetShowStats(on bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.showStats = on
}
