package termsession

import "sync"

// RendererKind identifies a rendering backend.
type RendererKind int

const (
	// RendererUnknown means no session has recorded a backend outcome yet.
	RendererUnknown RendererKind = iota
	// RendererGPU is the GPU-accelerated backend.
	RendererGPU
	// RendererSoftware is the always-available baseline renderer.
	RendererSoftware
)

// String returns the renderer kind name.
func (k RendererKind) String() string {
	switch k {
	case RendererGPU:
		return "gpu"
	case RendererSoftware:
		return "software"
	default:
		return "unknown"
	}
}

// RendererRegistry records the last known rendering backend outcome for the
// host machine. Backend capability is a machine property, not a session
// property, so one registry is constructed per process and injected into
// every Controller. Once any session records a GPU failure, all later
// sessions skip the GPU attempt; the degradation is one-way for the life of
// the process.
type RendererRegistry struct {
	mu        sync.Mutex
	preferred RendererKind
}

// NewRendererRegistry creates a registry with no recorded outcome.
func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{}
}

// Preferred returns the recorded backend preference.
func (r *RendererRegistry) Preferred() RendererKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.preferred
}

// MarkGPU records a successful GPU attach. It never overrides a recorded
// failure: once software is preferred it stays preferred.
func (r *RendererRegistry) MarkGPU() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.preferred == RendererUnknown {
		r.preferred = RendererGPU
	}
}

// MarkSoftware records a GPU failure or context loss.
func (r *RendererRegistry) MarkSoftware() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preferred = RendererSoftware
}
