package config

import "sync"

// Holder caches a loaded Config process-wide, with an explicit Reload,
// mirroring the NL-parser availability cache in internal/nlparser.
type Holder struct {
	mu   sync.Mutex
	cfg  *Config
	path string
}

// NewHolder returns a Holder that loads from path on first Get.
func NewHolder(path string) *Holder {
	return &Holder{path: path}
}

// Get returns the cached Config, loading it on first call.
func (h *Holder) Get() (*Config, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg != nil {
		return h.cfg, nil
	}
	cfg, err := LoadFrom(h.path)
	if err != nil {
		return nil, err
	}
	h.cfg = cfg
	return h.cfg, nil
}

// Reload discards the cached Config, forcing the next Get to read from disk.
func (h *Holder) Reload() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = nil
}
