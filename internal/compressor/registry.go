package compressor

import (
	"fmt"
	"strings"
	"sync"
)

type entry struct {
	name    string
	factory Factory
}

// Registry maps compressor names to factories. Names are matched in
// registration order and the first match wins.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a registry holding the built-in compressors.
func Default() *Registry {
	r := NewRegistry()
	r.Register("gzip", NewGzip)
	r.Register("zlib", NewZlib)
	r.Register("deflate", NewDeflate)
	r.Register("zstd", NewZstd)
	r.Register("snappy", NewSnappy)
	r.Register("s2", NewS2)
	return r
}

// Register appends a factory under name. A later registration with the same
// name is kept but never returned by Get.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry{name: name, factory: factory})
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Get builds the first compressor registered under name.
func (r *Registry) Get(name string, opts Options) (Compressor, error) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.name == name {
			c, err := e.factory(opts)
			if err != nil {
				return nil, fmt.Errorf("create compressor %s: %w", name, err)
			}
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCompressor, name)
}
