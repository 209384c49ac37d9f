package detect

import (
	"fmt"
	"strings"
	"sync"
)

type DetectorFactory func() (Detector, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]DetectorFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]DetectorFactory)}
}

func (r *Registry) Register(name string, f DetectorFactory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(name string) (Detector, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown detector: %s", name)
	}
	return f()
}
