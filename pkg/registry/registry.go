// Package registry maps job types to the handlers that execute them.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Handler performs the work for one job type.
type Handler interface {
	Handle(ctx context.Context, payload json.RawMessage) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

func (f HandlerFunc) Handle(ctx context.Context, payload json.RawMessage) (any, error) {
	return f(ctx, payload)
}

// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register binds h to jobType, replacing any previous handler.
func (r *Registry) Register(jobType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[jobType] = h
}

func (r *Registry) RegisterFunc(jobType string, fn func(ctx context.Context, payload json.RawMessage) (any, error)) {
	r.Register(jobType, HandlerFunc(fn))
}

// RegisterDefinition registers a typed definition. The payload is decoded
// into T before the typed handler runs; a payload that does not decode
// fails the job.
//
// It is a function rather than a method because methods cannot have type parameters.
func RegisterDefinition[T any](r *Registry, def *Definition[T]) {
	r.Register(def.Type, HandlerFunc(func(ctx context.Context, payload json.RawMessage) (any, error) {
		var t T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &t); err != nil {
				return nil, fmt.Errorf("failed to decode payload for job type %q: %w", def.Type, err)
			}
		}
		return def.Handler(ctx, t)
	}))
}

// Resolve returns the handler for jobType, or false if none is registered.
func (r *Registry) Resolve(jobType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[jobType]
	return h, ok
}

// Names returns the registered job types, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
