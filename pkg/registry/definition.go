package registry

import "context"

// Definition is a typed handler for one job type. T must be JSON-decodable.
type Definition[T any] struct {
	Type    string
	Handler func(ctx context.Context, payload T) (any, error)
}

func NewDefinition[T any](jobType string, handler func(ctx context.Context, payload T) (any, error)) *Definition[T] {
	return &Definition[T]{
		Type:    jobType,
		Handler: handler,
	}
}
