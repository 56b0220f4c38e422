// Package export delivers rendered checklists to a destination: a local
// directory, an S3 bucket or a stream.
package export

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Sink stores one rendered checklist and reports where it went.
type Sink interface {
	Name() string
	Write(ctx context.Context, fileName string, data []byte) (string, error)
}

// SinkFactory builds a sink for the part of a destination after the scheme.
type SinkFactory func(ctx context.Context, target string) (Sink, error)

// Registry manages sink factories by destination scheme.
type Registry interface {
	// Register adds a new sink factory
	Register(scheme string, factory SinkFactory) error
	// Create instantiates a sink for the scheme
	Create(ctx context.Context, scheme, target string) (Sink, error)
	// ListSchemes returns the registered schemes, sorted
	ListSchemes() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]SinkFactory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]SinkFactory),
	}
}

func (r *registry) Register(scheme string, factory SinkFactory) error {
	if scheme == "" {
		return fmt.Errorf("scheme cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[scheme]; exists {
		return fmt.Errorf("scheme %q is already registered", scheme)
	}

	r.factories[scheme] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, scheme, target string) (Sink, error) {
	r.mu.RLock()
	factory, exists := r.factories[scheme]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("scheme %q is not registered", scheme)
	}

	return factory(ctx, target)
}

func (r *registry) ListSchemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemes := make([]string, 0, len(r.factories))
	for scheme := range r.factories {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

// Resolve picks a sink for a destination string. "s3://bucket/prefix" and
// "file:///dir" name their scheme; "-" is standard output; anything else is
// a local path.
func Resolve(ctx context.Context, r Registry, destination string) (Sink, error) {
	if destination == "-" {
		return r.Create(ctx, SchemeStdout, "")
	}
	if scheme, target, ok := strings.Cut(destination, "://"); ok {
		return r.Create(ctx, strings.ToLower(scheme), target)
	}
	return r.Create(ctx, SchemeFile, destination)
}
