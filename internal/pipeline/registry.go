package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

var (
	// ErrUnknownStage is returned when a configured stage has no factory.
	ErrUnknownStage = errors.New("pipeline: unknown stage")
	// ErrStageRegistered is returned when a name is registered twice.
	ErrStageRegistered = errors.New("pipeline: stage already registered")
)

// Factory constructs a stage. The logger is already scoped to the pipeline.
type Factory func(logger interfaces.Logger) (interfaces.Transformer, error)

// Registry maps configured stage names to factories. It is built explicitly
// by the caller; there is no package level registry.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	key := normalizeName(name)
	if key == "" || factory == nil {
		return fmt.Errorf("%w: %q", ErrStageRequired, name)
	}
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("%w: %s", ErrStageRegistered, key)
	}
	r.factories[key] = factory
	return nil
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the named stages in the order given.
func (r *Registry) Build(names []string, logger interfaces.Logger) ([]interfaces.Transformer, error) {
	stages := make([]interfaces.Transformer, 0, len(names))
	for _, name := range names {
		factory, ok := r.factories[normalizeName(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %s (known: %s)", ErrUnknownStage, name, strings.Join(r.Names(), ", "))
		}
		stage, err := factory(logger)
		if err != nil {
			return nil, fmt.Errorf("pipeline: build stage %s: %w", name, err)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
