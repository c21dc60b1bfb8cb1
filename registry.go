package fractal

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Category is a coarse grouping of algorithms for UIs.
type Category string

const (
	CategoryEscapeTime Category = "escape_time"
	CategoryNewton     Category = "newton"
	CategoryIFS        Category = "ifs"
)

// categoryOf infers a category from an algorithm id.
func categoryOf(id string) Category {
	id = strings.ToLower(id)
	switch {
	case strings.Contains(id, "newton"):
		return CategoryNewton
	case strings.Contains(id, "ifs"), strings.Contains(id, "barnsley"):
		return CategoryIFS
	default:
		return CategoryEscapeTime
	}
}

// Info is the metadata of a registered algorithm.
type Info struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Parameters  []Param  `json:"parameters"`
	Defaults    Config   `json:"defaults"`
}

// Registry maps algorithm ids to implementations. The first algorithm
// registered becomes the default. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	algorithms map[string]Algorithm
	order      []string
	defaultID  string
}

func NewRegistry() *Registry {
	return &Registry{algorithms: make(map[string]Algorithm)}
}

// NewDefaultRegistry returns a registry holding Mandelbrot (the default),
// Julia and Burning Ship.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, alg := range []Algorithm{Mandelbrot{}, Julia{}, BurningShip{}} {
		if err := r.Register(alg); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds alg under its id.
func (r *Registry) Register(alg Algorithm) error {
	if alg == nil {
		return fmt.Errorf("register: nil algorithm")
	}
	id := alg.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.algorithms[id]; found {
		return fmt.Errorf("%w: %q", ErrDuplicateAlgorithm, id)
	}
	r.algorithms[id] = alg
	r.order = append(r.order, id)
	if r.defaultID == "" {
		r.defaultID = id
	}
	Logger().Debug("fractal: registered algorithm", "id", id, "default", r.defaultID == id)
	return nil
}

// DefaultID returns the id of the first registered algorithm, or "".
func (r *Registry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

// Algorithm returns the algorithm registered under id.
func (r *Registry) Algorithm(id string) (Algorithm, error) {
	r.mu.RLock()
	alg, found := r.algorithms[id]
	r.mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	return alg, nil
}

// Algorithms returns metadata for every algorithm in registration order.
func (r *Registry) Algorithms() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		alg := r.algorithms[id]
		infos = append(infos, Info{
			ID:          id,
			Name:        alg.Name(),
			Description: alg.Description(),
			Category:    categoryOf(id),
			Parameters:  alg.Parameters(),
			Defaults:    alg.DefaultConfig(),
		})
	}
	return infos
}

// MergedConfig returns the defaults of algorithm id overridden by o.
func (r *Registry) MergedConfig(id string, o Overrides) (Config, error) {
	alg, err := r.Algorithm(id)
	if err != nil {
		return Config{}, err
	}
	return o.Apply(alg.DefaultConfig()), nil
}

// Validated looks up id and checks cfg against it. It returns
// ErrUnknownAlgorithm or a *ConfigError.
func (r *Registry) Validated(id string, cfg Config) (Algorithm, error) {
	alg, err := r.Algorithm(id)
	if err != nil {
		return nil, err
	}
	if !alg.Validate(cfg) {
		return nil, &ConfigError{AlgorithmID: id}
	}
	return alg, nil
}

// GenerateFractal validates cfg for algorithm id and renders it with Generate.
func (r *Registry) GenerateFractal(id string, cfg Config) ([]byte, error) {
	alg, err := r.Validated(id, cfg)
	if err != nil {
		return nil, err
	}
	return Generate(alg, cfg), nil
}

// GenerateFractalParallel is GenerateFractal using GenerateParallel.
func (r *Registry) GenerateFractalParallel(ctx context.Context, id string, cfg Config, workers int) ([]byte, error) {
	alg, err := r.Validated(id, cfg)
	if err != nil {
		return nil, err
	}
	return GenerateParallel(ctx, alg, cfg, workers)
}

// IteratePoint validates cfg for algorithm id and iterates a single point.
func (r *Registry) IteratePoint(id string, p Point, cfg Config) (IterationResult, error) {
	alg, err := r.Validated(id, cfg)
	if err != nil {
		return IterationResult{}, err
	}
	return alg.Iterate(p, cfg), nil
}
