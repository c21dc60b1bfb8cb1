package fractal

import "github.com/marben/fractal_engine/palette"

// Algorithm is one fractal family. Generate, TileRenderer and Registry drive
// every implementation through the same pixel loop.
type Algorithm interface {
	ID() string
	Name() string
	Description() string

	// DefaultConfig returns a fresh copy of the algorithm defaults.
	DefaultConfig() Config

	// Parameters describes the configurable fields for building a UI.
	Parameters() []Param

	// Iterate runs the iteration rule for a single point. It is always bounded
	// by cfg.MaxIterations and performs no validation.
	Iterate(p Point, cfg Config) IterationResult

	// Color maps an iteration result to a colour.
	Color(res IterationResult, cfg Config) palette.RGB

	// Validate reports whether cfg can be rendered by this algorithm.
	Validate(cfg Config) bool
}

// ParamType is the kind of value a Param holds.
type ParamType string

const (
	ParamInt     ParamType = "int"
	ParamFloat   ParamType = "float"
	ParamComplex ParamType = "complex"
	ParamPalette ParamType = "palette"
)

// Param describes one configurable field.
type Param struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Type    ParamType `json:"type"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
	Default any       `json:"default"`
}

func bound(v float64) *float64 { return &v }

// Upper limits accepted by Validate for the built-in algorithms.
const (
	MaxDimension     = 16384
	MaxIterationsCap = 100000
)

// commonParams lists the fields every escape-time algorithm exposes.
func commonParams(def Config) []Param {
	return []Param{
		{Key: "width", Label: "Width", Type: ParamInt, Min: bound(1), Max: bound(MaxDimension), Default: def.Width},
		{Key: "height", Label: "Height", Type: ParamInt, Min: bound(1), Max: bound(MaxDimension), Default: def.Height},
		{Key: "centerX", Label: "Center (real)", Type: ParamFloat, Default: def.CenterX},
		{Key: "centerY", Label: "Center (imaginary)", Type: ParamFloat, Default: def.CenterY},
		{Key: "zoom", Label: "Zoom", Type: ParamFloat, Min: bound(1e-6), Default: def.Zoom},
		{Key: "maxIterations", Label: "Max iterations", Type: ParamInt, Min: bound(1), Max: bound(MaxIterationsCap), Default: def.MaxIterations},
		{Key: "escapeRadius", Label: "Escape radius", Type: ParamFloat, Min: bound(1e-3), Default: def.EscapeRadius},
		{Key: "palette", Label: "Palette", Type: ParamPalette, Default: def.Palette},
	}
}

// paletteColor is the colour hook shared by the built-in algorithms.
func paletteColor(res IterationResult, cfg Config) palette.RGB {
	return palette.Color(res.Iterations, cfg.MaxIterations, cfg.Palette)
}
