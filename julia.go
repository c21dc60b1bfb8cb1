package fractal

import "github.com/marben/fractal_engine/palette"

// DefaultJuliaC is used whenever a configuration carries no Julia constant.
var DefaultJuliaC = Point{Real: -0.7269, Imag: 0.1889}

// JuliaPreset is a named Julia constant.
type JuliaPreset struct {
	Name string `json:"name"`
	C    Point  `json:"c"`
}

// JuliaPresets lists well known constants.
var JuliaPresets = []JuliaPreset{
	{Name: "dragon", C: Point{Real: -0.7269, Imag: 0.1889}},
	{Name: "airplane", C: Point{Real: -0.75, Imag: 0.11}},
	{Name: "spiral", C: Point{Real: -0.4, Imag: 0.6}},
	{Name: "dendrite", C: Point{Real: 0, Imag: 1}},
	{Name: "rabbit", C: Point{Real: -0.123, Imag: 0.745}},
}

// LookupJuliaPreset finds a preset by name.
func LookupJuliaPreset(name string) (Point, bool) {
	for _, p := range JuliaPresets {
		if p.Name == name {
			return p.C, true
		}
	}
	return Point{}, false
}

// Julia iterates z = z^2 + c from z = pixel, with c fixed by the configuration.
type Julia struct{}

var _ Algorithm = Julia{}

func (Julia) ID() string   { return "julia" }
func (Julia) Name() string { return "Julia Set" }
func (Julia) Description() string {
	return "z(n+1) = z(n)^2 + c, z(0) = the point being tested, c a fixed constant"
}

func (Julia) DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		CenterX:       0,
		CenterY:       0,
		Zoom:          1,
		MaxIterations: 100,
		EscapeRadius:  2,
		Palette:       "ocean",
	}.WithJuliaC(DefaultJuliaC)
}

func (j Julia) Parameters() []Param {
	def := j.DefaultConfig()
	return append(commonParams(def), Param{
		Key:     "juliaC",
		Label:   "Julia constant",
		Type:    ParamComplex,
		Min:     bound(-2),
		Max:     bound(2),
		Default: *def.JuliaC,
	})
}

func (Julia) Iterate(p Point, cfg Config) IterationResult {
	jc, ok := cfg.JuliaConstant()
	if !ok {
		jc = DefaultJuliaC
	}
	c := jc.complex()
	res := escapeTime(p.complex(), cfg.MaxIterations, cfg.EscapeRadius, func(z complex128) complex128 {
		return z*z + c
	})
	res.Metadata = map[string]any{"juliaC": jc}
	return res
}

func (Julia) Color(res IterationResult, cfg Config) palette.RGB {
	return paletteColor(res, cfg)
}

// Validate additionally requires a finite Julia constant.
func (Julia) Validate(cfg Config) bool {
	jc, ok := cfg.JuliaConstant()
	return ok && jc.IsFinite() && validBase(cfg)
}
