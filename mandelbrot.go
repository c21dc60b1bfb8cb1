package fractal

import "github.com/marben/fractal_engine/palette"

// Mandelbrot iterates z = z^2 + c from z = 0, with c the pixel itself.
type Mandelbrot struct{}

var _ Algorithm = Mandelbrot{}

func (Mandelbrot) ID() string   { return "mandelbrot" }
func (Mandelbrot) Name() string { return "Mandelbrot Set" }
func (Mandelbrot) Description() string {
	return "z(n+1) = z(n)^2 + c, z(0) = 0, with c the point being tested"
}

func (Mandelbrot) DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		CenterX:       -0.5,
		CenterY:       0,
		Zoom:          1,
		MaxIterations: 100,
		EscapeRadius:  2,
		Palette:       palette.Default,
	}
}

func (m Mandelbrot) Parameters() []Param {
	return commonParams(m.DefaultConfig())
}

func (Mandelbrot) Iterate(p Point, cfg Config) IterationResult {
	c := p.complex()
	return escapeTime(0, cfg.MaxIterations, cfg.EscapeRadius, func(z complex128) complex128 {
		return z*z + c
	})
}

func (Mandelbrot) Color(res IterationResult, cfg Config) palette.RGB {
	return paletteColor(res, cfg)
}

func (Mandelbrot) Validate(cfg Config) bool {
	return validBase(cfg)
}
