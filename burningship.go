package fractal

import (
	"math"

	"github.com/marben/fractal_engine/palette"
)

// BurningShip is the Mandelbrot iteration with both components of z folded to
// their absolute values before squaring.
type BurningShip struct{}

var _ Algorithm = BurningShip{}

func (BurningShip) ID() string   { return "burning_ship" }
func (BurningShip) Name() string { return "Burning Ship" }
func (BurningShip) Description() string {
	return "z(n+1) = (|Re z(n)| + i|Im z(n)|)^2 + c, z(0) = 0"
}

func (BurningShip) DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		CenterX:       -0.5,
		CenterY:       -0.6,
		Zoom:          1,
		MaxIterations: 100,
		EscapeRadius:  2,
		Palette:       "fire",
	}
}

func (b BurningShip) Parameters() []Param {
	return commonParams(b.DefaultConfig())
}

func (BurningShip) Iterate(p Point, cfg Config) IterationResult {
	c := p.complex()
	return escapeTime(0, cfg.MaxIterations, cfg.EscapeRadius, func(z complex128) complex128 {
		f := complex(math.Abs(real(z)), math.Abs(imag(z)))
		return f*f + c
	})
}

func (BurningShip) Color(res IterationResult, cfg Config) palette.RGB {
	return paletteColor(res, cfg)
}

func (BurningShip) Validate(cfg Config) bool {
	return validBase(cfg)
}
