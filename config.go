package fractal

import "math"

// Config is everything needed to render one image. It is a value: derive new
// configurations with Overrides.Apply or the With* helpers instead of
// mutating shared ones.
type Config struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	CenterX       float64 `json:"centerX"`
	CenterY       float64 `json:"centerY"`
	Zoom          float64 `json:"zoom"`
	MaxIterations int     `json:"maxIterations"`
	EscapeRadius  float64 `json:"escapeRadius"`
	Palette       string  `json:"palette"`

	// JuliaC is the Julia constant. nil means not set.
	JuliaC *Point `json:"juliaC,omitempty"`
}

// Bounds returns the plane bounds viewed by c.
func (c Config) Bounds() Bounds {
	return PlaneBounds(c.Width, c.Height, c.CenterX, c.CenterY, c.Zoom)
}

// JuliaConstant returns the Julia constant if one is set.
func (c Config) JuliaConstant() (Point, bool) {
	if c.JuliaC == nil {
		return Point{}, false
	}
	return *c.JuliaC, true
}

// HasJuliaConstant reports whether c carries a Julia constant.
func HasJuliaConstant(c Config) bool {
	return c.JuliaC != nil
}

// WithJuliaC returns a copy of c using p as the Julia constant.
func (c Config) WithJuliaC(p Point) Config {
	c.JuliaC = &p
	return c
}

// WithCenter returns a copy of c centred on p.
func (c Config) WithCenter(p Point) Config {
	c.CenterX, c.CenterY = p.Real, p.Imag
	return c
}

// validBase checks the fields shared by every escape-time algorithm.
func validBase(c Config) bool {
	return c.Width > 0 && c.Width <= MaxDimension &&
		c.Height > 0 && c.Height <= MaxDimension &&
		c.MaxIterations > 0 && c.MaxIterations <= MaxIterationsCap &&
		c.EscapeRadius > 0 && !math.IsInf(c.EscapeRadius, 0) &&
		c.Zoom > 0 && !math.IsInf(c.Zoom, 0) &&
		Point{c.CenterX, c.CenterY}.IsFinite()
}

// Overrides is a partial Config. Nil fields leave the base value untouched.
type Overrides struct {
	Width         *int     `json:"width,omitempty" koanf:"width"`
	Height        *int     `json:"height,omitempty" koanf:"height"`
	CenterX       *float64 `json:"centerX,omitempty" koanf:"centerx"`
	CenterY       *float64 `json:"centerY,omitempty" koanf:"centery"`
	Zoom          *float64 `json:"zoom,omitempty" koanf:"zoom"`
	MaxIterations *int     `json:"maxIterations,omitempty" koanf:"iterations"`
	EscapeRadius  *float64 `json:"escapeRadius,omitempty" koanf:"escaperadius"`
	Palette       *string  `json:"palette,omitempty" koanf:"palette"`
	JuliaC        *Point   `json:"juliaC,omitempty" koanf:"juliac"`
}

// Apply returns base with every set field of o replacing the base value.
// The merge is shallow: JuliaC is replaced as a whole.
func (o Overrides) Apply(base Config) Config {
	if o.Width != nil {
		base.Width = *o.Width
	}
	if o.Height != nil {
		base.Height = *o.Height
	}
	if o.CenterX != nil {
		base.CenterX = *o.CenterX
	}
	if o.CenterY != nil {
		base.CenterY = *o.CenterY
	}
	if o.Zoom != nil {
		base.Zoom = *o.Zoom
	}
	if o.MaxIterations != nil {
		base.MaxIterations = *o.MaxIterations
	}
	if o.EscapeRadius != nil {
		base.EscapeRadius = *o.EscapeRadius
	}
	if o.Palette != nil {
		base.Palette = *o.Palette
	}
	if o.JuliaC != nil {
		base = base.WithJuliaC(*o.JuliaC)
	}
	return base
}

// Merge layers top over o: fields set in top win.
func (o Overrides) Merge(top Overrides) Overrides {
	if top.Width != nil {
		o.Width = top.Width
	}
	if top.Height != nil {
		o.Height = top.Height
	}
	if top.CenterX != nil {
		o.CenterX = top.CenterX
	}
	if top.CenterY != nil {
		o.CenterY = top.CenterY
	}
	if top.Zoom != nil {
		o.Zoom = top.Zoom
	}
	if top.MaxIterations != nil {
		o.MaxIterations = top.MaxIterations
	}
	if top.EscapeRadius != nil {
		o.EscapeRadius = top.EscapeRadius
	}
	if top.Palette != nil {
		o.Palette = top.Palette
	}
	if top.JuliaC != nil {
		o.JuliaC = top.JuliaC
	}
	return o
}
