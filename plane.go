package fractal

import "math"

// Point is a point on the complex plane.
type Point struct {
	Real float64 `json:"real" koanf:"real"`
	Imag float64 `json:"imag" koanf:"imag"`
}

func (p Point) complex() complex128 {
	return complex(p.Real, p.Imag)
}

func pointOf(z complex128) Point {
	return Point{Real: real(z), Imag: imag(z)}
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Real) && !math.IsInf(p.Real, 0) &&
		!math.IsNaN(p.Imag) && !math.IsInf(p.Imag, 0)
}

// Bounds is the rectangle of the complex plane covered by an image.
type Bounds struct {
	MinReal float64 `json:"minReal"`
	MaxReal float64 `json:"maxReal"`
	MinImag float64 `json:"minImag"`
	MaxImag float64 `json:"maxImag"`
}

// PlaneBounds computes the view for an image of width x height pixels centred on
// (centerX, centerY). The imaginary span is 4/zoom; the real span is scaled by
// the aspect ratio so pixels stay square. zoom must be positive.
func PlaneBounds(width, height int, centerX, centerY, zoom float64) Bounds {
	vSpan := 4 / zoom
	hSpan := vSpan * float64(width) / float64(height)
	return Bounds{
		MinReal: centerX - hSpan/2,
		MaxReal: centerX + hSpan/2,
		MinImag: centerY - vSpan/2,
		MaxImag: centerY + vSpan/2,
	}
}

func (b Bounds) RealSpan() float64 { return b.MaxReal - b.MinReal }
func (b Bounds) ImagSpan() float64 { return b.MaxImag - b.MinImag }

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Point {
	return Point{Real: (b.MinReal + b.MaxReal) / 2, Imag: (b.MinImag + b.MaxImag) / 2}
}

// PixelToPoint maps pixel (px, py) of a width x height image to the plane.
// py grows downwards while the imaginary axis grows upwards.
func (b Bounds) PixelToPoint(px, py, width, height int) Point {
	return b.mapper(width, height).point(px, py)
}

// pixelMapper caches the per-pixel step of a Bounds for a fixed image size.
type pixelMapper struct {
	minReal, maxImag float64
	dx, dy           float64
}

func (b Bounds) mapper(width, height int) pixelMapper {
	return pixelMapper{
		minReal: b.MinReal,
		maxImag: b.MaxImag,
		dx:      b.RealSpan() / float64(width),
		dy:      b.ImagSpan() / float64(height),
	}
}

func (m pixelMapper) point(px, py int) Point {
	return Point{
		Real: m.minReal + float64(px)*m.dx,
		Imag: m.maxImag - float64(py)*m.dy,
	}
}
