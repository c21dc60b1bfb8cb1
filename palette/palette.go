// Package palette builds colour gradients from a few control colours and maps
// normalized iteration counts onto them.
//
// Named palettes are interpolated once at package initialisation and are
// read-only afterwards, so every function here is safe for concurrent use.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultSize is the number of entries in every named palette.
const DefaultSize = 256

// Default is the palette used when a requested name is not known.
const Default = "rainbow"

var (
	ErrTooFewColors = errors.New("palette: at least two control colours are required")
	ErrInvalidSize  = errors.New("palette: size must be at least 2")
	ErrInvalidHex   = errors.New("palette: invalid hex colour")
)

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Black marks points that never escaped.
var Black = RGB{}

// Hex returns the colour as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// RGBA returns the colour as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// ParseHex parses "#rrggbb" or "#rgb". The leading '#' is optional.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 && len(s) != 4 || strings.Trim(s[1:], "0123456789abcdefABCDEF") != "" {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrInvalidHex, s, err)
	}
	return fromColorful(c), nil
}

// Build interpolates size colours from the ordered control colours.
// The output is split into len(controls)-1 equal segments and each channel is
// blended linearly inside its segment, rounded to the nearest integer.
// The first and last entries equal the first and last control colours.
func Build(controls []RGB, size int) ([]RGB, error) {
	if len(controls) < 2 {
		return nil, ErrTooFewColors
	}
	if size < 2 {
		return nil, ErrInvalidSize
	}

	segments := len(controls) - 1
	out := make([]RGB, size)
	for i := range out {
		pos := float64(i) * float64(segments) / float64(size-1)
		seg := int(pos)
		if seg >= segments {
			seg = segments - 1
		}
		t := pos - float64(seg)
		a, b := controls[seg], controls[seg+1]
		out[i] = RGB{R: lerp(a.R, b.R, t), G: lerp(a.G, b.G, t), B: lerp(a.B, b.B, t)}
	}
	out[0] = controls[0]
	out[size-1] = controls[segments]
	return out, nil
}

// lerp blends two channel values on the 0-255 scale and rounds half away
// from zero.
func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

var controls = map[string][]RGB{
	"rainbow": {
		{255, 0, 0},
		{255, 127, 0},
		{255, 255, 0},
		{0, 255, 0},
		{0, 0, 255},
		{75, 0, 130},
		{148, 0, 211},
	},
	"fire": {
		{0, 0, 0},
		{128, 0, 0},
		{255, 0, 0},
		{255, 128, 0},
		{255, 255, 0},
		{255, 255, 255},
	},
	"ocean": {
		{0, 7, 100},
		{32, 107, 203},
		{237, 255, 255},
		{255, 170, 0},
		{0, 2, 0},
	},
	"grayscale": {
		{0, 0, 0},
		{255, 255, 255},
	},
	"electric": {
		{0, 0, 32},
		{0, 64, 255},
		{0, 255, 255},
		{255, 255, 255},
	},
	"sunset": {
		{36, 0, 70},
		{178, 34, 92},
		{255, 94, 58},
		{255, 200, 87},
	},
}

var palettes = buildAll()

func buildAll() map[string][]RGB {
	m := make(map[string][]RGB, len(controls))
	for name, c := range controls {
		p, err := Build(c, DefaultSize)
		if err != nil {
			panic(fmt.Sprintf("palette %q: %v", name, err))
		}
		m[name] = p
	}
	return m
}

// Names returns the names of all built-in palettes in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a built-in palette.
func Has(name string) bool {
	_, ok := palettes[name]
	return ok
}

// Controls returns a copy of the control colours behind a named palette.
func Controls(name string) ([]RGB, bool) {
	c, ok := controls[name]
	if !ok {
		return nil, false
	}
	return append([]RGB(nil), c...), true
}

// Lookup returns the interpolated palette for name, falling back to the
// rainbow palette for unknown names. The returned slice must not be modified.
func Lookup(name string) []RGB {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[Default]
}

// Color maps an iteration count to a palette entry.
// Points that reached maxIterations are black. Indices outside the palette
// are clamped to its ends.
func Color(iterations, maxIterations int, name string) RGB {
	if iterations >= maxIterations {
		return Black
	}
	p := Lookup(name)
	normalized := float64(iterations) / float64(maxIterations)
	idx := int(math.Floor(normalized * float64(len(p)-1)))
	idx = min(max(idx, 0), len(p)-1)
	return p[idx]
}

// ColorHex is Color formatted as "#rrggbb".
func ColorHex(iterations, maxIterations int, name string) string {
	return Color(iterations, maxIterations, name).Hex()
}
