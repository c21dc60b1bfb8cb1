package fractal

import (
	"fmt"
	"sort"
)

// Region is a rectangle of the complex plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: 0.25,
		Xmax: 0.35,
		Ymin: -0.05,
		Ymax: 0.05,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot on the antenna near -1.75
	AntennaMinibrot = Region{
		Xmin: -1.7900,
		Xmax: -1.7200,
		Ymin: -0.0350,
		Ymax: 0.0350,
	}
)

// Regions indexes the landmarks by name.
var Regions = map[string]Region{
	"seahorse-valley":      SeahorseValley,
	"elephant-valley":      ElephantValley,
	"spiral-minibrot":      SpiralMinibrot,
	"triple-spiral":        TripleSpiral,
	"valley-of-the-dragon": ValleyOfTheDragon,
	"antenna-minibrot":     AntennaMinibrot,
}

// RegionNames returns the keys of Regions in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(Regions))
	for n := range Regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupRegion finds a landmark by name.
func LookupRegion(name string) (Region, error) {
	r, ok := Regions[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
	}
	return r, nil
}

// View returns the centre and zoom that show the whole region in a
// width x height image. The region is padded along one axis when its aspect
// ratio differs from the image's.
func (r Region) View(width, height int) (center Point, zoom float64) {
	center = Point{Real: (r.Xmin + r.Xmax) / 2, Imag: (r.Ymin + r.Ymax) / 2}
	vSpan := r.Ymax - r.Ymin
	if fit := (r.Xmax - r.Xmin) * float64(height) / float64(width); fit > vSpan {
		vSpan = fit
	}
	return center, 4 / vSpan
}

// Apply returns cfg re-centred and zoomed onto r.
func (r Region) Apply(cfg Config) Config {
	center, zoom := r.View(cfg.Width, cfg.Height)
	cfg = cfg.WithCenter(center)
	cfg.Zoom = zoom
	return cfg
}
