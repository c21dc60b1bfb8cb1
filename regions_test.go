package fractal

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func TestRegion_ViewContainsRegion(t *testing.T) {
	for _, name := range RegionNames() {
		r := Regions[name]
		for _, dim := range [][2]int{{1920, 1080}, {600, 800}, {500, 500}} {
			cfg := r.Apply(Config{Width: dim[0], Height: dim[1]})
			b := cfg.Bounds()
			const tol = 1e-9
			if b.MinReal > r.Xmin+tol || b.MaxReal < r.Xmax-tol || b.MinImag > r.Ymin+tol || b.MaxImag < r.Ymax-tol {
				t.Errorf("%s %v: bounds %+v do not contain region %+v", name, dim, b, r)
			}
			// One axis fits exactly.
			if math.Abs(b.RealSpan()-(r.Xmax-r.Xmin)) > tol && math.Abs(b.ImagSpan()-(r.Ymax-r.Ymin)) > tol {
				t.Errorf("%s %v: neither axis fits tightly: %+v", name, dim, b)
			}
		}
	}
}

func TestRegion_ViewCenter(t *testing.T) {
	center, zoom := Region{Xmin: -2, Xmax: 2, Ymin: -2, Ymax: 2}.View(100, 100)
	if center != (Point{0, 0}) || zoom != 1 {
		t.Errorf("View() = %+v, %v; want origin, 1", center, zoom)
	}
}

func TestLookupRegion(t *testing.T) {
	names := RegionNames()
	if !sort.StringsAreSorted(names) || len(names) != len(Regions) {
		t.Errorf("RegionNames() = %v", names)
	}
	r, err := LookupRegion("seahorse-valley")
	if err != nil || r != SeahorseValley {
		t.Errorf("LookupRegion(seahorse-valley) = %+v, %v", r, err)
	}
	if _, err := LookupRegion("atlantis"); !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("LookupRegion(atlantis) error = %v, want ErrUnknownRegion", err)
	}
}
