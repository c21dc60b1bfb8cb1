package fractal

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"github.com/marben/fractal_engine/palette"
)

func smallConfig(alg Algorithm, w, h int) Config {
	cfg := alg.DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.MaxIterations = 50
	return cfg
}

func TestGenerate_BufferSizeAndAlpha(t *testing.T) {
	for _, alg := range builtins() {
		for _, dim := range [][2]int{{1, 1}, {7, 3}, {32, 20}} {
			cfg := smallConfig(alg, dim[0], dim[1])
			buf := Generate(alg, cfg)
			if want := dim[0] * dim[1] * 4; len(buf) != want {
				t.Fatalf("%s %dx%d: len = %d, want %d", alg.ID(), dim[0], dim[1], len(buf), want)
			}
			for i := 3; i < len(buf); i += 4 {
				if buf[i] != 255 {
					t.Fatalf("%s: alpha at byte %d = %d, want 255", alg.ID(), i, buf[i])
				}
			}
		}
	}
}

func TestGenerate_PixelMatchesIterate(t *testing.T) {
	alg := Mandelbrot{}
	cfg := smallConfig(alg, 16, 12)
	buf := Generate(alg, cfg)
	b := cfg.Bounds()
	for _, px := range [][2]int{{0, 0}, {15, 11}, {8, 6}, {3, 9}} {
		res := alg.Iterate(b.PixelToPoint(px[0], px[1], cfg.Width, cfg.Height), cfg)
		want := palette.Color(res.Iterations, cfg.MaxIterations, cfg.Palette)
		off := (px[1]*cfg.Width + px[0]) * 4
		got := palette.RGB{R: buf[off], G: buf[off+1], B: buf[off+2]}
		if got != want {
			t.Errorf("pixel %v = %v, want %v", px, got, want)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := smallConfig(Julia{}, 24, 24)
	if !bytes.Equal(Generate(Julia{}, cfg), Generate(Julia{}, cfg)) {
		t.Error("Generate() is not deterministic")
	}
}

func TestGenerate_InteriorIsBlack(t *testing.T) {
	cfg := smallConfig(Mandelbrot{}, 3, 3)
	cfg.CenterX, cfg.CenterY = -0.1, 0
	cfg.Zoom = 100
	buf := Generate(Mandelbrot{}, cfg)
	for i := 0; i < len(buf); i += 4 {
		if buf[i] != 0 || buf[i+1] != 0 || buf[i+2] != 0 {
			t.Fatalf("pixel %d = %v, want black", i/4, buf[i:i+4])
		}
	}
}

func TestGenerate_DegenerateDimensions(t *testing.T) {
	cfg := Mandelbrot{}.DefaultConfig()
	cfg.Width = 0
	if got := Generate(Mandelbrot{}, cfg); len(got) != 0 {
		t.Errorf("len(Generate(width 0)) = %d, want 0", len(got))
	}
	buf, err := GenerateParallel(context.Background(), Mandelbrot{}, cfg, 4)
	if err != nil || len(buf) != 0 {
		t.Errorf("GenerateParallel(width 0) = %d bytes, %v; want 0, nil", len(buf), err)
	}
}

func TestGenerateParallel_MatchesGenerate(t *testing.T) {
	for _, alg := range builtins() {
		cfg := smallConfig(alg, 37, 29)
		want := Generate(alg, cfg)
		for _, workers := range []int{0, 1, 2, 3, 8, 100} {
			got, err := GenerateParallel(context.Background(), alg, cfg, workers)
			if err != nil {
				t.Fatalf("%s workers=%d: %v", alg.ID(), workers, err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("%s workers=%d: output differs from Generate", alg.ID(), workers)
			}
		}
	}
}

func TestGenerateParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateParallel(ctx, Mandelbrot{}, smallConfig(Mandelbrot{}, 10, 10), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GenerateParallel() error = %v, want context.Canceled", err)
	}
}

func TestRowChunks(t *testing.T) {
	tests := []struct {
		height, n, want int
	}{
		{10, 3, 3},
		{10, 1, 1},
		{3, 8, 3},
		{0, 4, 0},
	}
	for _, tt := range tests {
		chunks := rowChunks(tt.height, tt.n)
		if len(chunks) != tt.want {
			t.Errorf("rowChunks(%d, %d) = %d chunks, want %d", tt.height, tt.n, len(chunks), tt.want)
			continue
		}
		next := 0
		for _, c := range chunks {
			if c.start != next || c.end <= c.start {
				t.Errorf("rowChunks(%d, %d) = %v, not contiguous", tt.height, tt.n, chunks)
				break
			}
			next = c.end
		}
		if len(chunks) > 0 && next != tt.height {
			t.Errorf("rowChunks(%d, %d) ends at %d", tt.height, tt.n, next)
		}
	}
}

func TestTileRenderer_MatchesGenerate(t *testing.T) {
	alg := BurningShip{}
	cfg := smallConfig(alg, 40, 30)
	full := ToImage(Generate(alg, cfg), cfg.Width, cfg.Height)

	var seen []image.Rectangle
	r := TileRenderer{Algorithm: alg, OnTileRender: func(tile image.Rectangle) { seen = append(seen, tile) }}
	for _, tile := range []image.Rectangle{
		image.Rect(0, 0, 40, 30),
		image.Rect(5, 7, 21, 19),
		image.Rect(39, 29, 40, 30),
	} {
		img, err := r.RenderTile(cfg, tile)
		if err != nil {
			t.Fatalf("RenderTile(%v) error = %v", tile, err)
		}
		if img.Bounds() != tile {
			t.Errorf("RenderTile(%v) bounds = %v", tile, img.Bounds())
		}
		for y := tile.Min.Y; y < tile.Max.Y; y++ {
			for x := tile.Min.X; x < tile.Max.X; x++ {
				if got, want := img.RGBAAt(x, y), full.RGBAAt(x, y); got != want {
					t.Fatalf("tile %v pixel (%d,%d) = %v, want %v", tile, x, y, got, want)
				}
			}
		}
	}
	if len(seen) != 3 {
		t.Errorf("OnTileRender called %d times, want 3", len(seen))
	}
}

func TestTileRenderer_Errors(t *testing.T) {
	cfg := smallConfig(Mandelbrot{}, 10, 10)
	if _, err := (TileRenderer{}).RenderTile(cfg, image.Rect(0, 0, 1, 1)); err == nil {
		t.Error("RenderTile() without algorithm: want error")
	}
	r := TileRenderer{Algorithm: Mandelbrot{}}
	for _, tile := range []image.Rectangle{image.Rect(5, 5, 11, 6), image.Rect(2, 2, 2, 2), image.Rect(-1, 0, 3, 3)} {
		if _, err := r.RenderTile(cfg, tile); err == nil {
			t.Errorf("RenderTile(%v): want error", tile)
		}
	}
}

func TestToImage(t *testing.T) {
	buf := make([]byte, 3*2*4)
	buf[(1*3+2)*4] = 9
	img := ToImage(buf, 3, 2)
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(2, 1).R; got != 9 {
		t.Errorf("RGBAAt(2,1).R = %d, want 9", got)
	}
}
