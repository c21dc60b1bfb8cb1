package fractal

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/marben/fractal_engine/palette"
)

// Generate renders cfg with alg into a new RGBA buffer of Width*Height*4 bytes,
// rows top to bottom. Every pixel is written with alpha 255. No validation is
// performed; non-positive dimensions yield an empty buffer.
func Generate(alg Algorithm, cfg Config) []byte {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return []byte{}
	}
	start := time.Now()
	logStart(alg, cfg)

	buf := make([]byte, cfg.Width*cfg.Height*4)
	m := cfg.Bounds().mapper(cfg.Width, cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		renderRow(alg, cfg, m, buf, y)
	}

	Logger().Debug("fractal: generated", "algorithm", alg.ID(), "elapsed", time.Since(start))
	return buf
}

// GenerateParallel produces the same buffer as Generate, splitting the rows into
// workers disjoint chunks computed concurrently. workers < 1 means GOMAXPROCS.
// Cancelling ctx stops the workers between rows and returns ctx.Err().
func GenerateParallel(ctx context.Context, alg Algorithm, cfg Config, workers int) ([]byte, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return []byte{}, nil
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	logStart(alg, cfg)

	buf := make([]byte, cfg.Width*cfg.Height*4)
	m := cfg.Bounds().mapper(cfg.Width, cfg.Height)

	var wg sync.WaitGroup
	for _, chunk := range rowChunks(cfg.Height, workers) {
		wg.Go(func() {
			for y := chunk.start; y < chunk.end; y++ {
				if ctx.Err() != nil {
					return
				}
				renderRow(alg, cfg, m, buf, y)
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	Logger().Debug("fractal: generated", "algorithm", alg.ID(), "workers", workers, "elapsed", time.Since(start))
	return buf, nil
}

func logStart(alg Algorithm, cfg Config) {
	l := Logger()
	if !palette.Has(cfg.Palette) {
		l.Warn("fractal: unknown palette, using default", "palette", cfg.Palette, "default", palette.Default)
	}
	l.Debug("fractal: generating", "algorithm", alg.ID(), "width", cfg.Width, "height", cfg.Height,
		"iterations", cfg.MaxIterations)
}

// shade computes the colour of pixel (px, py).
func shade(alg Algorithm, cfg Config, m pixelMapper, px, py int) palette.RGB {
	return alg.Color(alg.Iterate(m.point(px, py), cfg), cfg)
}

// renderRow writes row y of a full-image buffer.
func renderRow(alg Algorithm, cfg Config, m pixelMapper, buf []byte, y int) {
	off := y * cfg.Width * 4
	for x := 0; x < cfg.Width; x++ {
		c := shade(alg, cfg, m, x, y)
		buf[off] = c.R
		buf[off+1] = c.G
		buf[off+2] = c.B
		buf[off+3] = 255
		off += 4
	}
}

type rowRange struct {
	start, end int
}

// rowChunks splits height rows into at most n contiguous, non-empty ranges.
func rowChunks(height, n int) []rowRange {
	if n > height {
		n = height
	}
	if n < 1 {
		return nil
	}
	chunks := make([]rowRange, 0, n)
	for i := 0; i < n; i++ {
		chunks = append(chunks, rowRange{start: i * height / n, end: (i + 1) * height / n})
	}
	return chunks
}
