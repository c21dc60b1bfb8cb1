package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"

	fractal "github.com/marben/fractal_engine"
)

const tileSize = 64

type tileScheduler struct {
	cfg fractal.Config
	img *image.RGBA

	// done is cancelled once every tile has been merged
	done       context.Context
	doneCancel context.CancelFunc

	totalPixels    int
	finishedPixels int
	workers        int

	unstarted []image.Rectangle
	inProcess map[image.Rectangle]struct{}

	// onTile is called for every finished tile, possibly from several
	// goroutines at once
	onTile func(tile *image.RGBA) error
	m      sync.Mutex
}

func newTileScheduler(cfg fractal.Config, onTile func(tile *image.RGBA) error) *tileScheduler {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	done, cancel := context.WithCancel(context.Background())
	tiles := splitRectNoClip(img.Bounds(), tileSize, tileSize)
	if len(tiles) == 0 {
		cancel()
	}
	return &tileScheduler{
		cfg:         cfg,
		img:         img,
		done:        done,
		doneCancel:  cancel,
		totalPixels: cfg.Width * cfg.Height,
		unstarted:   tiles,
		inProcess:   make(map[image.Rectangle]struct{}),
		onTile:      onTile,
	}
}

func (ts *tileScheduler) popTile() (tile image.Rectangle, found bool) {
	ts.m.Lock()
	defer ts.m.Unlock()

	if len(ts.unstarted) == 0 {
		return image.Rectangle{}, false
	}
	tile = ts.unstarted[0]
	ts.unstarted = ts.unstarted[1:]

	// Move popped tile to currently processed tiles
	ts.inProcess[tile] = struct{}{}
	return tile, true
}

func (ts *tileScheduler) finished() float32 {
	ts.m.Lock()
	defer ts.m.Unlock()
	if ts.totalPixels == 0 {
		return 1
	}
	return float32(ts.finishedPixels) / float32(ts.totalPixels)
}

func (ts *tileScheduler) tileFinished(tileImg *image.RGBA) error {
	rect := tileImg.Bounds()

	ts.m.Lock()
	draw.Draw(ts.img, rect, tileImg, rect.Min, draw.Src)
	if _, found := ts.inProcess[rect]; found {
		ts.finishedPixels += rect.Dx() * rect.Dy()
		delete(ts.inProcess, rect)
	}
	if len(ts.unstarted) == 0 && len(ts.inProcess) == 0 {
		ts.doneCancel()
	}
	ts.m.Unlock()

	if ts.onTile != nil {
		return ts.onTile(tileImg)
	}
	return nil
}

func (ts *tileScheduler) incActiveWorkers() {
	ts.m.Lock()
	ts.workers++
	w := ts.workers
	ts.m.Unlock()

	log.Printf("workers: %d", w)
}

func (ts *tileScheduler) decActiveWorkers() {
	ts.m.Lock()
	ts.workers--
	w := ts.workers
	ts.m.Unlock()

	log.Printf("workers: %d", w)
}

// render renders unfinished tiles on renderer until none are left.
// It can be called from multiple goroutines in parallel.
func (ts *tileScheduler) render(ctx context.Context, renderer fractal.Renderer) error {
	ts.incActiveWorkers()
	defer ts.decActiveWorkers()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tile, found := ts.popTile()
		if !found {
			return nil
		}
		tileImg, err := renderer.RenderTile(ts.cfg, tile)
		if err != nil {
			return fmt.Errorf("render of tile %s: %w", tile, err)
		}
		if err := ts.tileFinished(tileImg); err != nil {
			return err
		}
	}
}

// run renders the whole image with workers goroutines and returns it once
// every tile is merged. The first worker error cancels the others.
func (ts *tileScheduler) run(ctx context.Context, renderer fractal.Renderer, workers int) (*image.RGBA, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	for range max(workers, 1) {
		wg.Go(func() {
			if err := ts.render(ctx, renderer); err != nil {
				cancel(err)
			}
		})
	}
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}
	<-ts.done.Done()
	log.Printf("image %dx%d finished: %.0f%%", ts.cfg.Width, ts.cfg.Height, ts.finished()*100)
	return ts.img, nil
}

// tileCount returns how many tiles an image of the scheduler's size has.
func (ts *tileScheduler) tileCount() int {
	b := ts.img.Bounds()
	return ((b.Dx() + tileSize - 1) / tileSize) * ((b.Dy() + tileSize - 1) / tileSize)
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := tileH
		if oy+th > h {
			th = h - oy
		}

		for ox := 0; ox < w; ox += tileW {
			tw := tileW
			if ox+tw > w {
				tw = w - ox
			}

			tile := image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			)
			tiles = append(tiles, tile)
		}
	}

	return tiles
}
