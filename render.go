package fractal

import (
	"errors"
	"fmt"
	"image"
)

// TileRenderer renders tiles with a single algorithm. Its output matches the
// corresponding region of Generate byte for byte.
type TileRenderer struct {
	Algorithm Algorithm

	// OnTileRender, if set, is called before each tile is rendered.
	OnTileRender func(tile image.Rectangle)
}

var _ Renderer = TileRenderer{}

func (r TileRenderer) RenderTile(cfg Config, tile image.Rectangle) (*image.RGBA, error) {
	if r.Algorithm == nil {
		return nil, errors.New("tile renderer: no algorithm")
	}
	full := image.Rect(0, 0, cfg.Width, cfg.Height)
	if tile.Empty() || !tile.In(full) {
		return nil, fmt.Errorf("tile %s outside image %s", tile, full)
	}
	if r.OnTileRender != nil {
		r.OnTileRender(tile)
	}

	// Image has global coordinates (tile.Min .. tile.Max)
	img := image.NewRGBA(tile)
	m := cfg.Bounds().mapper(cfg.Width, cfg.Height)
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		off := img.PixOffset(tile.Min.X, py)
		for px := tile.Min.X; px < tile.Max.X; px++ {
			c := shade(r.Algorithm, cfg, m, px, py)
			img.Pix[off] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = 255
			off += 4
		}
	}
	return img, nil
}

// ToImage wraps a buffer produced by Generate without copying it.
func ToImage(buf []byte, width, height int) *image.RGBA {
	return &image.RGBA{
		Pix:    buf,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}
