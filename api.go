package fractal

import (
	"image"
)

// Renderer renders one rectangle of the full image described by cfg.
// Rectangles are in full-image pixel coordinates.
type Renderer interface {
	RenderTile(cfg Config, tile image.Rectangle) (*image.RGBA, error)
}
