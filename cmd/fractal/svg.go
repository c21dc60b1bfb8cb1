package main

import (
	"bufio"
	"fmt"
	"image"
	"io"

	"github.com/marben/fractal_engine/palette"
)

// writeSVG emits one <rect> per horizontal run of equal colours.
func writeSVG(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`+"\n",
		b.Dx(), b.Dy(), b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		runStart := b.Min.X
		for x := b.Min.X + 1; x <= b.Max.X; x++ {
			if x < b.Max.X && img.RGBAAt(x, y) == img.RGBAAt(runStart, y) {
				continue
			}
			c := img.RGBAAt(runStart, y)
			fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%d" height="1" fill="%s"/>`+"\n",
				runStart-b.Min.X, y-b.Min.Y, x-runStart, palette.RGB{R: c.R, G: c.G, B: c.B}.Hex())
			runStart = x
		}
	}
	fmt.Fprintln(bw, "</svg>")
	return bw.Flush()
}
