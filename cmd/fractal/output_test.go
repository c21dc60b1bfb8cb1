package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 200), B: 7, A: 255})
		}
	}
	return img
}

func TestWriteImage_Lossless(t *testing.T) {
	src := testImage()
	dir := t.TempDir()
	decoders := map[string]func(*os.File) (image.Image, error){
		"out.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"out.tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	}
	for name, decode := range decoders {
		path := filepath.Join(dir, name)
		if err := writeImage(path, src); err != nil {
			t.Fatalf("writeImage(%s) error = %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		for y := 0; y < 2; y++ {
			for x := 0; x < 4; x++ {
				r1, g1, b1, _ := got.At(x, y).RGBA()
				r2, g2, b2, _ := src.At(x, y).RGBA()
				if r1 != r2 || g1 != g2 || b1 != b2 {
					t.Errorf("%s pixel (%d,%d) differs", name, x, y)
				}
			}
		}
	}
}

func TestEncoderFor(t *testing.T) {
	for _, ext := range []string{"a.png", "a.PNG", "a.jpg", "a.jpeg", "a.bmp", "a.tif", "a.tiff", "a.svg"} {
		if _, err := encoderFor(ext); err != nil {
			t.Errorf("encoderFor(%q) error = %v", ext, err)
		}
	}
	if _, err := encoderFor("a.gif"); err == nil {
		t.Error("encoderFor(a.gif): want error")
	}
	if err := writeImage(filepath.Join(t.TempDir(), "a.webp"), testImage()); err == nil {
		t.Error("writeImage(.webp): want error")
	}
}

func TestWriteSVG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 2))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for x := 0; x < 5; x++ {
		img.SetRGBA(x, 0, red)
		c := red
		if x >= 2 {
			c = blue
		}
		img.SetRGBA(x, 1, c)
	}

	var sb strings.Builder
	if err := writeSVG(&sb, img); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "<svg ") || !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("not an svg document:\n%s", out)
	}
	if n := strings.Count(out, "<rect "); n != 3 {
		t.Errorf("rects = %d, want 3:\n%s", n, out)
	}
	for _, want := range []string{
		`<rect x="0" y="0" width="5" height="1" fill="#ff0000"/>`,
		`<rect x="0" y="1" width="2" height="1" fill="#ff0000"/>`,
		`<rect x="2" y="1" width="3" height="1" fill="#0000ff"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in:\n%s", want, out)
		}
	}
}
