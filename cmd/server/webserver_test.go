package main

import (
	"context"
	"encoding/json"
	"image"
	"image/draw"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	fractal "github.com/marben/fractal_engine"
	"github.com/marben/fractal_engine/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := webServer(":0", t.TempDir(), fractal.NewDefaultRegistry(), 3)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestAlgorithmsHandler(t *testing.T) {
	ts := newTestServer(t)
	var infos []fractal.Info
	if code := getJSON(t, ts.URL+"/api/algorithms", &infos); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(infos) != 3 || infos[0].ID != "mandelbrot" {
		t.Errorf("algorithms = %+v", infos)
	}
	if infos[1].Defaults.JuliaC == nil {
		t.Error("julia defaults missing juliaC")
	}
}

func TestPalettesHandler(t *testing.T) {
	ts := newTestServer(t)
	var infos []paletteInfo
	getJSON(t, ts.URL+"/api/palettes", &infos)
	found := false
	for _, p := range infos {
		if p.Name == "rainbow" {
			found = true
			if p.Colors[0] != "#ff0000" {
				t.Errorf("rainbow first colour = %q", p.Colors[0])
			}
		}
	}
	if !found {
		t.Errorf("rainbow missing from %+v", infos)
	}
}

func TestPointHandler(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		query   string
		status  int
		escaped bool
	}{
		{"?re=0&im=0", http.StatusOK, false},
		{"?algorithm=mandelbrot&re=2&im=2", http.StatusOK, true},
		{"?algorithm=julia&re=3&im=-3&iterations=50", http.StatusOK, true},
		{"?algorithm=nope&re=0&im=0", http.StatusNotFound, false},
		{"?re=0&im=0&iterations=0", http.StatusBadRequest, false},
		{"?re=x&im=0", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		var res fractal.IterationResult
		code := getJSON(t, ts.URL+"/api/point"+tt.query, &res)
		if code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.query, code, tt.status)
			continue
		}
		if code == http.StatusOK && res.Escaped != tt.escaped {
			t.Errorf("%s: escaped = %v, want %v", tt.query, res.Escaped, tt.escaped)
		}
	}
}

func dialWS(t *testing.T, ts *httptest.Server) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.CloseNow() })
	c.SetReadLimit(1 << 22)
	return c, ctx
}

func TestWebsocketRender(t *testing.T) {
	ts := newTestServer(t)
	c, ctx := dialWS(t, ts)

	w, h, iters := 100, 70, 80
	req := config.Request{
		Algorithm: "julia",
		Config:    fractal.Overrides{Width: &w, Height: &h, MaxIterations: &iters},
	}
	if err := wsjson.Write(ctx, c, req); err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	tiles := 0
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if typ == websocket.MessageText {
			var done renderDone
			if err := json.Unmarshal(msg, &done); err != nil {
				t.Fatal(err)
			}
			if !done.Done || done.Tiles != tiles || done.Algorithm != "julia" {
				t.Errorf("done = %+v after %d tiles", done, tiles)
			}
			break
		}
		tile, err := decodeTile(msg)
		if err != nil {
			t.Fatal(err)
		}
		draw.Draw(img, tile.Bounds(), tile, tile.Bounds().Min, draw.Src)
		tiles++
	}

	cfg := fractal.Julia{}.DefaultConfig()
	cfg.Width, cfg.Height, cfg.MaxIterations = w, h, iters
	want := fractal.Generate(fractal.Julia{}, cfg)
	if string(img.Pix) != string(want) {
		t.Error("streamed image differs from Generate")
	}
}

func TestWebsocketRender_Errors(t *testing.T) {
	ts := newTestServer(t)
	c, ctx := dialWS(t, ts)

	zero := 0
	for _, req := range []config.Request{
		{Algorithm: "nope"},
		{Config: fractal.Overrides{Width: &zero}},
		{Region: "atlantis"},
	} {
		if err := wsjson.Write(ctx, c, req); err != nil {
			t.Fatal(err)
		}
		var msg errorMessage
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Error == "" {
			t.Errorf("request %+v: want error message", req)
		}
	}
	c.Close(websocket.StatusNormalClosure, "")
}
