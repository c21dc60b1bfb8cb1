package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	fractal "github.com/marben/fractal_engine"
	"github.com/marben/fractal_engine/config"
	"github.com/marben/fractal_engine/palette"
)

// webServer creates the http server with the api, websocket and static file
// endpoints.
func webServer(addr, staticDir string, reg *fractal.Registry, workers int) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/algorithms", algorithmsHandler(reg))
	mux.HandleFunc("GET /api/palettes", palettesHandler)
	mux.HandleFunc("GET /api/point", pointHandler(reg))
	mux.HandleFunc("/ws", websocketHandler(reg, workers))
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

type errorMessage struct {
	Error string `json:"error"`
}

func algorithmsHandler(reg *fractal.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reg.Algorithms())
	}
}

type paletteInfo struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

func palettesHandler(w http.ResponseWriter, r *http.Request) {
	names := palette.Names()
	infos := make([]paletteInfo, 0, len(names))
	for _, name := range names {
		ctrl, _ := palette.Controls(name)
		info := paletteInfo{Name: name, Colors: make([]string, len(ctrl))}
		for i, c := range ctrl {
			info.Colors[i] = c.Hex()
		}
		infos = append(infos, info)
	}
	writeJSON(w, http.StatusOK, infos)
}

// pointHandler iterates a single point for preview tooling:
// /api/point?algorithm=julia&re=0.1&im=-0.2&iterations=500
func pointHandler(reg *fractal.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		id := q.Get("algorithm")
		if id == "" {
			id = reg.DefaultID()
		}

		var p fractal.Point
		var o fractal.Overrides
		var err error
		if p.Real, err = strconv.ParseFloat(q.Get("re"), 64); err != nil {
			writeJSON(w, http.StatusBadRequest, errorMessage{Error: "re: " + err.Error()})
			return
		}
		if p.Imag, err = strconv.ParseFloat(q.Get("im"), 64); err != nil {
			writeJSON(w, http.StatusBadRequest, errorMessage{Error: "im: " + err.Error()})
			return
		}
		if s := q.Get("iterations"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorMessage{Error: "iterations: " + err.Error()})
				return
			}
			o.MaxIterations = &n
		}

		cfg, err := reg.MergedConfig(id, o)
		if err == nil {
			var res fractal.IterationResult
			if res, err = reg.IteratePoint(id, p, cfg); err == nil {
				writeJSON(w, http.StatusOK, res)
				return
			}
		}
		writeJSON(w, statusFor(err), errorMessage{Error: err.Error()})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fractal.ErrUnknownAlgorithm):
		return http.StatusNotFound
	case errors.Is(err, fractal.ErrInvalidConfig), errors.Is(err, fractal.ErrUnknownRegion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type renderDone struct {
	Done      bool   `json:"done"`
	Algorithm string `json:"algorithm"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Tiles     int    `json:"tiles"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// websocketHandler serves render requests. Each text message is a JSON
// config.Request; the reply is one binary message per finished tile followed
// by a renderDone (or errorMessage) text message.
func websocketHandler(reg *fractal.Registry, workers int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: restrict to the deployment origin
		})
		if err != nil {
			log.Println(err)
			return
		}
		defer c.CloseNow()

		ctx := r.Context()
		log.Printf("websocket connection from: %s", r.RemoteAddr)
		for {
			var req config.Request
			if err := wsjson.Read(ctx, c, &req); err != nil {
				if s := websocket.CloseStatus(err); s != websocket.StatusNormalClosure && s != websocket.StatusGoingAway {
					log.Printf("read request from %s: %v", r.RemoteAddr, err)
				}
				return
			}
			if err := serveRender(ctx, c, reg, req, workers); err != nil {
				log.Printf("render for %s: %v", r.RemoteAddr, err)
				return
			}
		}
	}
}

// serveRender answers one request. Request errors are reported to the client;
// only connection errors are returned.
func serveRender(ctx context.Context, c *websocket.Conn, reg *fractal.Registry, req config.Request, workers int) error {
	id, cfg, err := config.Resolve(reg, req)
	var alg fractal.Algorithm
	if err == nil {
		alg, err = reg.Validated(id, cfg)
	}
	if err != nil {
		return wsjson.Write(ctx, c, errorMessage{Error: err.Error()})
	}

	start := time.Now()
	sched := newTileScheduler(cfg, func(tile *image.RGBA) error {
		return c.Write(ctx, websocket.MessageBinary, encodeTile(tile))
	})
	if _, err := sched.run(ctx, fractal.TileRenderer{Algorithm: alg}, workers); err != nil {
		return err
	}

	return wsjson.Write(ctx, c, renderDone{
		Done:      true,
		Algorithm: id,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Tiles:     sched.tileCount(),
		ElapsedMs: time.Since(start).Milliseconds(),
	})
}

const tileHeaderSize = 16

// encodeTile packs a tile as big-endian x, y, width, height (uint32 each)
// followed by its RGBA rows.
func encodeTile(tile *image.RGBA) []byte {
	b := tile.Bounds()
	msg := make([]byte, tileHeaderSize, tileHeaderSize+b.Dx()*b.Dy()*4)
	binary.BigEndian.PutUint32(msg[0:], uint32(b.Min.X))
	binary.BigEndian.PutUint32(msg[4:], uint32(b.Min.Y))
	binary.BigEndian.PutUint32(msg[8:], uint32(b.Dx()))
	binary.BigEndian.PutUint32(msg[12:], uint32(b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := tile.PixOffset(b.Min.X, y)
		msg = append(msg, tile.Pix[off:off+b.Dx()*4]...)
	}
	return msg
}

// decodeTile is the inverse of encodeTile.
func decodeTile(msg []byte) (*image.RGBA, error) {
	if len(msg) < tileHeaderSize {
		return nil, fmt.Errorf("tile message too short: %d bytes", len(msg))
	}
	x := int(binary.BigEndian.Uint32(msg[0:]))
	y := int(binary.BigEndian.Uint32(msg[4:]))
	w := int(binary.BigEndian.Uint32(msg[8:]))
	h := int(binary.BigEndian.Uint32(msg[12:]))
	pix := msg[tileHeaderSize:]
	if len(pix) != w*h*4 {
		return nil, fmt.Errorf("tile %dx%d: got %d pixel bytes, want %d", w, h, len(pix), w*h*4)
	}
	return &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(x, y, x+w, y+h)}, nil
}
