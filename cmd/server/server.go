package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/alexflint/go-arg"

	fractal "github.com/marben/fractal_engine"
)

type args struct {
	Addr    string `arg:"--addr" default:":8080" help:"http listen address"`
	Static  string `arg:"--static" default:"./static" help:"directory served at /"`
	Workers int    `arg:"-w,--workers" help:"tile render goroutines per request, 0 uses all CPUs"`
	Verbose bool   `arg:"-v,--verbose" help:"log engine diagnostics"`
}

func (args) Description() string {
	return "Serves fractal renders over http and websocket."
}

// main is the entry point for the fractal server.
// Rendering happens on the server; clients send render requests over /ws
// and receive tiles as they finish.
func main() {
	var a args
	arg.MustParse(&a)
	if err := run(a); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run(a args) error {
	if a.Verbose {
		fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	workers := a.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	reg := fractal.NewDefaultRegistry()
	srv := webServer(a.Addr, a.Static, reg, workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on http://localhost%s", a.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
