// Command fractal renders an escape-time fractal to an image file.
// Configuration is layered: algorithm defaults, an optional config file,
// FRACTAL_* environment variables, then command line flags.
package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/pkg/profile"
	"golang.org/x/image/draw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	fractal "github.com/marben/fractal_engine"
	"github.com/marben/fractal_engine/config"
)

const envPrefix = "FRACTAL_"

type args struct {
	Algorithm    string   `arg:"-a,--algorithm" help:"algorithm id (default: registry default)"`
	Region       string   `arg:"-r,--region" help:"named region to frame"`
	Config       string   `arg:"-c,--config" help:"TOML or JSON request file"`
	Width        *int     `arg:"--width" help:"image width in pixels"`
	Height       *int     `arg:"--height" help:"image height in pixels"`
	CenterX      *float64 `arg:"--center-x" help:"real part of the view centre"`
	CenterY      *float64 `arg:"--center-y" help:"imaginary part of the view centre"`
	Zoom         *float64 `arg:"-z,--zoom" help:"magnification, 1 shows [-2,2] vertically"`
	Iterations   *int     `arg:"-i,--iterations" help:"maximum iterations per point"`
	EscapeRadius *float64 `arg:"--escape-radius" help:"escape radius"`
	Palette      *string  `arg:"-p,--palette" help:"palette name"`
	JuliaPreset  string   `arg:"--julia-preset" help:"named Julia constant"`
	JuliaRe      *float64 `arg:"--julia-re" help:"real part of the Julia constant"`
	JuliaIm      *float64 `arg:"--julia-im" help:"imaginary part of the Julia constant"`
	Workers      int      `arg:"-w,--workers" help:"render goroutines, 0 uses all CPUs"`
	Supersample  int      `arg:"--supersample" default:"1" help:"render at N times the size and downsample"`
	Out          string   `arg:"-o,--out" default:"fractal.png" help:"output file (.png, .jpg, .bmp, .tif, .svg)"`
	Watch        bool     `arg:"--watch" help:"re-render whenever the config file changes"`
	Profile      string   `arg:"--profile" help:"write a cpu or mem profile"`
	List         bool     `arg:"-l,--list" help:"list algorithms, palettes, presets and regions"`
	Verbose      bool     `arg:"-v,--verbose" help:"log engine diagnostics"`
}

func (args) Description() string {
	return "Renders Mandelbrot, Julia and Burning Ship fractals.\n\n" +
		"Environment overrides use " + envPrefix + " plus the request key path joined with underscores,\n" +
		"e.g. " + envPrefix + "ALGORITHM=julia, " + envPrefix + "CONFIG_WIDTH=1024, " + envPrefix + "CONFIG_JULIAC_REAL=-0.4."
}

func main() {
	var a args
	arg.MustParse(&a)
	if err := run(a); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run(a args) error {
	level := slog.LevelWarn
	if a.Verbose {
		level = slog.LevelDebug
	}
	fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	switch a.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile %q", a.Profile)
	}

	reg := fractal.NewDefaultRegistry()
	if a.List {
		return printCatalog(os.Stdout, reg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := render(ctx, reg, a); err != nil {
		return err
	}
	if !a.Watch {
		return nil
	}
	if a.Config == "" {
		return fmt.Errorf("--watch needs --config")
	}

	w, err := newConfigWatcher(a.Config)
	if err != nil {
		return err
	}
	defer w.Close()

	log.Printf("watching %q for changes", a.Config)
	return w.run(ctx, func() error { return render(ctx, reg, a) })
}

// request layers the command line over the file and environment.
func (a args) request() (config.Request, error) {
	req, err := config.Load(a.Config, envPrefix)
	if err != nil {
		return config.Request{}, err
	}

	flags := config.Request{
		Algorithm: a.Algorithm,
		Region:    a.Region,
		Config: fractal.Overrides{
			Width:         a.Width,
			Height:        a.Height,
			CenterX:       a.CenterX,
			CenterY:       a.CenterY,
			Zoom:          a.Zoom,
			MaxIterations: a.Iterations,
			EscapeRadius:  a.EscapeRadius,
			Palette:       a.Palette,
		},
	}

	if a.JuliaPreset != "" {
		c, ok := fractal.LookupJuliaPreset(a.JuliaPreset)
		if !ok {
			return config.Request{}, fmt.Errorf("unknown julia preset %q", a.JuliaPreset)
		}
		flags.Config.JuliaC = &c
	}
	if a.JuliaRe != nil || a.JuliaIm != nil {
		c := fractal.DefaultJuliaC
		if flags.Config.JuliaC != nil {
			c = *flags.Config.JuliaC
		} else if req.Config.JuliaC != nil {
			c = *req.Config.JuliaC
		}
		if a.JuliaRe != nil {
			c.Real = *a.JuliaRe
		}
		if a.JuliaIm != nil {
			c.Imag = *a.JuliaIm
		}
		flags.Config.JuliaC = &c
	}

	return req.Merge(flags), nil
}

func render(ctx context.Context, reg *fractal.Registry, a args) error {
	req, err := a.request()
	if err != nil {
		return err
	}
	id, cfg, err := config.Resolve(reg, req)
	if err != nil {
		return err
	}

	k := max(a.Supersample, 1)
	renderCfg := cfg
	renderCfg.Width *= k
	renderCfg.Height *= k

	start := time.Now()
	buf, err := reg.GenerateFractalParallel(ctx, id, renderCfg, a.Workers)
	if err != nil {
		return fmt.Errorf("generate %s: %w", id, err)
	}
	img := fractal.ToImage(buf, renderCfg.Width, renderCfg.Height)
	if k > 1 {
		img = downsample(img, cfg.Width, cfg.Height)
	}
	elapsed := time.Since(start)

	if err := writeImage(a.Out, img); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	log.Print(p.Sprintf("%s: %d×%d, %d pixels computed in %v, saved to %q",
		id, cfg.Width, cfg.Height, renderCfg.Width*renderCfg.Height, elapsed.Round(time.Millisecond), a.Out))
	return nil
}

// downsample scales img to width x height with a Catmull-Rom filter.
func downsample(img *image.RGBA, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
