// Package config loads render requests from TOML or JSON files and the
// environment, and resolves them against an algorithm registry.
//
// A request file looks like:
//
//	algorithm = "julia"
//	region = ""
//
//	[config]
//	width = 1024
//	height = 768
//	zoom = 1.5
//	iterations = 300
//	palette = "ocean"
//
//	[config.juliac]
//	real = -0.4
//	imag = 0.6
//
// Environment variables use the prefix followed by the key path joined with
// underscores, e.g. FRACTAL_ALGORITHM or FRACTAL_CONFIG_ZOOM. Keys that do not
// map onto a Request field are ignored with a warning.
package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	fractal "github.com/marben/fractal_engine"
)

// Request names what to render. Empty fields fall back to registry defaults.
type Request struct {
	Algorithm string            `json:"algorithm,omitempty" koanf:"algorithm"`
	Region    string            `json:"region,omitempty" koanf:"region"`
	Config    fractal.Overrides `json:"config" koanf:"config"`
}

// Merge layers top over r: non-empty fields in top win.
func (r Request) Merge(top Request) Request {
	if top.Algorithm != "" {
		r.Algorithm = top.Algorithm
	}
	if top.Region != "" {
		r.Region = top.Region
	}
	r.Config = r.Config.Merge(top.Config)
	return r
}

// Load reads path (if not empty) and then environment variables starting with
// envPrefix (if not empty), later sources overriding earlier ones.
func Load(path, envPrefix string) (Request, error) {
	k := koanf.New(".")

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Request{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Request{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if envPrefix != "" {
		err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
		}), nil)
		if err != nil {
			return Request{}, fmt.Errorf("load env %s*: %w", envPrefix, err)
		}
	}

	for _, key := range unknownKeys(k) {
		fractal.Logger().Warn("config: unknown key ignored", "key", key, "file", path, "envPrefix", envPrefix)
	}

	var req Request
	if err := k.Unmarshal("", &req); err != nil {
		return Request{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return req, nil
}

// requestKeys holds every leaf key path a Request decodes, e.g. "config.juliac.real".
var requestKeys = koanfKeys(reflect.TypeFor[Request](), "", map[string]bool{})

func koanfKeys(t reflect.Type, prefix string, out map[string]bool) map[string]bool {
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("koanf")
		if tag == "" {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			koanfKeys(ft, prefix+tag+".", out)
			continue
		}
		out[prefix+tag] = true
	}
	return out
}

// unknownKeys returns the loaded keys that do not map onto a Request field.
func unknownKeys(k *koanf.Koanf) []string {
	var unknown []string
	for _, key := range k.Keys() {
		if !requestKeys[key] {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
}

// Resolve turns a request into a concrete configuration. Layers apply in
// order: algorithm defaults, image size overrides, region view, remaining
// overrides. The result is not validated.
func Resolve(reg *fractal.Registry, req Request) (id string, cfg fractal.Config, err error) {
	id = req.Algorithm
	if id == "" {
		id = reg.DefaultID()
	}
	cfg, err = reg.MergedConfig(id, fractal.Overrides{Width: req.Config.Width, Height: req.Config.Height})
	if err != nil {
		return "", fractal.Config{}, err
	}
	if req.Region != "" {
		region, err := fractal.LookupRegion(req.Region)
		if err != nil {
			return "", fractal.Config{}, err
		}
		cfg = region.Apply(cfg)
	}
	return id, req.Config.Apply(cfg), nil
}
