package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/scene"
)

// options are the flags shared by every command. Set flags override the
// scene file.
type options struct {
	logLevel    string
	workers     int
	light       string
	maxArea     float64
	areaDivisor float64
	maxTris     int
	unshadowed  bool
	ground      bool
}

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.IntVarP(&o.workers, "workers", "j", 0, "worker goroutines (0 = one per CPU)")
	f.StringVar(&o.light, "light", "", "light position as x,y,z (default from scene or automatic)")
	f.Float64Var(&o.maxArea, "max-area", 0, "refine faces larger than this area")
	f.Float64Var(&o.areaDivisor, "area-divisor", 0, "refine to the largest face area divided by this")
	f.IntVar(&o.maxTris, "max-triangles", 0, "abort refinement beyond this many faces (0 = no limit)")
	f.BoolVar(&o.unshadowed, "unshadowed", false, "skip the shadow pass")
	f.BoolVar(&o.ground, "ground", false, "add a ground plane under the model")
}

// config loads path as a scene, or wraps a mesh file in a default scene,
// then applies the flags that were set.
func (o *options) config(cmd *cobra.Command, path string) (*scene.Config, error) {
	var cfg *scene.Config
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl", ".glb", ".gltf":
		cfg, err = scene.Parse(fmt.Appendf(nil, `{"meshes": [{"type": %q, "path": %q}]}`, ext[1:], path))
	default:
		cfg, err = scene.Load(path)
		if errors.Is(err, scene.ErrNoMeshes) {
			// a mesh written by "umbra refine" rather than a scene
			cfg, err = scene.Parse(fmt.Appendf(nil, `{"meshes": [{"type": "json", "path": %q}]}`, path))
		}
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("light") {
		p, err := parsePoint(o.light)
		if err != nil {
			return nil, fmt.Errorf("--light: %w", err)
		}
		pt := scene.Point(p.Array())
		cfg.Light.Position = &pt
	}
	if flags.Changed("max-area") || flags.Changed("area-divisor") || flags.Changed("max-triangles") {
		if cfg.Refine == nil {
			cfg.Refine = &scene.RefineCfg{}
		}
		if flags.Changed("max-area") {
			cfg.Refine.MaxArea, cfg.Refine.AreaDivisor = o.maxArea, 0
		}
		if flags.Changed("area-divisor") {
			cfg.Refine.AreaDivisor, cfg.Refine.MaxArea = o.areaDivisor, 0
		}
		if flags.Changed("max-triangles") {
			cfg.Refine.MaxTriangles = o.maxTris
		}
	}
	if flags.Changed("unshadowed") {
		cfg.Unshadowed = o.unshadowed
	}
	if flags.Changed("ground") && o.ground && cfg.Ground == nil {
		cfg.Ground = &scene.GroundCfg{}
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	return cfg, nil
}

// parsePoint parses "x,y,z".
func parsePoint(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("parse %q: %w", p, err)
		}
		v[i] = f
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}
