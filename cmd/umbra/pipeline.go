package main

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/umbra/pkg/illum"
	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
	"github.com/taigrr/umbra/pkg/render"
	"github.com/taigrr/umbra/pkg/scene"
	"github.com/taigrr/umbra/pkg/tessellate"
)

// job is a loaded, refined scene ready to be lit.
type job struct {
	cfg     *scene.Config
	mesh    *models.Mesh
	source  math3d.Vec3
	refined bool
}

// prepare loads path, builds its mesh and refines it when a threshold is
// configured.
func prepare(cmd *cobra.Command, opts *options, path string) (*job, error) {
	cfg, err := opts.config(cmd, path)
	if err != nil {
		return nil, err
	}

	model, err := cfg.BuildModel()
	if err != nil {
		return nil, fmt.Errorf("build mesh: %w", err)
	}
	// light and threshold follow the model; the ground only receives light
	source := cfg.Source(model)
	maxArea, ok, err := cfg.Threshold(model)
	if err != nil {
		return nil, fmt.Errorf("refine threshold: %w", err)
	}

	m := cfg.WithGround(model)
	log.Info("loaded", "scene", cfg.Name, "vertices", m.VertexCount(), "faces", m.TriangleCount())

	j := &job{cfg: cfg, mesh: m, source: source}
	log.Debug("light", "position", j.source)
	if !ok {
		return j, nil
	}

	r := &tessellate.Refiner{MaxArea: maxArea, Workers: cfg.Workers}
	if cfg.Refine != nil {
		r.MaxTriangles = cfg.Refine.MaxTriangles
	}
	start := time.Now()
	refined, stats, err := r.Refine(m)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	log.Info("refined",
		"maxArea", maxArea,
		"rounds", stats.Rounds,
		"split", stats.Split,
		"faces", refined.TriangleCount(),
		"took", time.Since(start).Round(time.Millisecond),
	)
	j.mesh, j.refined = refined, true
	return j, nil
}

// field lights the mesh, with shadows unless shadowed is false.
func (j *job) field(shadowed bool) ([]float64, error) {
	if !shadowed {
		return illum.Unshadowed(j.mesh, j.source)
	}

	il := &illum.Illuminator{Workers: j.cfg.Workers, Progress: logProgress()}
	start := time.Now()
	field, err := il.Shadowed(j.mesh, j.source)
	if err != nil {
		return nil, err
	}
	log.Info("shadowed", "faces", len(field), "took", time.Since(start).Round(time.Millisecond))
	return field, nil
}

// logProgress returns a progress callback that logs every tenth of the
// work once.
func logProgress() func(done, total int) {
	var logged atomic.Int64
	return func(done, total int) {
		decile := int64(done * 10 / total)
		for {
			last := logged.Load()
			if decile <= last {
				return
			}
			if logged.CompareAndSwap(last, decile) {
				log.Debug("shadowing", "done", done, "total", total, "pct", decile*10)
				return
			}
		}
	}
}

// frame draws a lit mesh from an orbiting camera.
type frame struct {
	camera *render.Camera
	raster *render.Rasterizer
	wire   *render.Wireframe
	fb     *render.Framebuffer
}

func newFrame(width, height int, twoSided bool) *frame {
	camera := render.NewCamera()
	fb := render.NewFramebuffer(width, height)
	camera.SetAspectRatio(float64(width) / float64(height))
	raster := render.NewRasterizer(camera, fb)
	raster.DisableBackfaceCulling = twoSided
	return &frame{
		camera: camera,
		raster: raster,
		wire:   render.NewWireframe(camera, fb),
		fb:     fb,
	}
}

// frameMesh points the camera at m from yaw and pitch, in radians.
func (f *frame) frameMesh(m *models.Mesh, yaw, pitch float64) {
	_, radius := render.ModelTransform(m, 0)
	f.camera.Frame(math3d.Zero3(), radius)
	f.camera.SetOrbit(yaw, pitch)
}

// draw renders m coloured by colors, with face outlines when edges is set
// and a marker at the light.
func (f *frame) draw(m *models.Mesh, colors []render.Color, source math3d.Vec3, edges bool) {
	transform, radius := render.ModelTransform(m, 0)

	f.fb.Clear(render.ColorBackground)
	f.raster.ClearDepth()
	f.raster.DrawMeshField(m, transform, colors)
	if edges {
		f.wire.DrawMeshEdges(m, transform, render.RGB(20, 20, 20))
	}
	f.wire.DrawPoint(transform.MulVec3(source), radius/10, render.ColorYellow)
}

func deg(d float64) float64 {
	return d * math.Pi / 180
}
