// Package scene loads JSON scene descriptions: which meshes to build or
// import, where the light sits, and how to refine and render the result.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
	"github.com/taigrr/umbra/pkg/tessellate"
)

// Defaults applied by Load and Parse.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultPitchDeg   = 25
	DefaultYawDeg     = -30
	DefaultMarginDiag = 1
)

// ErrNoMeshes is returned for a scene without a "meshes" entry.
var ErrNoMeshes = errors.New("scene has no meshes")

// Point is a JSON triple [x, y, z].
type Point [3]float64

// Vec3 converts p to a vector.
func (p Point) Vec3() math3d.Vec3 {
	return math3d.V3(p[0], p[1], p[2])
}

// MeshCfg describes one mesh of the scene. Type selects the source:
//
//	pyramid   base, height
//	ground    min, max (corners; the rectangle lies at min's Z)
//	box       size (minimum corner at the origin)
//	sphere    radius (centered on the origin)
//	cylinder  radius, height (Z-aligned, centered on the origin)
//	stl, gltf, glb, json  path
//
// Translate and Scale are applied after building.
type MeshCfg struct {
	Type      string  `json:"type"`
	Name      string  `json:"name,omitempty"`
	Path      string  `json:"path,omitempty"`
	Base      float64 `json:"base,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Radius    float64 `json:"radius,omitempty"`
	Size      Point   `json:"size,omitempty"`
	Min       Point   `json:"min,omitempty"`
	Max       Point   `json:"max,omitempty"`
	Cells     int     `json:"cells,omitempty"` // marching cubes resolution for solids
	Translate Point   `json:"translate,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
}

// LightCfg places the point light.
type LightCfg struct {
	// Position of the point light. Nil places it with AutoLight.
	Position *Point `json:"position,omitempty"`
}

// GroundCfg adds a ground rectangle under the model.
type GroundCfg struct {
	// Margin in bounding-box diagonals; 0 uses DefaultMarginDiag.
	Margin float64 `json:"margin,omitempty"`
}

// RefineCfg sets the tessellation threshold. At most one of MaxArea and
// AreaDivisor may be set; AreaDivisor divides the largest face area.
type RefineCfg struct {
	MaxArea      float64 `json:"maxArea,omitempty"`
	AreaDivisor  float64 `json:"areaDivisor,omitempty"`
	MaxTriangles int     `json:"maxTriangles,omitempty"`
}

// RenderCfg sets the image size and view. Zero angles select the default
// view.
type RenderCfg struct {
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Colormap string  `json:"colormap,omitempty"`
	YawDeg   float64 `json:"yawDeg,omitempty"`
	PitchDeg float64 `json:"pitchDeg,omitempty"`
	Edges    bool    `json:"edges,omitempty"`    // outline every face
	TwoSided bool    `json:"twoSided,omitempty"` // draw back faces
}

// Config is a decoded scene file.
type Config struct {
	Name       string     `json:"name,omitempty"`
	Meshes     []MeshCfg  `json:"meshes"`
	Ground     *GroundCfg `json:"ground,omitempty"` // add a ground under the meshes
	Light      LightCfg   `json:"light"`
	Unshadowed bool       `json:"unshadowed,omitempty"`
	Workers    int        `json:"workers,omitempty"`
	Refine     *RefineCfg `json:"refine,omitempty"`
	Render     RenderCfg  `json:"render"`

	// dir resolves relative mesh paths.
	dir string
}

// Load reads a scene file. Relative mesh paths are resolved against the
// file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes a scene and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if len(cfg.Meshes) == 0 {
		return nil, ErrNoMeshes
	}
	if r := cfg.Refine; r != nil && r.MaxArea > 0 && r.AreaDivisor > 0 {
		return nil, fmt.Errorf("refine: set maxArea or areaDivisor, not both")
	}
	if cfg.Name == "" {
		cfg.Name = "scene"
	}
	if cfg.Render.Width <= 0 {
		cfg.Render.Width = DefaultWidth
	}
	if cfg.Render.Height <= 0 {
		cfg.Render.Height = DefaultHeight
	}
	if cfg.Render.YawDeg == 0 {
		cfg.Render.YawDeg = DefaultYawDeg
	}
	if cfg.Render.PitchDeg == 0 {
		cfg.Render.PitchDeg = DefaultPitchDeg
	}
	return &cfg, nil
}

// BuildModel builds every configured mesh and concatenates them in order.
// The ground is not included.
func (c *Config) BuildModel() (*models.Mesh, error) {
	parts := make([]*models.Mesh, 0, len(c.Meshes))
	for i, mc := range c.Meshes {
		m, err := mc.Build(c.dir)
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, mc.Type, err)
		}
		parts = append(parts, m)
	}
	return models.Concat(c.Name, parts...), nil
}

// WithGround returns model followed by a ground sized from model's bounds,
// or model itself when no ground is configured.
func (c *Config) WithGround(model *models.Mesh) *models.Mesh {
	if c.Ground == nil {
		return model
	}
	margin := c.Ground.Margin
	if margin <= 0 {
		margin = DefaultMarginDiag
	}
	return models.Concat(c.Name, model, AutoGround(model, margin))
}

// BuildMesh builds the model and adds the ground when one is configured.
func (c *Config) BuildMesh() (*models.Mesh, error) {
	model, err := c.BuildModel()
	if err != nil {
		return nil, err
	}
	return c.WithGround(model), nil
}

// Source returns the configured light position, or AutoLight(m). Pass the
// model without its ground.
func (c *Config) Source(m *models.Mesh) math3d.Vec3 {
	if c.Light.Position != nil {
		return c.Light.Position.Vec3()
	}
	return AutoLight(m)
}

// Threshold returns the refinement area threshold for m, the model without
// its ground. ok is false when no refinement is configured.
func (c *Config) Threshold(m *models.Mesh) (maxArea float64, ok bool, err error) {
	r := c.Refine
	switch {
	case r == nil || (r.MaxArea == 0 && r.AreaDivisor == 0):
		return 0, false, nil
	case r.AreaDivisor != 0:
		maxArea, err = tessellate.MaxAreaFraction(m, r.AreaDivisor)
		if err != nil {
			return 0, false, err
		}
		return maxArea, true, nil
	default:
		return r.MaxArea, true, nil
	}
}

// Build constructs the mesh. Relative paths are resolved against dir.
func (mc MeshCfg) Build(dir string) (*models.Mesh, error) {
	m, err := mc.build(dir)
	if err != nil {
		return nil, err
	}
	if mc.Name != "" {
		m.Name = mc.Name
	}

	transform := math3d.Identity()
	if mc.Scale != 0 && mc.Scale != 1 {
		transform = math3d.ScaleUniform(mc.Scale)
	}
	if mc.Translate != (Point{}) {
		transform = math3d.Translate(mc.Translate.Vec3()).Mul(transform)
	}
	if transform != math3d.Identity() {
		m = m.Transform(transform)
	}
	return m, nil
}

func (mc MeshCfg) build(dir string) (*models.Mesh, error) {
	switch strings.ToLower(mc.Type) {
	case "pyramid":
		if !positive(mc.Base, mc.Height) {
			return nil, fmt.Errorf("pyramid needs positive base and height")
		}
		return models.Pyramid(mc.Base, mc.Height), nil

	case "ground":
		if mc.Min[0] == mc.Max[0] || mc.Min[1] == mc.Max[1] {
			return nil, fmt.Errorf("ground needs distinct min and max corners")
		}
		return models.Ground(mc.Min.Vec3(), mc.Max.Vec3()), nil

	case "box":
		s, err := models.SDFBox(mc.Size.Vec3())
		if err != nil {
			return nil, err
		}
		return models.FromSDF("box", s, mc.Cells), nil

	case "sphere":
		s, err := models.SDFSphere(mc.Radius)
		if err != nil {
			return nil, err
		}
		return models.FromSDF("sphere", s, mc.Cells), nil

	case "cylinder":
		s, err := models.SDFCylinder(mc.Height, mc.Radius)
		if err != nil {
			return nil, err
		}
		return models.FromSDF("cylinder", s, mc.Cells), nil

	case "stl":
		return models.LoadSTL(resolve(dir, mc.Path))

	case "gltf", "glb":
		return models.LoadGLTF(resolve(dir, mc.Path))

	case "json":
		f, err := os.Open(resolve(dir, mc.Path))
		if err != nil {
			return nil, fmt.Errorf("open mesh: %w", err)
		}
		defer f.Close()
		m, _, err := models.ReadJSON(f)
		return m, err
	}
	return nil, fmt.Errorf("unknown mesh type %q", mc.Type)
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

func positive(vs ...float64) bool {
	for _, v := range vs {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
