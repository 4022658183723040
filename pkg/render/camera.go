package render

import (
	"math"

	"github.com/taigrr/umbra/pkg/math3d"
)

// Camera orbits a target point. Yaw turns around the vertical (Y) axis and
// Pitch raises the camera above the target's horizontal plane.
type Camera struct {
	Target   math3d.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates a camera five units in front of the origin.
func NewCamera() *Camera {
	return &Camera{
		Distance:    5,
		FOV:         math.Pi / 3, // 60 degrees
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetTarget sets the point the camera orbits.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
}

// SetDistance sets the orbit radius.
func (c *Camera) SetDistance(d float64) {
	c.Distance = d
	c.viewDirty = true
}

// SetOrbit sets the yaw and pitch in radians.
func (c *Camera) SetOrbit(yaw, pitch float64) {
	c.Yaw = yaw
	c.Pitch = clampPitch(pitch)
	c.viewDirty = true
}

// Orbit moves the camera around the target by the given angles.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	c.SetOrbit(c.Yaw+deltaYaw, c.Pitch+deltaPitch)
}

// Zoom scales the orbit radius. Factors below 1 move closer.
func (c *Camera) Zoom(factor float64) {
	c.Distance = math.Max(c.Near*2, c.Distance*factor)
	c.viewDirty = true
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Frame places the target at center and backs off until a sphere of the
// given radius fills the vertical field of view. Clip planes follow.
func (c *Camera) Frame(center math3d.Vec3, radius float64) {
	if radius <= 0 {
		radius = 1
	}
	c.SetTarget(center)
	c.SetDistance(radius / math.Sin(c.FOV/2) * 1.1)
	c.SetClipPlanes(c.Distance/100, c.Distance+radius*4)
}

// Position returns the camera position in world space.
func (c *Camera) Position() math3d.Vec3 {
	cp := math.Cos(c.Pitch)
	offset := math3d.V3(math.Sin(c.Yaw)*cp, math.Sin(c.Pitch), math.Cos(c.Yaw)*cp)
	return c.Target.Add(offset.Scale(c.Distance))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position()).Normalize()
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.computeProjectionMatrix()
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
	}
	return c.viewProjMatrix
}

func (c *Camera) computeViewMatrix() {
	// View = Rotation * Translation(-position)
	rot := math3d.RotateX(c.Pitch).Mul(math3d.RotateY(-c.Yaw))
	trans := math3d.Translate(c.Position().Negate())
	c.viewMatrix = rot.Mul(trans)
}

func (c *Camera) computeProjectionMatrix() {
	c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	return x, y, ndc.Z, true
}

func clampPitch(p float64) float64 {
	const maxPitch = math.Pi/2 - 0.01
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}

// ModelTransform centers a Z-up mesh on the origin, turns it into the
// camera's Y-up frame and spins it by yaw around the vertical axis. It
// also returns the radius of the mesh's bounding sphere.
func ModelTransform(mesh BoundedMeshRenderer, yaw float64) (math3d.Mat4, float64) {
	lo, hi := mesh.GetBounds()
	center := lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Len() / 2

	zUp := math3d.RotateX(-math.Pi / 2)
	return math3d.RotateY(yaw).Mul(zUp).Mul(math3d.Translate(center.Negate())), radius
}
