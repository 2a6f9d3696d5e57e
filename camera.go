package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera. Its world matrix is derived from Position
// and the point it looks at; Rotation and Scale are ignored.
type Camera struct {
	*Object

	// FOV is the vertical field of view in degrees.
	FOV float64
	// Aspect is width / height. Call UpdateProjectionMatrix after changing it.
	Aspect float64
	// Near and Far bound the visible depth range in world units.
	Near, Far float64

	// Up is the world-space up direction used when aiming the camera.
	Up mgl64.Vec3

	target        mgl64.Vec3
	projection    mgl64.Mat4
	viewMatrix    mgl64.Mat4
	viewProjector mgl64.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(fov, aspect, near, far float64) *Camera {
	o := &Object{Name: "camera", Type: ObjectTypeCamera}
	objectDefaults(o)
	c := &Camera{
		Object: o,
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     mgl64.Vec3{0, 1, 0},
		target: mgl64.Vec3{0, 0, -1},
	}
	c.UpdateProjectionMatrix()
	c.aim()
	return c
}

// UpdateProjectionMatrix recomputes the projection after FOV, Aspect, Near
// or Far changed.
func (c *Camera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		aspect = 1
	}
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the current projection matrix.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return c.projection
}

// SetPosition moves the camera and keeps it aimed at its current target.
func (c *Camera) SetPosition(x, y, z float64) {
	c.Position = mgl64.Vec3{x, y, z}
	c.aim()
}

// LookAt aims the camera at a world-space point.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.target = target
	c.aim()
}

// Target returns the point the camera is aimed at.
func (c *Camera) Target() mgl64.Vec3 {
	return c.target
}

func (c *Camera) aim() {
	eye := c.Position
	if eye.Sub(c.target).Len() < 1e-12 {
		c.localMatrix = mgl64.Translate3D(eye.X(), eye.Y(), eye.Z())
	} else {
		c.localMatrix = mgl64.LookAtV(eye, c.target, c.Up).Inv()
	}
	c.transformDirty = true
}

// refreshView caches the view and view-projection matrices from the current
// world matrix. Called by the renderer once per frame after world matrices
// are updated.
func (c *Camera) refreshView() {
	c.viewMatrix = c.worldMatrix.Inv()
	c.viewProjector = c.projection.Mul4(c.viewMatrix)
}

// ViewMatrix returns the world-to-camera matrix cached by the last frame.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return c.viewMatrix
}

// FocalLength returns the distance, in pixels, from the eye to a projection
// plane of the given pixel height.
func (c *Camera) FocalLength(height float64) float64 {
	return height / 2 / math.Tan(mgl64.DegToRad(c.FOV)/2)
}

// ViewDepth returns the distance of a world point in front of the camera
// (positive in front).
func (c *Camera) ViewDepth(p mgl64.Vec3) float64 {
	return -mgl64.TransformCoordinate(p, c.viewMatrix).Z()
}

// WorldToScreen projects a world point to pixel coordinates in a target of
// the given size. ok is false when the point is outside [Near, Far].
func (c *Camera) WorldToScreen(p mgl64.Vec3, width, height float64) (sx, sy, depth float64, ok bool) {
	clip := c.viewProjector.Mul4x1(p.Vec4(1))
	depth = clip.W()
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	nx := clip.X() / depth
	ny := clip.Y() / depth
	sx = (nx*0.5 + 0.5) * width
	sy = (1 - (ny*0.5 + 0.5)) * height
	return sx, sy, depth, true
}
