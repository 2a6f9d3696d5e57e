package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const sphericalEpsilon = 1e-6

// spherical is a point on a sphere around the orbit target. Phi is the polar
// angle from +Y; Theta is the azimuth around Y measured from +Z.
type spherical struct {
	Radius, Phi, Theta float64
}

func sphericalFromVec(v mgl64.Vec3) spherical {
	r := v.Len()
	if r == 0 {
		return spherical{}
	}
	return spherical{
		Radius: r,
		Theta:  math.Atan2(v.X(), v.Z()),
		Phi:    math.Acos(clampUnit(v.Y() / r)),
	}
}

func (s spherical) vec() mgl64.Vec3 {
	sinPhi := math.Sin(s.Phi)
	return mgl64.Vec3{
		s.Radius * sinPhi * math.Sin(s.Theta),
		s.Radius * math.Cos(s.Phi),
		s.Radius * sinPhi * math.Cos(s.Theta),
	}
}

// OrbitControls moves a camera on a sphere around a target point. Input
// accumulates into deltas that Update applies once per frame, decaying them
// by DampingFactor when damping is enabled.
type OrbitControls struct {
	Camera   *Camera
	Viewport *Viewport

	Target mgl64.Vec3

	EnableDamping   bool
	DampingFactor   float64
	EnablePan       bool
	EnableRotate    bool
	EnableZoom      bool
	RotateSpeed     float64
	ZoomSpeed       float64
	PanSpeed        float64
	AutoRotate      bool
	AutoRotateSpeed float64
	MinPolarAngle   float64
	MaxPolarAngle   float64
	MinDistance     float64
	MaxDistance     float64

	delta     spherical
	scale     float64
	panOffset mgl64.Vec3
	zoomed    bool

	lastPosition mgl64.Vec3
	lastTarget   mgl64.Vec3
	disposed     bool
}

// NewOrbitControls creates controls for cam configured from cfg. vp supplies
// the element height that converts pixel drags to angles.
func NewOrbitControls(cam *Camera, vp *Viewport, cfg ControlsConfig) *OrbitControls {
	c := &OrbitControls{
		Camera:          cam,
		Viewport:        vp,
		EnableDamping:   cfg.EnableDamping,
		DampingFactor:   cfg.DampingFactor,
		EnablePan:       cfg.EnablePan,
		EnableRotate:    true,
		EnableZoom:      true,
		RotateSpeed:     cfg.RotateSpeed,
		ZoomSpeed:       cfg.ZoomSpeed,
		PanSpeed:        1,
		AutoRotate:      cfg.AutoRotate,
		AutoRotateSpeed: cfg.AutoRotateSpeed,
		MinPolarAngle:   cfg.MinPolarAngle,
		MaxPolarAngle:   cfg.MaxPolarAngle,
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		scale:           1,
	}
	if c.MaxDistance <= 0 {
		c.MaxDistance = math.Inf(1)
	}
	c.Target = cam.Target()
	c.Update()
	return c
}

func (c *OrbitControls) elementHeight() float64 {
	if c.Viewport == nil || c.Viewport.Height <= 0 {
		return 1
	}
	return c.Viewport.Height
}

// RotateLeft queues an azimuth change in radians.
func (c *OrbitControls) RotateLeft(angle float64) {
	c.delta.Theta -= angle
}

// RotateUp queues a polar change in radians.
func (c *OrbitControls) RotateUp(angle float64) {
	c.delta.Phi -= angle
}

// Rotate converts a pointer drag in pixels to orbit deltas. A drag across
// the full element height turns the camera by 2π * RotateSpeed.
func (c *OrbitControls) Rotate(dx, dy float64) {
	if c.disposed || !c.EnableRotate {
		return
	}
	h := c.elementHeight()
	c.RotateLeft(2 * math.Pi * dx * c.RotateSpeed / h)
	c.RotateUp(2 * math.Pi * dy * c.RotateSpeed / h)
}

func (c *OrbitControls) zoomScale() float64 {
	return math.Pow(0.95, c.ZoomSpeed)
}

// Wheel applies a scroll step. Negative dy (scrolling up) moves the camera
// toward the target.
func (c *OrbitControls) Wheel(dy float64) {
	if c.disposed || !c.EnableZoom || dy == 0 {
		return
	}
	if dy < 0 {
		c.scale *= c.zoomScale()
	} else {
		c.scale /= c.zoomScale()
	}
	c.zoomed = true
}

// Dolly scales the orbit radius by 1/factor. factor > 1 moves closer.
func (c *OrbitControls) Dolly(factor float64) {
	if c.disposed || !c.EnableZoom || factor <= 0 {
		return
	}
	c.scale /= factor
	c.zoomed = true
}

// Pan shifts the target in the camera plane by a pointer drag in pixels.
// A no-op unless EnablePan is set.
func (c *OrbitControls) Pan(dx, dy float64) {
	if c.disposed || !c.EnablePan {
		return
	}
	offset := c.Camera.Position.Sub(c.Target)
	dist := offset.Len() * math.Tan(mgl64.DegToRad(c.Camera.FOV)/2)
	h := c.elementHeight()
	m := c.Camera.localMatrix
	right := m.Col(0).Vec3()
	up := m.Col(1).Vec3()
	c.panOffset = c.panOffset.
		Add(right.Mul(-2 * dx * dist / h * c.PanSpeed)).
		Add(up.Mul(2 * dy * dist / h * c.PanSpeed))
}

// PolarAngle returns the camera's current polar angle.
func (c *OrbitControls) PolarAngle() float64 {
	return sphericalFromVec(c.Camera.Position.Sub(c.Target)).Phi
}

// AzimuthalAngle returns the camera's current azimuth.
func (c *OrbitControls) AzimuthalAngle() float64 {
	return sphericalFromVec(c.Camera.Position.Sub(c.Target)).Theta
}

// Distance returns the camera's distance to the target.
func (c *OrbitControls) Distance() float64 {
	return c.Camera.Position.Sub(c.Target).Len()
}

// Update applies pending deltas, clamps the polar angle and distance, moves
// and re-aims the camera, then decays the deltas. It reports whether the
// camera moved.
func (c *OrbitControls) Update() bool {
	if c.disposed {
		return false
	}
	offset := c.Camera.Position.Sub(c.Target)
	s := sphericalFromVec(offset)

	if c.AutoRotate {
		c.RotateLeft(2 * math.Pi / 60 / 60 * c.AutoRotateSpeed)
	}

	if c.EnableDamping {
		s.Theta += c.delta.Theta * c.DampingFactor
		s.Phi += c.delta.Phi * c.DampingFactor
	} else {
		s.Theta += c.delta.Theta
		s.Phi += c.delta.Phi
	}

	s.Phi = math.Max(c.MinPolarAngle, math.Min(c.MaxPolarAngle, s.Phi))
	s.Phi = math.Max(sphericalEpsilon, math.Min(math.Pi-sphericalEpsilon, s.Phi))

	s.Radius *= c.scale
	s.Radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, s.Radius))

	if c.EnableDamping {
		c.Target = c.Target.Add(c.panOffset.Mul(c.DampingFactor))
	} else {
		c.Target = c.Target.Add(c.panOffset)
	}

	pos := c.Target.Add(s.vec())
	c.Camera.Position = pos
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		c.delta.Theta *= 1 - c.DampingFactor
		c.delta.Phi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Mul(1 - c.DampingFactor)
	} else {
		c.delta = spherical{}
		c.panOffset = mgl64.Vec3{}
	}
	c.scale = 1

	dp := pos.Sub(c.lastPosition)
	dt := c.Target.Sub(c.lastTarget)
	moved := c.zoomed || dp.Dot(dp) > sphericalEpsilon || dt.Dot(dt) > sphericalEpsilon
	c.zoomed = false
	c.lastPosition = pos
	c.lastTarget = c.Target
	return moved
}

// Dispose detaches the controls; further input and updates are ignored.
func (c *OrbitControls) Dispose() {
	c.disposed = true
}
