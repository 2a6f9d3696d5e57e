package globe

import "math"

// Viewport holds the host window size, the normalized pointer and the
// clamped output pixel ratio. Only the Bridge writes it.
type Viewport struct {
	Width, Height float64

	// Pointer is the last pointer position normalized to [-0.5, 0.5] on each
	// axis, origin at the center, +Y up. Nothing reads it yet.
	Pointer Vec2

	// PixelRatio is the device scale factor clamped to MaxPixelRatio.
	PixelRatio float64

	// MaxPixelRatio bounds PixelRatio. Zero or values above 2 mean 2.
	MaxPixelRatio float64
}

const defaultMaxPixelRatio = 2

// Aspect returns Width / Height, or 1 for a degenerate viewport.
func (v *Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// Resize stores a new window size and device scale factor.
func (v *Viewport) Resize(width, height, deviceRatio float64) {
	v.Width = width
	v.Height = height
	v.PixelRatio = v.clampRatio(deviceRatio)
}

func (v *Viewport) clampRatio(r float64) float64 {
	limit := v.MaxPixelRatio
	if limit <= 0 || limit > defaultMaxPixelRatio {
		limit = defaultMaxPixelRatio
	}
	if r <= 0 || math.IsNaN(r) {
		r = 1
	}
	return math.Min(r, limit)
}

// SetPointer normalizes a pointer position given in window pixels.
func (v *Viewport) SetPointer(x, y float64) {
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	v.Pointer = Vec2{
		X: x/v.Width - 0.5,
		Y: -(y/v.Height - 0.5),
	}
}

// OutputSize returns the framebuffer size in device pixels.
func (v *Viewport) OutputSize() (int, int) {
	r := v.PixelRatio
	if r <= 0 {
		r = 1
	}
	return int(math.Ceil(v.Width * r)), int(math.Ceil(v.Height * r))
}
