package globe

import "github.com/go-gl/mathgl/mgl64"

// DirectionalLight shines parallel rays from its world position toward the
// world origin. Parent it to the camera to keep lighting fixed relative to
// the view while the camera orbits.
type DirectionalLight struct {
	*Object
	Color     Color
	Intensity float64
}

// NewDirectionalLight creates a light at the given local offset.
func NewDirectionalLight(c Color, intensity float64, offset mgl64.Vec3) *DirectionalLight {
	o := &Object{Name: "directional-light", Type: ObjectTypeLight}
	objectDefaults(o)
	o.Position = offset
	l := &DirectionalLight{Object: o, Color: c, Intensity: intensity}
	o.UserData = l
	return l
}

// Direction returns the unit vector pointing from the lit surface toward the
// light, in world space.
func (l *DirectionalLight) Direction() mgl64.Vec3 {
	d := l.WorldPosition()
	if d.Len() < 1e-12 {
		return mgl64.Vec3{0, 1, 0}
	}
	return d.Normalize()
}
