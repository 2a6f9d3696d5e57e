package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PhongMaterial is the shading model used for the globe surface. Specular
// highlights use a fixed dim grey, matching the usual Phong defaults.
type PhongMaterial struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float64
	Shininess         float64
	Opacity           float64
}

var specularColor = Hex(0x111111)

// NewPhongMaterial returns a white, non-emissive material.
func NewPhongMaterial() *PhongMaterial {
	return &PhongMaterial{
		Color:             ColorWhite,
		Emissive:          Color{0, 0, 0, 1},
		EmissiveIntensity: 1,
		Shininess:         30,
		Opacity:           1,
	}
}

// Shade evaluates the material at a surface point with world-space normal n,
// given the unit vector toward the viewer and the light rig.
func (m *PhongMaterial) Shade(n, toEye mgl64.Vec3, lights []*DirectionalLight) Color {
	r := m.Emissive.R * m.EmissiveIntensity
	g := m.Emissive.G * m.EmissiveIntensity
	b := m.Emissive.B * m.EmissiveIntensity
	for _, l := range lights {
		ld := l.Direction()
		diff := n.Dot(ld)
		if diff <= 0 {
			continue
		}
		r += m.Color.R * l.Color.R * l.Intensity * diff
		g += m.Color.G * l.Color.G * l.Intensity * diff
		b += m.Color.B * l.Color.B * l.Intensity * diff

		half := ld.Add(toEye)
		if half.Len() > 1e-12 {
			spec := math.Pow(math.Max(n.Dot(half.Normalize()), 0), math.Max(m.Shininess, 1e-4))
			r += specularColor.R * l.Color.R * l.Intensity * spec
			g += specularColor.G * l.Color.G * l.Intensity * spec
			b += specularColor.B * l.Color.B * l.Intensity * spec
		}
	}
	return Color{clamp01(r), clamp01(g), clamp01(b), m.Opacity}
}

// Fog fades distant geometry linearly toward Color between Near and Far.
type Fog struct {
	Color     Color
	Near, Far float64
}

// Factor returns the fog blend amount in [0, 1] for a view-space depth.
func (f *Fog) Factor(depth float64) float64 {
	if f == nil || f.Far <= f.Near {
		return 0
	}
	t := (depth - f.Near) / (f.Far - f.Near)
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// Apply blends c toward the fog color for the given depth, keeping alpha.
func (f *Fog) Apply(c Color, depth float64) Color {
	k := f.Factor(depth)
	if k == 0 {
		return c
	}
	out := c.Lerp(f.Color, k)
	out.A = c.A
	return out
}
