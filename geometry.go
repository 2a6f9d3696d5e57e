package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GlobeRadius is the radius of the globe sphere in local units. Altitudes
// are expressed as fractions of this radius.
const GlobeRadius = 100.0

// Geometry is an indexed triangle list with per-vertex normals.
type Geometry struct {
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	Indices   []uint32
}

// NumTriangles returns len(Indices)/3.
func (g *Geometry) NumTriangles() int {
	return len(g.Indices) / 3
}

// NewSphereGeometry tessellates a UV sphere. Vertices are laid out in rows
// from the north pole (+Y) to the south pole; triangles wind
// counter-clockwise when seen from outside.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	row := widthSegments + 1
	g := &Geometry{
		Positions: make([]mgl64.Vec3, 0, row*(heightSegments+1)),
		Normals:   make([]mgl64.Vec3, 0, row*(heightSegments+1)),
		Indices:   make([]uint32, 0, widthSegments*heightSegments*6),
	}
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		sinT, cosT := math.Sincos(v * math.Pi)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			sinP, cosP := math.Sincos(u * 2 * math.Pi)
			n := mgl64.Vec3{-cosP * sinT, cosT, sinP * sinT}
			g.Normals = append(g.Normals, n)
			g.Positions = append(g.Positions, n.Mul(radius))
		}
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy*row + ix + 1)
			b := uint32(iy*row + ix)
			c := uint32((iy+1)*row + ix)
			d := uint32((iy+1)*row + ix + 1)
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// LatLngToVector converts geographic coordinates in degrees and a relative
// altitude to a point in globe-local space.
func LatLngToVector(lat, lng, altitude float64) mgl64.Vec3 {
	phi := (90 - lat) * math.Pi / 180
	theta := (90 - lng) * math.Pi / 180
	r := GlobeRadius * (1 + altitude)
	sinPhi, cosPhi := math.Sincos(phi)
	sinTheta, cosTheta := math.Sincos(theta)
	return mgl64.Vec3{r * sinPhi * cosTheta, r * cosPhi, r * sinPhi * sinTheta}
}

// VectorToLatLng is the inverse of LatLngToVector, ignoring altitude.
func VectorToLatLng(v mgl64.Vec3) (lat, lng float64) {
	r := v.Len()
	if r < 1e-12 {
		return 0, 0
	}
	phi := math.Acos(clampUnit(v.Y() / r))
	theta := math.Atan2(v.Z(), v.X())
	lat = 90 - phi*180/math.Pi
	lng = 90 - theta*180/math.Pi
	if lng > 180 {
		lng -= 360
	}
	return lat, lng
}

// geoInterpolator returns a function interpolating along the great circle
// from a to b (degrees), parameterized by t in [0, 1].
func geoInterpolator(lat0, lng0, lat1, lng1 float64) func(t float64) (lat, lng float64) {
	a := LatLngToVector(lat0, lng0, 0).Normalize()
	b := LatLngToVector(lat1, lng1, 0).Normalize()
	omega := math.Acos(clampUnit(a.Dot(b)))
	sinOmega := math.Sin(omega)
	return func(t float64) (float64, float64) {
		if sinOmega < 1e-9 {
			return lat0 + (lat1-lat0)*t, lng0 + (lng1-lng0)*t
		}
		p := a.Mul(math.Sin((1-t)*omega) / sinOmega).Add(b.Mul(math.Sin(t*omega) / sinOmega))
		return VectorToLatLng(p)
	}
}

// greatCircleAngle returns the central angle in radians between two points.
func greatCircleAngle(lat0, lng0, lat1, lng1 float64) float64 {
	a := LatLngToVector(lat0, lng0, 0).Normalize()
	b := LatLngToVector(lat1, lng1, 0).Normalize()
	return math.Acos(clampUnit(a.Dot(b)))
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// cubicBezier3 evaluates a cubic Bézier curve at t.
func cubicBezier3(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	u := 1 - t
	u2 := u * u
	t2 := t * t
	return p0.Mul(u2 * u).
		Add(p1.Mul(3 * u2 * t)).
		Add(p2.Mul(3 * u * t2)).
		Add(p3.Mul(t2 * t))
}

// circleLatLng returns n points on a small circle of angular radius
// radiusDeg around (lat, lng), in degrees.
func circleLatLng(lat, lng, radiusDeg float64, n int) [][2]float64 {
	pts := make([][2]float64, n)
	latR := lat * math.Pi / 180
	lngR := lng * math.Pi / 180
	d := radiusDeg * math.Pi / 180
	sinLat, cosLat := math.Sincos(latR)
	sinD, cosD := math.Sincos(d)
	for i := 0; i < n; i++ {
		brg := 2 * math.Pi * float64(i) / float64(n)
		sinB, cosB := math.Sincos(brg)
		pLat := math.Asin(clampUnit(sinLat*cosD + cosLat*sinD*cosB))
		pLng := lngR + math.Atan2(sinB*sinD*cosLat, cosD-sinLat*math.Sin(pLat))
		pts[i] = [2]float64{pLat * 180 / math.Pi, normalizeLng(pLng * 180 / math.Pi)}
	}
	return pts
}

func normalizeLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
