package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// arcAutoAltitudeScale sets the altitude of arcs whose record has none, as
// a fraction of half the great-circle angle.
const arcAutoAltitudeScale = 0.5

// Arc is the visual primitive bound to one flight route.
type Arc struct {
	Record     Record
	Color      Color
	Altitude   float64 // target altitude, as a fraction of GlobeRadius
	Stroke     float64 // ribbon width in degrees of arc
	InitialGap float64 // dash gap preceding the first dash, in arc lengths

	startLat, startLng float64
	endLat, endLng     float64

	dashLength  float64
	dashGap     float64
	dashSpeed   float64 // arc lengths per second
	resolution  int
	rise        *gween.Tween
	riseSeconds float64

	current float64      // altitude the points were built for
	points  []mgl64.Vec3 // globe-local curve samples
	relLen  []float64    // cumulative length fraction per sample
	phase   float64      // dash pattern offset, in arc lengths
}

func newArc(f FlightRoute, cfg ArcLayer) *Arc {
	a := &Arc{
		Record:     f,
		Color:      cfg.Color.Eval(f),
		Altitude:   cfg.Altitude.Eval(f),
		Stroke:     cfg.Stroke.Eval(f),
		InitialGap: cfg.DashInitialGap.Eval(f),
		startLat:   f.StartLat,
		startLng:   f.StartLng,
		endLat:     f.EndLat,
		endLng:     f.EndLng,
		dashLength: cfg.DashLength,
		dashGap:    cfg.DashGap,
		resolution: cfg.CurveResolution,
	}
	if a.resolution < 2 {
		a.resolution = 64
	}
	if cfg.DashAnimateTime > 0 {
		a.dashSpeed = 1 / cfg.DashAnimateTime.Seconds()
	}
	if cfg.TransitionDuration > 0 {
		a.riseSeconds = cfg.TransitionDuration.Seconds()
		a.rise = gween.New(0, 1, float32(a.riseSeconds), ease.InOutQuad)
	}
	a.phase = a.InitialGap
	a.rebuild(a.targetAltitude())
	return a
}

// targetAltitude resolves the configured altitude, deriving one from the
// route length when the record carries none.
func (a *Arc) targetAltitude() float64 {
	if a.Altitude > 0 {
		return a.Altitude
	}
	return greatCircleAngle(a.startLat, a.startLng, a.endLat, a.endLng) / 2 * arcAutoAltitudeScale
}

// CurrentAltitude returns the altitude the arc is drawn at right now, which
// differs from Altitude only while the rise transition runs.
func (a *Arc) CurrentAltitude() float64 {
	return a.current
}

// Points returns the globe-local curve samples.
func (a *Arc) Points() []mgl64.Vec3 {
	return a.points
}

// animate sets dash offset and rise transition for an elapsed time. It is a
// pure function of elapsed; calling it twice with the same value is a no-op.
func (a *Arc) animate(elapsed float64) {
	a.phase = a.InitialGap + elapsed*a.dashSpeed
	alt := a.targetAltitude()
	if a.rise != nil {
		t := math.Min(math.Max(elapsed, 0), a.riseSeconds)
		k, _ := a.rise.Set(float32(t))
		alt *= float64(k)
	}
	if alt != a.current {
		a.rebuild(alt)
	}
}

// rebuild samples the cubic Bézier through the start point, two control
// points lifted to 1.5x altitude at 25% and 75% of the great circle, and the
// end point.
func (a *Arc) rebuild(alt float64) {
	a.current = alt
	interp := geoInterpolator(a.startLat, a.startLng, a.endLat, a.endLng)
	m1Lat, m1Lng := interp(0.25)
	m2Lat, m2Lng := interp(0.75)
	p0 := LatLngToVector(a.startLat, a.startLng, 0)
	p1 := LatLngToVector(m1Lat, m1Lng, alt*1.5)
	p2 := LatLngToVector(m2Lat, m2Lng, alt*1.5)
	p3 := LatLngToVector(a.endLat, a.endLng, 0)

	n := a.resolution + 1
	if cap(a.points) < n {
		a.points = make([]mgl64.Vec3, n)
		a.relLen = make([]float64, n)
	}
	a.points = a.points[:n]
	a.relLen = a.relLen[:n]
	total := 0.0
	for i := 0; i < n; i++ {
		a.points[i] = cubicBezier3(p0, p1, p2, p3, float64(i)/float64(a.resolution))
		if i > 0 {
			total += a.points[i].Sub(a.points[i-1]).Len()
		}
		a.relLen[i] = total
	}
	if total > 0 {
		for i := range a.relLen {
			a.relLen[i] /= total
		}
	}
}

// DashVisible reports whether relative position t in [0, 1] along the arc
// is inside a dash at the current animation phase.
func (a *Arc) DashVisible(t float64) bool {
	period := a.dashLength + a.dashGap
	if period <= 0 {
		return true
	}
	u := math.Mod(t-a.phase, period)
	if u < 0 {
		u += period
	}
	return u < a.dashLength
}

// DashIntervals returns the visible [from, to] spans of the arc, clipped to
// [0, 1], at the current animation phase.
func (a *Arc) DashIntervals() [][2]float64 {
	period := a.dashLength + a.dashGap
	if period <= 0 || a.dashGap <= 0 {
		return [][2]float64{{0, 1}}
	}
	var out [][2]float64
	kMin := math.Floor((-a.phase - a.dashLength) / period)
	kMax := math.Ceil((1 - a.phase) / period)
	for k := kMin; k <= kMax; k++ {
		s := a.phase + k*period
		e := s + a.dashLength
		if e <= 0 || s >= 1 {
			continue
		}
		out = append(out, [2]float64{math.Max(s, 0), math.Min(e, 1)})
	}
	return out
}

// pointAt returns the curve position at relative length t in [0, 1].
func (a *Arc) pointAt(t float64) mgl64.Vec3 {
	n := len(a.points)
	if n == 0 {
		return mgl64.Vec3{}
	}
	if t <= 0 {
		return a.points[0]
	}
	if t >= 1 {
		return a.points[n-1]
	}
	for i := 1; i < n; i++ {
		if a.relLen[i] >= t {
			span := a.relLen[i] - a.relLen[i-1]
			if span <= 0 {
				return a.points[i]
			}
			k := (t - a.relLen[i-1]) / span
			return a.points[i-1].Add(a.points[i].Sub(a.points[i-1]).Mul(k))
		}
	}
	return a.points[n-1]
}

// segment returns the curve samples covering [from, to], with interpolated
// end points, appended to buf.
func (a *Arc) segment(buf []mgl64.Vec3, from, to float64) []mgl64.Vec3 {
	buf = append(buf, a.pointAt(from))
	for i, r := range a.relLen {
		if r > from && r < to {
			buf = append(buf, a.points[i])
		}
	}
	return append(buf, a.pointAt(to))
}
