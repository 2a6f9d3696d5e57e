package globe

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestControls(mutate func(*ControlsConfig)) *OrbitControls {
	cam := NewPerspectiveCamera(75, 800.0/600.0, 0.1, 100)
	cam.SetPosition(0, 0, 85)
	cam.LookAt(mgl64.Vec3{})
	vp := &Viewport{}
	vp.Resize(800, 600, 1)
	cfg := DefaultConfig().Controls
	if mutate != nil {
		mutate(&cfg)
	}
	return NewOrbitControls(cam, vp, cfg)
}

func TestSphericalRoundTrip(t *testing.T) {
	for _, v := range []mgl64.Vec3{{0, 0, 85}, {10, 20, 30}, {-5, -40, 2}} {
		vecNear(t, "round trip", sphericalFromVec(v).vec(), v, 1e-9)
	}
	if s := sphericalFromVec(mgl64.Vec3{}); s != (spherical{}) {
		t.Errorf("zero vector = %+v", s)
	}
}

func TestOrbitControlsInitialState(t *testing.T) {
	c := newTestControls(nil)
	if !approxEqual(c.Distance(), 85, 1e-9) {
		t.Errorf("Distance = %v, want 85", c.Distance())
	}
	if !approxEqual(c.PolarAngle(), math.Pi/2, 1e-9) {
		t.Errorf("PolarAngle = %v, want π/2", c.PolarAngle())
	}
	if c.Update() {
		t.Error("idle Update reported movement")
	}
}

func TestOrbitControlsRotateWithoutDamping(t *testing.T) {
	c := newTestControls(func(cfg *ControlsConfig) {
		cfg.EnableDamping = false
		cfg.RotateSpeed = 1
	})
	c.Rotate(60, 0)
	if !c.Update() {
		t.Error("Update after Rotate reported no movement")
	}
	want := -2 * math.Pi * 60 / 600
	if !approxEqual(c.AzimuthalAngle(), want, 1e-9) {
		t.Errorf("AzimuthalAngle = %v, want %v", c.AzimuthalAngle(), want)
	}
	if !approxEqual(c.Distance(), 85, 1e-9) {
		t.Errorf("rotation changed the distance to %v", c.Distance())
	}
	// The camera keeps looking at the target.
	vecNear(t, "target", c.Camera.Target(), c.Target, 1e-12)
}

func TestOrbitControlsDampingConverges(t *testing.T) {
	c := newTestControls(nil)
	c.Rotate(30, 0)
	want := -2 * math.Pi * 30 * c.RotateSpeed / 600

	c.Update()
	first := c.AzimuthalAngle()
	if !approxEqual(first, want*c.DampingFactor, 1e-9) {
		t.Errorf("first step = %v, want %v", first, want*c.DampingFactor)
	}
	for i := 0; i < 3000; i++ {
		c.Update()
	}
	if !approxEqual(c.AzimuthalAngle(), want, 1e-6) {
		t.Errorf("converged azimuth = %v, want %v", c.AzimuthalAngle(), want)
	}
}

func TestOrbitControlsPolarClamp(t *testing.T) {
	c := newTestControls(nil)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		c.Rotate(rng.Float64()*2000-1000, rng.Float64()*2000-1000)
		c.Update()
		phi := c.PolarAngle()
		if phi < c.MinPolarAngle-1e-9 || phi > c.MaxPolarAngle+1e-9 {
			t.Fatalf("step %d: polar angle %v outside [%v, %v]", i, phi, c.MinPolarAngle, c.MaxPolarAngle)
		}
	}
}

func TestOrbitControlsWheel(t *testing.T) {
	c := newTestControls(nil)
	c.Wheel(-100)
	if !c.Update() {
		t.Error("zoom not reported as movement")
	}
	if !approxEqual(c.Distance(), 85*0.95, 1e-9) {
		t.Errorf("Distance after zoom in = %v, want %v", c.Distance(), 85*0.95)
	}
	c.Wheel(100)
	c.Update()
	if !approxEqual(c.Distance(), 85, 1e-9) {
		t.Errorf("Distance after zoom out = %v, want 85", c.Distance())
	}
}

func TestOrbitControlsDistanceClamp(t *testing.T) {
	c := newTestControls(func(cfg *ControlsConfig) {
		cfg.MinDistance = 50
		cfg.MaxDistance = 90
	})
	for i := 0; i < 50; i++ {
		c.Wheel(-1)
		c.Update()
	}
	if !approxEqual(c.Distance(), 50, 1e-9) {
		t.Errorf("Distance = %v, want 50", c.Distance())
	}
	for i := 0; i < 50; i++ {
		c.Dolly(0.5)
		c.Update()
	}
	if !approxEqual(c.Distance(), 90, 1e-9) {
		t.Errorf("Distance = %v, want 90", c.Distance())
	}
}

func TestOrbitControlsPanDisabled(t *testing.T) {
	c := newTestControls(nil)
	c.Pan(100, 100)
	c.Update()
	vecNear(t, "target", c.Target, mgl64.Vec3{}, 1e-12)
}

func TestOrbitControlsPanEnabled(t *testing.T) {
	c := newTestControls(func(cfg *ControlsConfig) {
		cfg.EnablePan = true
		cfg.EnableDamping = false
	})
	c.Pan(100, 0)
	c.Update()
	if c.Target.X() >= 0 {
		t.Errorf("dragging right should move the target left, got %v", c.Target)
	}
	if !approxEqual(c.Distance(), 85, 1e-9) {
		t.Errorf("pan changed the distance to %v", c.Distance())
	}
}

func TestOrbitControlsDispose(t *testing.T) {
	c := newTestControls(nil)
	c.Dispose()
	before := c.Camera.Position
	c.Rotate(500, 0)
	c.Wheel(-1)
	if c.Update() {
		t.Error("disposed controls reported movement")
	}
	if c.Camera.Position != before {
		t.Error("disposed controls moved the camera")
	}
}
