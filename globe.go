package globe

import "github.com/go-gl/mathgl/mgl64"

// Point is the marker bound to one airport record.
type Point struct {
	Record   Record
	Lat, Lng float64
	Color    Color
	Altitude float64
	Radius   float64
}

// Label is the dot-and-text marker bound to one airport record. An empty
// Text draws the dot only.
type Label struct {
	Record    Record
	Lat, Lng  float64
	Text      string
	Color     Color
	Size      float64
	DotRadius float64
	Altitude  float64
}

// Globe is the composite globe primitive: a shaded sphere plus its overlay
// layers. The embedded Object is the pivot carrying the fixed orientation
// offset and scale; the spin object below it carries the time-driven
// rotation, so overwriting the spin never disturbs the offset.
type Globe struct {
	*Object

	Material *PhongMaterial
	Sphere   *Geometry

	Arcs       []*Arc
	Points     []*Point
	Labels     []*Label
	Hexes      []HexCell
	Atmosphere AtmosphereLayer

	// MergePoints draws all point markers as a single command.
	MergePoints bool
	// LabelResolution is the number of segments of each label dot.
	LabelResolution int
	// SpinRate is the time-driven rotation in radians per second.
	SpinRate float64

	spin *Object
}

// NewGlobe builds the globe primitive and binds every record of data to one
// primitive through layers. Each flight yields one Arc, each airport one
// Point and one Label.
func NewGlobe(data Datasets, layers Layers, cfg GlobeConfig) *Globe {
	pivot := &Object{Name: "globe", Type: ObjectTypeGlobe}
	objectDefaults(pivot)
	spin := NewGroup("globe-spin")
	pivot.AddChild(spin)

	w, h := cfg.WidthSegments, cfg.HeightSegments
	if w <= 0 {
		w = 75
	}
	if h <= 0 {
		h = 75
	}

	g := &Globe{
		Object:          pivot,
		Material:        NewPhongMaterial(),
		Sphere:          NewSphereGeometry(GlobeRadius, w, h),
		Atmosphere:      layers.Atmosphere,
		MergePoints:     layers.Points.Merge,
		LabelResolution: layers.Labels.Resolution,
		SpinRate:        cfg.SpinRate,
		spin:            spin,
	}
	pivot.UserData = g

	g.Arcs = make([]*Arc, 0, len(data.Flights))
	for _, f := range data.Flights {
		g.Arcs = append(g.Arcs, newArc(f, layers.Arcs))
	}

	g.Points = make([]*Point, 0, len(data.Airports))
	g.Labels = make([]*Label, 0, len(data.Airports))
	for _, a := range data.Airports {
		g.Points = append(g.Points, &Point{
			Record:   a,
			Lat:      a.Lat,
			Lng:      a.Lng,
			Color:    layers.Points.Color.Eval(a),
			Altitude: layers.Points.Altitude.Eval(a),
			Radius:   layers.Points.Radius.Eval(a),
		})
		g.Labels = append(g.Labels, &Label{
			Record:    a,
			Lat:       a.Lat,
			Lng:       a.Lng,
			Text:      layers.Labels.Text.Eval(a),
			Color:     layers.Labels.Color.Eval(a),
			Size:      layers.Labels.Size.Eval(a),
			DotRadius: layers.Labels.DotRadius.Eval(a),
			Altitude:  layers.Labels.Altitude.Eval(a),
		})
	}

	g.Hexes = BuildHexCells(data.Countries, layers.HexPolygons)

	g.SetRotation(Euler{X: cfg.Orientation[0], Y: cfg.Orientation[1], Z: cfg.Orientation[2]})
	g.SetScale(cfg.Scale)
	g.ApplyMaterial(cfg.Material)
	return g
}

// ApplyMaterial overrides the surface shading parameters.
func (g *Globe) ApplyMaterial(m MaterialConfig) {
	g.Material.Color = m.Color
	g.Material.Emissive = m.Emissive
	g.Material.EmissiveIntensity = m.EmissiveIntensity
	g.Material.Shininess = m.Shininess
}

// SetSpin overwrites the time-driven rotation about the globe's own Y axis.
func (g *Globe) SetSpin(radians float64) {
	g.spin.SetRotationY(radians)
}

// Spin returns the current time-driven rotation.
func (g *Globe) Spin() float64 {
	return g.spin.Rotation.Y
}

// SpinObject returns the object every overlay is positioned relative to.
func (g *Globe) SpinObject() *Object {
	return g.spin
}

// Animate advances arc dash offsets and rise transitions to elapsed
// seconds. It depends only on elapsed, never on the previous frame.
func (g *Globe) Animate(elapsed float64) {
	for _, a := range g.Arcs {
		a.animate(elapsed)
	}
}

// LocalToWorld maps a globe-local point (before orientation, spin and
// scale) to world space using the matrices of the last UpdateMatrixWorld.
func (g *Globe) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return g.spin.LocalToWorld(p)
}

// WorldRadius returns the radius of the sphere in world units.
func (g *Globe) WorldRadius() float64 {
	return GlobeRadius * g.Scale.X()
}

// Center returns the sphere center in world space.
func (g *Globe) Center() mgl64.Vec3 {
	return g.WorldPosition()
}
