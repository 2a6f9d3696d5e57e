package globe

import "time"

// NumberAttr binds a numeric visual attribute either to a record field or
// to a constant. When Field is set and present on the record its value
// wins; otherwise Value is used.
type NumberAttr struct {
	Field string  `toml:"field"`
	Value float64 `toml:"value"`
}

// Const returns a NumberAttr that ignores the record.
func Const(v float64) NumberAttr { return NumberAttr{Value: v} }

// FieldOf returns a NumberAttr read from the named record field, falling
// back to fallback when the record lacks it.
func FieldOf(field string, fallback float64) NumberAttr {
	return NumberAttr{Field: field, Value: fallback}
}

// Eval resolves the attribute for one record.
func (a NumberAttr) Eval(r Record) float64 {
	if a.Field != "" && r != nil {
		if v, ok := r.Number(a.Field); ok {
			return v
		}
	}
	return a.Value
}

// ColorAttr binds a color attribute. Field names a text field holding a CSS
// color string.
type ColorAttr struct {
	Field string `toml:"field"`
	Value Color  `toml:"value"`
}

// Eval resolves the attribute for one record. Unparseable field values fall
// back to Value.
func (a ColorAttr) Eval(r Record) Color {
	if a.Field != "" && r != nil {
		if s, ok := r.Text(a.Field); ok {
			if c, err := ParseColor(s); err == nil {
				return c
			}
		}
	}
	return a.Value
}

// TextAttr binds a text attribute.
type TextAttr struct {
	Field string `toml:"field"`
	Value string `toml:"value"`
}

// Eval resolves the attribute for one record.
func (a TextAttr) Eval(r Record) string {
	if a.Field != "" && r != nil {
		if s, ok := r.Text(a.Field); ok {
			return s
		}
	}
	return a.Value
}

// ArcLayer maps flight routes to animated dashed arcs.
type ArcLayer struct {
	Color              ColorAttr     `toml:"color"`
	Altitude           NumberAttr    `toml:"altitude"`
	Stroke             NumberAttr    `toml:"stroke"`
	DashLength         float64       `toml:"dash_length"`
	DashGap            float64       `toml:"dash_gap"`
	DashInitialGap     NumberAttr    `toml:"dash_initial_gap"`
	DashAnimateTime    time.Duration `toml:"dash_animate_time"`
	TransitionDuration time.Duration `toml:"transition_duration"`
	CurveResolution    int           `toml:"curve_resolution"`
}

// PointLayer maps airports to cylinder markers.
type PointLayer struct {
	Color    ColorAttr  `toml:"color"`
	Altitude NumberAttr `toml:"altitude"`
	Radius   NumberAttr `toml:"radius"`
	Merge    bool       `toml:"merge"`
}

// LabelLayer maps airports to dot + text labels.
type LabelLayer struct {
	Color      ColorAttr  `toml:"color"`
	Text       TextAttr   `toml:"text"`
	Size       NumberAttr `toml:"size"`
	DotRadius  NumberAttr `toml:"dot_radius"`
	Altitude   NumberAttr `toml:"altitude"`
	Resolution int        `toml:"resolution"`
}

// HexPolygonLayer maps country polygons to hexagonal cells.
type HexPolygonLayer struct {
	Color      ColorAttr  `toml:"color"`
	Resolution int        `toml:"resolution"`
	Margin     float64    `toml:"margin"`
	Altitude   NumberAttr `toml:"altitude"`
}

// AtmosphereLayer configures the glow halo around the globe.
type AtmosphereLayer struct {
	Show     bool    `toml:"show"`
	Color    Color   `toml:"color"`
	Altitude float64 `toml:"altitude"`
}

// Layers is the full binding table for the four overlay layers.
type Layers struct {
	Arcs        ArcLayer        `toml:"arcs"`
	Points      PointLayer      `toml:"points"`
	Labels      LabelLayer      `toml:"labels"`
	HexPolygons HexPolygonLayer `toml:"hex_polygons"`
	Atmosphere  AtmosphereLayer `toml:"atmosphere"`
}

// DefaultLayers returns the fixed visual configuration of the flight globe.
func DefaultLayers() Layers {
	return Layers{
		Arcs: ArcLayer{
			Color:              ColorAttr{Value: MustParseColor("#E867B7")},
			Altitude:           FieldOf("arcAlt", 0),
			Stroke:             Const(0.3),
			DashLength:         0.9,
			DashGap:            4,
			DashInitialGap:     FieldOf("order", 0),
			DashAnimateTime:    2000 * time.Millisecond,
			TransitionDuration: 2000 * time.Millisecond,
			CurveResolution:    64,
		},
		Points: PointLayer{
			Color:    ColorAttr{Value: MustParseColor("#4169e1")},
			Altitude: Const(0.1),
			Radius:   Const(0.05),
			Merge:    true,
		},
		Labels: LabelLayer{
			Color:      ColorAttr{Value: MustParseColor("#fff")},
			Text:       TextAttr{Value: ""},
			Size:       FieldOf("size", 0.5),
			DotRadius:  Const(0.3),
			Altitude:   Const(0.1),
			Resolution: 6,
		},
		HexPolygons: HexPolygonLayer{
			Color:      ColorAttr{Value: MustParseColor("rgba(255, 255, 255, 1)")},
			Resolution: 3,
			Margin:     0.7,
			Altitude:   Const(0.001),
		},
		Atmosphere: AtmosphereLayer{
			Show:     true,
			Color:    MustParseColor("#4169e1"),
			Altitude: 0.2,
		},
	}
}
