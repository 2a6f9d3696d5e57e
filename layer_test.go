package globe

import "testing"

func TestNumberAttrEval(t *testing.T) {
	rec := Airport{Size: 2}
	tests := []struct {
		name string
		attr NumberAttr
		rec  Record
		want float64
	}{
		{"const", Const(0.5), rec, 0.5},
		{"field", FieldOf("size", 1), rec, 2},
		{"missing field", FieldOf("altitude", 1), rec, 1},
		{"nil record", FieldOf("size", 1), nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attr.Eval(tt.rec); got != tt.want {
				t.Errorf("Eval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorAttrEval(t *testing.T) {
	white := Color{1, 1, 1, 1}
	tests := []struct {
		name string
		attr ColorAttr
		rec  Record
		want Color
	}{
		{"const", ColorAttr{Value: white}, Airport{}, white},
		{"field", ColorAttr{Field: "city", Value: white}, Airport{City: "#000"}, Color{0, 0, 0, 1}},
		{"unparseable field", ColorAttr{Field: "city", Value: white}, Airport{City: "London"}, white},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attr.Eval(tt.rec); got != tt.want {
				t.Errorf("Eval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextAttrEval(t *testing.T) {
	a := Airport{Name: "JFK"}
	if got := (TextAttr{Field: "text"}).Eval(a); got != "JFK" {
		t.Errorf("field = %q", got)
	}
	if got := (TextAttr{Value: "x"}).Eval(a); got != "x" {
		t.Errorf("const = %q", got)
	}
}

func TestDefaultLayers(t *testing.T) {
	l := DefaultLayers()
	if l.Arcs.Color.Value != MustParseColor("#E867B7") {
		t.Errorf("arc color = %v", l.Arcs.Color.Value)
	}
	if l.Arcs.DashLength != 0.9 || l.Arcs.DashGap != 4 {
		t.Errorf("dash = %v/%v", l.Arcs.DashLength, l.Arcs.DashGap)
	}
	if l.Arcs.Altitude.Field != "arcAlt" || l.Arcs.DashInitialGap.Field != "order" {
		t.Error("arcs should read arcAlt and order from the record")
	}
	if !l.Points.Merge || l.Points.Radius.Value != 0.05 || l.Points.Altitude.Value != 0.1 {
		t.Errorf("points = %+v", l.Points)
	}
	if l.Labels.Size.Field != "size" || l.Labels.Resolution != 6 || l.Labels.DotRadius.Value != 0.3 {
		t.Errorf("labels = %+v", l.Labels)
	}
	if l.HexPolygons.Resolution != 3 || l.HexPolygons.Margin != 0.7 {
		t.Errorf("hex = %+v", l.HexPolygons)
	}
	if !l.Atmosphere.Show || l.Atmosphere.Altitude != 0.2 {
		t.Errorf("atmosphere = %+v", l.Atmosphere)
	}
}
