package globe

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestBlendModeEbitenBlend(t *testing.T) {
	if BlendNormal.EbitenBlend() != ebiten.BlendSourceOver {
		t.Error("BlendNormal should be source-over")
	}
	if BlendAdd.EbitenBlend() != ebiten.BlendLighter {
		t.Error("BlendAdd should be lighter")
	}
}

func TestHex(t *testing.T) {
	c := Hex(0xff8000)
	if c.R != 1 || !approxEqual(c.G, 128.0/255, 1e-12) || c.B != 0 || c.A != 1 {
		t.Errorf("Hex(0xff8000) = %v", c)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#fff", Color{1, 1, 1, 1}},
		{"#000000", Color{0, 0, 0, 1}},
		{"  #ff0000 ", Color{1, 0, 0, 1}},
		{"rgba(255, 255, 255, 1)", Color{1, 1, 1, 1}},
		{"rgba(0,0,255,0.25)", Color{0, 0, 1, 0.25}},
		{"rgb(255, 0, 0)", Color{1, 0, 0, 1}},
		{"rgba(300, 0, 0, 2)", Color{1, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "white", "#12", "rgba(1, 2)", "rgba(a, b, c)", "rgba(1, 2, 3"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) succeeded", in)
		}
	}
}

func TestMustParseColorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseColor("bogus")
}

func TestColorTextRoundTrip(t *testing.T) {
	for _, c := range []Color{Hex(0xe867b7), {1, 1, 1, 0.5}} {
		b, err := c.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Color
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if got.Hex() != c.Hex() || !approxEqual(got.A, c.A, 1e-9) {
			t.Errorf("%q decoded to %v, want %v", b, got, c)
		}
	}
}

func TestColorLerp(t *testing.T) {
	got := Color{0, 0, 0, 1}.Lerp(Color{1, 1, 1, 0}, 0.25)
	want := Color{0.25, 0.25, 0.25, 0.75}
	if got != want {
		t.Errorf("Lerp = %v, want %v", got, want)
	}
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	got := Color{1, 0.5, 0, 0.5}.toRGBA()
	if got.R != 128 || got.G != 64 || got.B != 0 || got.A != 128 {
		t.Errorf("toRGBA = %v", got)
	}
}
