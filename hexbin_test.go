package globe

import (
	"math"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func squareFeature(minLng, minLat, maxLng, maxLat float64) *geojson.Feature {
	return geojson.NewPolygonFeature([][][]float64{{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}})
}

func TestHexEdgeDegrees(t *testing.T) {
	if got := HexEdgeDegrees(3); !approxEqual(got, 59.81/kmPerDegree, 1e-12) {
		t.Errorf("res 3 = %v", got)
	}
	if HexEdgeDegrees(-1) != HexEdgeDegrees(0) || HexEdgeDegrees(99) != HexEdgeDegrees(len(hexEdgeKm)-1) {
		t.Error("out-of-range resolutions should clamp")
	}
	for r := 1; r < len(hexEdgeKm); r++ {
		if HexEdgeDegrees(r) >= HexEdgeDegrees(r-1) {
			t.Errorf("resolution %d is not finer than %d", r, r-1)
		}
	}
}

func TestBuildHexCellsInsidePolygon(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(squareFeature(0, 0, 20, 20))
	cfg := DefaultLayers().HexPolygons
	cfg.Resolution = 1

	cells := BuildHexCells(fc, cfg)
	if len(cells) == 0 {
		t.Fatal("no cells")
	}
	poly := orb.Polygon{orb.Ring{{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0}}}
	for _, c := range cells {
		if !planar.PolygonContains(poly, orb.Point{c.Lng, c.Lat}) {
			t.Errorf("cell center (%v, %v) outside polygon", c.Lat, c.Lng)
		}
		if len(c.Corners) != 6 {
			t.Errorf("cell has %d corners", len(c.Corners))
		}
		if c.Color != cfg.Color.Value || c.Altitude != cfg.Altitude.Value {
			t.Errorf("cell attributes = %v/%v", c.Color, c.Altitude)
		}
	}
}

func TestBuildHexCellsMargin(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(squareFeature(0, 0, 20, 20))
	cfg := DefaultLayers().HexPolygons
	cfg.Resolution = 1
	cfg.Margin = 0.25

	want := HexEdgeDegrees(1) * 0.75
	for _, c := range BuildHexCells(fc, cfg) {
		for _, corner := range c.Corners {
			d := greatCircleAngle(c.Lat, c.Lng, corner[0], corner[1]) * 180 / math.Pi
			if !approxEqual(d, want, 1e-9) {
				t.Fatalf("corner at %v degrees, want %v", d, want)
			}
		}
	}
}

func TestBuildHexCellsOverlapClaimedOnce(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(squareFeature(0, 0, 20, 20))
	fc.AddFeature(squareFeature(10, 10, 30, 30))
	cfg := DefaultLayers().HexPolygons
	cfg.Resolution = 1

	seen := map[[2]float64]int{}
	for _, c := range BuildHexCells(fc, cfg) {
		key := [2]float64{c.Lat, c.Lng}
		if prev, ok := seen[key]; ok {
			t.Fatalf("center %v claimed by features %d and %d", key, prev, c.Feature)
		}
		seen[key] = c.Feature
	}
	for key, feature := range seen {
		if key[0] < 20 && key[1] < 20 && key[0] > 0 && key[1] > 0 && feature != 0 {
			t.Errorf("center %v inside the first feature was claimed by %d", key, feature)
		}
	}
}

func TestBuildHexCellsMultiPolygonAndSkips(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewPointFeature([]float64{5, 5}))
	fc.AddFeature(geojson.NewMultiPolygonFeature(
		[][][]float64{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
		[][][]float64{{{40, 0}, {50, 0}, {50, 10}, {40, 10}, {40, 0}}},
	))
	cfg := DefaultLayers().HexPolygons
	cfg.Resolution = 1

	var west, east int
	for _, c := range BuildHexCells(fc, cfg) {
		if c.Feature != 1 {
			t.Fatalf("cell from feature %d, want 1", c.Feature)
		}
		if c.Lng < 20 {
			west++
		} else {
			east++
		}
	}
	if west == 0 || east == 0 {
		t.Errorf("west=%d east=%d, want cells in both parts", west, east)
	}
}

func TestBuildHexCellsColorFromProperty(t *testing.T) {
	f := squareFeature(0, 0, 20, 20)
	f.SetProperty("fill", "#ff0000")
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(f)
	cfg := DefaultLayers().HexPolygons
	cfg.Resolution = 1
	cfg.Color.Field = "fill"

	cells := BuildHexCells(fc, cfg)
	if len(cells) == 0 {
		t.Fatal("no cells")
	}
	if cells[0].Color != (Color{1, 0, 0, 1}) {
		t.Errorf("Color = %v, want red", cells[0].Color)
	}
}

func TestBuildHexCellsEmpty(t *testing.T) {
	if cells := BuildHexCells(nil, DefaultLayers().HexPolygons); cells != nil {
		t.Errorf("nil collection gave %d cells", len(cells))
	}
}
