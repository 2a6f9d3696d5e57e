package globe

import (
	"math"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// hexEdgeKm is the average hexagon edge length per resolution of the
// hierarchical hexagonal grid the hex-polygon layer is modelled on.
var hexEdgeKm = [...]float64{1107.71, 418.68, 158.24, 59.81, 22.61, 8.54, 3.23, 1.22}

const kmPerDegree = 111.195

// HexCell is one filled hexagon of the hex-polygon layer.
type HexCell struct {
	Feature  int          // index into the country FeatureCollection
	Lat, Lng float64      // cell center
	Corners  [][2]float64 // lat/lng of the six corners after the margin is applied
	Color    Color
	Altitude float64
}

// HexEdgeDegrees returns the edge length of a cell at the given resolution,
// in degrees of arc. Resolutions outside the table are clamped.
func HexEdgeDegrees(resolution int) float64 {
	if resolution < 0 {
		resolution = 0
	}
	if resolution >= len(hexEdgeKm) {
		resolution = len(hexEdgeKm) - 1
	}
	return hexEdgeKm[resolution] / kmPerDegree
}

type countryShape struct {
	index int
	shape orb.MultiPolygon
	bound orb.Bound
}

// countryShapes converts the polygonal features of fc to orb geometry.
// Non-polygon features are skipped.
func countryShapes(fc *geojson.FeatureCollection) []countryShape {
	if fc == nil {
		return nil
	}
	var out []countryShape
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		var mp orb.MultiPolygon
		switch {
		case f.Geometry.IsPolygon():
			mp = orb.MultiPolygon{toOrbPolygon(f.Geometry.Polygon)}
		case f.Geometry.IsMultiPolygon():
			for _, p := range f.Geometry.MultiPolygon {
				mp = append(mp, toOrbPolygon(p))
			}
		default:
			continue
		}
		if len(mp) == 0 {
			continue
		}
		out = append(out, countryShape{index: i, shape: mp, bound: mp.Bound()})
	}
	return out
}

func toOrbPolygon(rings [][][]float64) orb.Polygon {
	poly := make(orb.Polygon, 0, len(rings))
	for _, ring := range rings {
		r := make(orb.Ring, 0, len(ring))
		for _, pt := range ring {
			if len(pt) >= 2 {
				r = append(r, orb.Point{pt[0], pt[1]})
			}
		}
		if len(r) >= 3 {
			poly = append(poly, r)
		}
	}
	return poly
}

// BuildHexCells covers every country polygon with hexagons at the layer's
// resolution. A cell belongs to the first feature containing its center.
// Margin shrinks each hexagon toward its center by that fraction.
func BuildHexCells(fc *geojson.FeatureCollection, cfg HexPolygonLayer) []HexCell {
	shapes := countryShapes(fc)
	if len(shapes) == 0 {
		return nil
	}
	edge := HexEdgeDegrees(cfg.Resolution)
	rowStep := 1.5 * edge
	margin := math.Max(0, math.Min(cfg.Margin, 1))
	radius := edge * (1 - margin)

	var cells []HexCell
	for _, cs := range shapes {
		b := cs.bound
		feature := fc.Features[cs.index]
		rec := featureRecord{f: feature}
		color := cfg.Color.Eval(rec)
		alt := cfg.Altitude.Eval(rec)

		row0 := int(math.Floor(b.Min.Lat() / rowStep))
		row1 := int(math.Ceil(b.Max.Lat() / rowStep))
		for row := row0; row <= row1; row++ {
			lat := float64(row) * rowStep
			if lat < -90 || lat > 90 {
				continue
			}
			colStep := math.Sqrt(3) * edge / math.Max(math.Cos(lat*math.Pi/180), 0.05)
			offset := 0.0
			if row%2 != 0 {
				offset = colStep / 2
			}
			col0 := int(math.Floor((b.Min.Lon() - offset) / colStep))
			col1 := int(math.Ceil((b.Max.Lon() - offset) / colStep))
			for col := col0; col <= col1; col++ {
				lng := float64(col)*colStep + offset
				pt := orb.Point{lng, lat}
				if !b.Contains(pt) || !planar.MultiPolygonContains(cs.shape, pt) {
					continue
				}
				if claimedBefore(shapes, cs.index, pt) {
					continue
				}
				cells = append(cells, HexCell{
					Feature:  cs.index,
					Lat:      lat,
					Lng:      lng,
					Corners:  hexCorners(lat, lng, radius),
					Color:    color,
					Altitude: alt,
				})
			}
		}
	}
	return cells
}

// claimedBefore reports whether an earlier feature already owns pt, so that
// overlapping boundaries never produce two cells at one center.
func claimedBefore(shapes []countryShape, index int, pt orb.Point) bool {
	for _, cs := range shapes {
		if cs.index >= index {
			return false
		}
		if cs.bound.Contains(pt) && planar.MultiPolygonContains(cs.shape, pt) {
			return true
		}
	}
	return false
}

// hexCorners returns the six corners of a pointy-top hexagon of angular
// radius r (degrees) around (lat, lng).
func hexCorners(lat, lng, r float64) [][2]float64 {
	return circleLatLng(lat, lng, r, 6)
}

// featureRecord exposes GeoJSON feature properties as a Record.
type featureRecord struct {
	f *geojson.Feature
}

func (r featureRecord) Number(field string) (float64, bool) {
	if r.f == nil {
		return 0, false
	}
	v, err := r.f.PropertyFloat64(field)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r featureRecord) Text(field string) (string, bool) {
	if r.f == nil {
		return "", false
	}
	v, err := r.f.PropertyString(field)
	if err != nil {
		return "", false
	}
	return v, true
}
