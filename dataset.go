package globe

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	geojson "github.com/paulmach/go.geojson"
)

//go:embed data/*.json
var embeddedData embed.FS

// Default dataset file names inside a dataset filesystem.
const (
	FlightsFile   = "my-flights.json"
	AirportsFile  = "my-airports.json"
	CountriesFile = "globe-data-min.json"
)

// Record is a dataset row that layer bindings can read fields from.
type Record interface {
	// Number returns a numeric field by name.
	Number(field string) (float64, bool)
	// Text returns a string field by name.
	Text(field string) (string, bool)
}

// FlightRoute is one flown route, drawn as an arc.
type FlightRoute struct {
	StartLat float64 `json:"startLat"`
	StartLng float64 `json:"startLng"`
	EndLat   float64 `json:"endLat"`
	EndLng   float64 `json:"endLng"`
	ArcAlt   float64 `json:"arcAlt"`
	Order    int     `json:"order"`
	From     string  `json:"from,omitempty"`
	To       string  `json:"to,omitempty"`
}

// Number implements Record.
func (f FlightRoute) Number(field string) (float64, bool) {
	switch field {
	case "startLat":
		return f.StartLat, true
	case "startLng":
		return f.StartLng, true
	case "endLat":
		return f.EndLat, true
	case "endLng":
		return f.EndLng, true
	case "arcAlt":
		return f.ArcAlt, true
	case "order":
		return float64(f.Order), true
	}
	return 0, false
}

// Text implements Record.
func (f FlightRoute) Text(field string) (string, bool) {
	switch field {
	case "from":
		return f.From, true
	case "to":
		return f.To, true
	}
	return "", false
}

// Airport is a visited airport, drawn as a point marker and a label.
type Airport struct {
	Name string  `json:"text"`
	City string  `json:"city,omitempty"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Size float64 `json:"size"`
}

// Number implements Record.
func (a Airport) Number(field string) (float64, bool) {
	switch field {
	case "lat":
		return a.Lat, true
	case "lng":
		return a.Lng, true
	case "size":
		return a.Size, true
	}
	return 0, false
}

// Text implements Record.
func (a Airport) Text(field string) (string, bool) {
	switch field {
	case "text":
		return a.Name, true
	case "city":
		return a.City, true
	}
	return "", false
}

// Datasets bundles the static data the globe layers are bound to. Loaded
// once before initialization; never reloaded.
type Datasets struct {
	Flights   []FlightRoute
	Airports  []Airport
	Countries *geojson.FeatureCollection
}

// DefaultDatasets returns the datasets embedded in the package.
func DefaultDatasets() (Datasets, error) {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		return Datasets{}, fmt.Errorf("load datasets: %w", err)
	}
	return LoadDatasets(sub)
}

// LoadDatasets reads FlightsFile, AirportsFile and CountriesFile from fsys.
func LoadDatasets(fsys fs.FS) (Datasets, error) {
	var d Datasets

	var flights struct {
		Flights []FlightRoute `json:"flights"`
	}
	if err := readJSON(fsys, FlightsFile, &flights); err != nil {
		return Datasets{}, err
	}
	d.Flights = flights.Flights

	var airports struct {
		Airports []Airport `json:"airports"`
	}
	if err := readJSON(fsys, AirportsFile, &airports); err != nil {
		return Datasets{}, err
	}
	d.Airports = airports.Airports

	raw, err := fs.ReadFile(fsys, CountriesFile)
	if err != nil {
		return Datasets{}, fmt.Errorf("load datasets: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return Datasets{}, fmt.Errorf("load datasets: parse %s: %w", CountriesFile, err)
	}
	d.Countries = fc

	return d, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("load datasets: parse %s: %w", name, err)
	}
	return nil
}
