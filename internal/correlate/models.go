package correlate

import (
	"time"

	"github.com/cduggan1/group-design-project-10/internal/shared/geo"
	"github.com/cduggan1/group-design-project-10/internal/weather"
)

// SegmentWeather is one waypoint of a trail with its arrival time and the
// forecast sample nearest that time. Weather is null when the forecast
// could not be resolved for the segment.
type SegmentWeather struct {
	ForecastDatetime time.Time       `json:"forecast_datetime"`
	Weather          *weather.Sample `json:"weather"`
	Coordinates      []float64       `json:"coordinates"`
}

// Geometry is the GeoJSON LineString of a trail route.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type Properties struct {
	ObjectID  int64            `json:"object_id"`
	Name      string           `json:"name"`
	Activity  string           `json:"activity"`
	LengthKm  float64          `json:"length_km"`
	DistanceM float64          `json:"distance_m"`
	Segments  []SegmentWeather `json:"segments"`
}

type Feature struct {
	Type       string     `json:"type"`
	Geometry   *Geometry  `json:"geometry"`
	Properties Properties `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func routeGeometry(route []geo.Point) *Geometry {
	if len(route) == 0 {
		return nil
	}
	coords := make([][]float64, len(route))
	for i, p := range route {
		coords[i] = []float64{p.Lng, p.Lat}
	}
	return &Geometry{Type: "LineString", Coordinates: coords}
}
