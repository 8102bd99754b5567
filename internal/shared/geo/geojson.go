package geo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type lineStringGeoJSON struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// RouteFromGeoJSON parses the ST_AsGeoJSON representation of a LineString.
func RouteFromGeoJSON(raw string) ([]Point, error) {
	var ls lineStringGeoJSON
	if err := json.Unmarshal([]byte(raw), &ls); err != nil {
		return nil, fmt.Errorf("parse route geojson: %w", err)
	}
	if ls.Type != "LineString" {
		return nil, fmt.Errorf("unexpected route geometry type %q", ls.Type)
	}
	route := make([]Point, 0, len(ls.Coordinates))
	for _, c := range ls.Coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("route coordinate with %d values", len(c))
		}
		route = append(route, Point{Lng: c[0], Lat: c[1]})
	}
	return route, nil
}

// RouteWKT renders a route as a LINESTRING in WKT, lng-lat order.
func RouteWKT(route []Point) string {
	var b strings.Builder
	b.WriteString("LINESTRING(")
	for i, p := range route {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.FormatFloat(p.Lng, 'f', -1, 64))
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
	}
	b.WriteString(")")
	return b.String()
}
