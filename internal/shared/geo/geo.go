package geo

import (
	"errors"
	"math"
)

const earthRadiusM = 6371000.0

// ErrInvalidGeometry is returned for routes that cannot be interpolated.
var ErrInvalidGeometry = errors.New("route must have at least two vertices")

// Point is a WGS-84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineKm returns the great-circle distance between two coordinates in kilometres.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlng1 := lng1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlng2 := lng2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlng := rlng2 - rlng1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c / 1000
}

// DistanceM returns the great-circle distance between two points in metres.
func DistanceM(a, b Point) float64 {
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng) * 1000
}

// RouteLengthM returns the total arc length of a route in metres.
func RouteLengthM(route []Point) float64 {
	var total float64
	for i := 0; i < len(route)-1; i++ {
		total += DistanceM(route[i], route[i+1])
	}
	return total
}

// InterpolateAlong returns the point at the given fraction of the route's
// total arc length, by linear interpolation on the containing edge.
// The fraction is clamped to [0, 1].
func InterpolateAlong(route []Point, fraction float64) (Point, error) {
	if len(route) < 2 {
		return Point{}, ErrInvalidGeometry
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	total := RouteLengthM(route)
	if total == 0 {
		// Zero-length route: every fraction maps to the shared vertex.
		return route[0], nil
	}

	target := fraction * total
	var walked float64
	for i := 0; i < len(route)-1; i++ {
		edge := DistanceM(route[i], route[i+1])
		if walked+edge >= target {
			if edge == 0 {
				return route[i], nil
			}
			t := (target - walked) / edge
			if t >= 1 {
				return route[i+1], nil
			}
			return Point{
				Lat: route[i].Lat + t*(route[i+1].Lat-route[i].Lat),
				Lng: route[i].Lng + t*(route[i+1].Lng-route[i].Lng),
			}, nil
		}
		walked += edge
	}
	return route[len(route)-1], nil
}

// PointToRouteM returns the minimum distance in metres from a point to a
// route, measured to the nearest location on any edge rather than to the
// vertices alone. A single-point route degenerates to point-to-point
// distance; an empty route is infinitely far away.
func PointToRouteM(p Point, route []Point) float64 {
	if len(route) == 0 {
		return math.Inf(1)
	}
	if len(route) == 1 {
		return DistanceM(p, route[0])
	}

	min := math.Inf(1)
	for i := 0; i < len(route)-1; i++ {
		d := pointToEdgeM(p, route[i], route[i+1])
		if d < min {
			min = d
		}
	}
	return min
}

// pointToEdgeM computes cross-track distance from a point to a great-circle
// edge, falling back to the nearest endpoint when the projection lies outside
// the edge.
func pointToEdgeM(p, start, end Point) float64 {
	if start == end {
		return DistanceM(p, start)
	}

	distToStart := DistanceM(p, start)
	distToEnd := DistanceM(p, end)
	edgeLength := DistanceM(start, end)

	// Edges shorter than a metre are effectively points.
	if edgeLength < 1 {
		return math.Min(distToStart, distToEnd)
	}

	lat1 := start.Lat * math.Pi / 180
	lng1 := start.Lng * math.Pi / 180
	lat2 := end.Lat * math.Pi / 180
	lng2 := end.Lng * math.Pi / 180
	lat3 := p.Lat * math.Pi / 180
	lng3 := p.Lng * math.Pi / 180

	// Angular distance from the edge start to the point.
	d13 := distToStart / earthRadiusM

	// Bearing from start to end.
	y := math.Sin(lng2-lng1) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lng2-lng1)
	bearingEdge := math.Atan2(y, x)

	// Bearing from start to the point.
	y = math.Sin(lng3-lng1) * math.Cos(lat3)
	x = math.Cos(lat1)*math.Sin(lat3) - math.Sin(lat1)*math.Cos(lat3)*math.Cos(lng3-lng1)
	bearingPoint := math.Atan2(y, x)

	dxt := math.Asin(math.Sin(d13) * math.Sin(bearingPoint-bearingEdge))
	crossTrack := math.Abs(dxt) * earthRadiusM

	// Projection beyond either end of the edge: nearest endpoint wins.
	dat := math.Acos(math.Cos(d13) / math.Cos(dxt))
	alongTrack := dat * earthRadiusM
	if math.IsNaN(alongTrack) || alongTrack > edgeLength {
		return math.Min(distToStart, distToEnd)
	}
	if math.Cos(bearingPoint-bearingEdge) < 0 {
		// Behind the edge start.
		return distToStart
	}

	return crossTrack
}
