package segment

import (
	"log"

	"github.com/cduggan1/group-design-project-10/internal/shared/geo"
)

// Build divides a route into hourly waypoints at the activity's pace.
// A trail whose length is missing or non-positive produces no segments;
// that is a reportable outcome, not an error. The only error is degenerate
// route geometry.
//
// The number of segments is always floor(lengthKm/pace)+1 and the final
// segment's end distance is clamped to lengthKm, so the route's endpoint is
// represented even when the length is not a whole multiple of the pace.
func Build(route []geo.Point, lengthKm float64, activity Activity) ([]Segment, error) {
	if lengthKm <= 0 {
		return nil, nil
	}

	pace := activity.PaceKmh()
	totalHours := int(lengthKm / pace)

	segments := make([]Segment, 0, totalHours+1)
	for hour := 0; hour <= totalHours; hour++ {
		traveledKm := float64(hour) * pace
		fraction := traveledKm / lengthKm
		if fraction > 1 {
			fraction = 1
		}

		point, err := geo.InterpolateAlong(route, fraction)
		if err != nil {
			return nil, err
		}

		endKm := (float64(hour) + 1) * pace
		if endKm > lengthKm {
			endKm = lengthKm
		}

		segments = append(segments, Segment{
			Index:           hour + 1,
			OffsetHours:     hour,
			StartDistanceKm: traveledKm,
			EndDistanceKm:   endKm,
			Point:           point,
		})
	}
	return segments, nil
}

// BuildForLabel is Build with the raw imported activity string. Labels that
// are not in the speed table default to walking pace and are logged so data
// entry typos surface instead of hiding behind the fallback.
func BuildForLabel(route []geo.Point, lengthKm float64, activityLabel string) ([]Segment, error) {
	activity, ok := ParseActivity(activityLabel)
	if !ok && activityLabel != "" {
		log.Printf("segment: unrecognized activity %q, assuming walking pace", activityLabel)
	}
	return Build(route, lengthKm, activity)
}
