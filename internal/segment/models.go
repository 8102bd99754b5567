package segment

import (
	"time"

	"github.com/cduggan1/group-design-project-10/internal/shared/geo"
)

// Segment is a derived waypoint along a trail: the position a traveller at
// the activity's pace reaches after OffsetHours hours. Segment sets are
// regenerated wholesale, never edited in place.
type Segment struct {
	TrailID         string    `json:"trail_id,omitempty"`
	Index           int       `json:"segment_index"`
	OffsetHours     int       `json:"offset_hours"`
	StartDistanceKm float64   `json:"start_distance_km"`
	EndDistanceKm   float64   `json:"end_distance_km"`
	Point           geo.Point `json:"point"`
}

// Offset is the time into the journey at which the segment starts.
func (s Segment) Offset() time.Duration {
	return time.Duration(s.OffsetHours) * time.Hour
}
