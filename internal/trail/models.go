package trail

import (
	"time"

	"github.com/cduggan1/group-design-project-10/internal/shared/geo"
)

// Trail is an imported trail record. Rows are written by the periodic
// importer through Upsert and are read-only everywhere else.
type Trail struct {
	ID         string      `json:"id"`
	ObjectID   int64       `json:"object_id"`
	Name       string      `json:"name"`
	County     string      `json:"county"`
	Activity   string      `json:"activity"`
	Difficulty string      `json:"difficulty"`
	LengthKm   float64     `json:"length_km"`
	Route      []geo.Point `json:"route"`
	CreatedAt  time.Time   `json:"created_at"`
}

// RankedTrail is a query-time result: a trail plus its distance from the
// query point. Never persisted.
type RankedTrail struct {
	Trail
	DistanceM float64 `json:"distance_m"`
}
