package segment

import (
	"context"
	"fmt"
	"log"

	"github.com/cduggan1/group-design-project-10/internal/db"
	"github.com/cduggan1/group-design-project-10/internal/shared/geo"
)

type Service struct {
	db db.TxQuerier
}

func NewService(db db.TxQuerier) *Service {
	return &Service{db: db}
}

// Segments loads a trail's stored segments in segment order.
func (s *Service) Segments(ctx context.Context, trailID string) ([]Segment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT trail_id, segment_index, offset_hours, start_distance_km, end_distance_km,
		       ST_Y(point::geometry), ST_X(point::geometry)
		FROM trail_segments WHERE trail_id=$1
		ORDER BY segment_index
	`, trailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var seg Segment
		if err := rows.Scan(&seg.TrailID, &seg.Index, &seg.OffsetHours, &seg.StartDistanceKm, &seg.EndDistanceKm, &seg.Point.Lat, &seg.Point.Lng); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// Replace swaps a trail's full segment set in one transaction so readers
// never observe a mix of old and new segments.
func (s *Service) Replace(ctx context.Context, trailID string, segments []Segment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin segment swap: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM trail_segments WHERE trail_id=$1`, trailID); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}
	for _, seg := range segments {
		_, err := tx.Exec(ctx, `
			INSERT INTO trail_segments (trail_id, segment_index, offset_hours, start_distance_km, end_distance_km, point)
			VALUES ($1,$2,$3,$4,$5, ST_SetSRID(ST_MakePoint($6,$7), 4326)::geography)
		`, trailID, seg.Index, seg.OffsetHours, seg.StartDistanceKm, seg.EndDistanceKm, seg.Point.Lng, seg.Point.Lat)
		if err != nil {
			return fmt.Errorf("insert segment %d: %w", seg.Index, err)
		}
	}
	return tx.Commit(ctx)
}

// Rebuild regenerates a single trail's segments from its current route and
// persists them. Returns the number of segments written; zero with a nil
// error means the trail has no usable length.
func (s *Service) Rebuild(ctx context.Context, trailID string) (int, error) {
	var activity string
	var lengthKm float64
	var routeJSON string
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(activity,''), COALESCE(length_km,0), COALESCE(ST_AsGeoJSON(route::geometry),'')
		FROM trails WHERE id=$1
	`, trailID)
	if err := row.Scan(&activity, &lengthKm, &routeJSON); err != nil {
		return 0, err
	}

	var route []geo.Point
	if routeJSON != "" {
		var err error
		route, err = geo.RouteFromGeoJSON(routeJSON)
		if err != nil {
			return 0, err
		}
	}

	segments, err := BuildForLabel(route, lengthKm, activity)
	if err != nil {
		return 0, err
	}
	if len(segments) == 0 {
		log.Printf("segment: trail %s has no usable length, skipping generation", trailID)
	}
	for i := range segments {
		segments[i].TrailID = trailID
	}
	if err := s.Replace(ctx, trailID, segments); err != nil {
		return 0, err
	}
	return len(segments), nil
}

// RebuildReport summarises a bulk segment rebuild.
type RebuildReport struct {
	Trails   int `json:"trails"`
	Segments int `json:"segments"`
	Skipped  int `json:"skipped"`
}

// RebuildAll regenerates segments for every trail. Trails with degenerate
// geometry or no length are skipped and counted, not fatal.
func (s *Service) RebuildAll(ctx context.Context) (RebuildReport, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM trails ORDER BY object_id`)
	if err != nil {
		return RebuildReport{}, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return RebuildReport{}, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return RebuildReport{}, err
	}

	var report RebuildReport
	for _, id := range ids {
		report.Trails++
		n, err := s.Rebuild(ctx, id)
		if err != nil {
			log.Printf("segment: rebuild of trail %s failed: %v", id, err)
			report.Skipped++
			continue
		}
		if n == 0 {
			report.Skipped++
			continue
		}
		report.Segments += n
	}
	return report, nil
}
