package trail

import (
	"context"
	"sort"

	"github.com/cduggan1/group-design-project-10/internal/db"
	"github.com/cduggan1/group-design-project-10/internal/shared/geo"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Upsert creates or refreshes a trail keyed on its external object id.
func (s *Service) Upsert(ctx context.Context, input Trail) (Trail, error) {
	if input.ID == "" {
		input.ID = uuid.NewString()
	}

	var wkt any
	var lng, lat any
	if len(input.Route) > 0 {
		wkt = geo.RouteWKT(input.Route)
		lng = input.Route[0].Lng
		lat = input.Route[0].Lat
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO trails (id, object_id, name, county, activity, difficulty, length_km, route, location)
		VALUES ($1,$2,$3,$4,$5,$6,$7, ST_GeogFromText($8), ST_SetSRID(ST_MakePoint($9,$10), 4326)::geography)
		ON CONFLICT (object_id) DO UPDATE
		SET name=EXCLUDED.name, county=EXCLUDED.county, activity=EXCLUDED.activity,
		    difficulty=EXCLUDED.difficulty, length_km=EXCLUDED.length_km,
		    route=EXCLUDED.route, location=EXCLUDED.location
		RETURNING id, created_at
	`, input.ID, input.ObjectID, input.Name, input.County, input.Activity, input.Difficulty, input.LengthKm, wkt, lng, lat)
	if err := row.Scan(&input.ID, &input.CreatedAt); err != nil {
		return Trail{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Trail, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, object_id, name, COALESCE(county,''), COALESCE(activity,''), COALESCE(difficulty,''),
		       COALESCE(length_km,0), COALESCE(ST_AsGeoJSON(route::geometry),''), created_at
		FROM trails WHERE id=$1
	`, id)
	return scanTrail(row)
}

func (s *Service) List(ctx context.Context) ([]Trail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, object_id, name, COALESCE(county,''), COALESCE(activity,''), COALESCE(difficulty,''),
		       COALESCE(length_km,0), COALESCE(ST_AsGeoJSON(route::geometry),''), created_at
		FROM trails ORDER BY object_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trails []Trail
	for rows.Next() {
		t, err := scanTrail(rows)
		if err != nil {
			return nil, err
		}
		trails = append(trails, t)
	}
	return trails, rows.Err()
}

// FindNear returns the trails within radiusKm of the query point, nearest
// first, at most limit of them. Activity filters before ranking when set.
// Candidates come from an indexed ST_DWithin prefilter; the reported
// distance is the exact point-to-route distance, with object id breaking
// ties so results are reproducible.
func (s *Service) FindNear(ctx context.Context, lat, lng, radiusKm float64, activity string, limit int) ([]RankedTrail, error) {
	query := `
		SELECT id, object_id, name, COALESCE(county,''), COALESCE(activity,''), COALESCE(difficulty,''),
		       COALESCE(length_km,0), COALESCE(ST_AsGeoJSON(route::geometry),''), created_at
		FROM trails
		WHERE route IS NOT NULL
		  AND ST_DWithin(route, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)`
	args := []any{lng, lat, radiusKm * 1000}
	if activity != "" {
		query += ` AND activity=$4`
		args = append(args, activity)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	point := geo.Point{Lat: lat, Lng: lng}
	radiusM := radiusKm * 1000

	var ranked []RankedTrail
	for rows.Next() {
		t, err := scanTrail(rows)
		if err != nil {
			return nil, err
		}
		d := geo.PointToRouteM(point, t.Route)
		if d > radiusM {
			continue
		}
		ranked = append(ranked, RankedTrail{Trail: t, DistanceM: d})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceM != ranked[j].DistanceM {
			return ranked[i].DistanceM < ranked[j].DistanceM
		}
		return ranked[i].ObjectID < ranked[j].ObjectID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrail(row rowScanner) (Trail, error) {
	var t Trail
	var routeJSON string
	if err := row.Scan(&t.ID, &t.ObjectID, &t.Name, &t.County, &t.Activity, &t.Difficulty, &t.LengthKm, &routeJSON, &t.CreatedAt); err != nil {
		return Trail{}, err
	}
	if routeJSON != "" {
		route, err := geo.RouteFromGeoJSON(routeJSON)
		if err != nil {
			return Trail{}, err
		}
		t.Route = route
	}
	return t, nil
}
