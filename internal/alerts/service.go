package alerts

import (
	"context"
	"fmt"

	"github.com/cduggan1/group-design-project-10/internal/db"
	"github.com/cduggan1/group-design-project-10/internal/weather"

	"github.com/google/uuid"
)

// Fetcher is the warnings feed source used by Refresh. *Client satisfies
// it; tests substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Alert, error)
}

type Service struct {
	db db.TxQuerier
}

func NewService(db db.TxQuerier) *Service {
	return &Service{db: db}
}

// Refresh pulls the warnings feed and swaps in the new active alert set.
func (s *Service) Refresh(ctx context.Context, feed Fetcher) (int, error) {
	fetched, err := feed.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.ReplaceActive(ctx, fetched); err != nil {
		return 0, err
	}
	return len(fetched), nil
}

// ReplaceActive deactivates the current alerts and stores the new set in
// one transaction so readers never see both generations active.
func (s *Service) ReplaceActive(ctx context.Context, incoming []Alert) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin alert swap: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE weather_alerts SET active=false WHERE active`); err != nil {
		return fmt.Errorf("deactivate alerts: %w", err)
	}
	for _, a := range incoming {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO weather_alerts (id, title, description, severity, location, radius_km, start_time, end_time, active)
			VALUES ($1,$2,$3,$4, ST_SetSRID(ST_MakePoint($5,$6), 4326)::geography, $7,$8,$9, true)
		`, a.ID, a.Title, a.Description, a.Severity, a.Centre.Lng, a.Centre.Lat, a.RadiusKm, a.StartTime, a.EndTime)
		if err != nil {
			return fmt.Errorf("insert alert %q: %w", a.Title, err)
		}
	}
	return tx.Commit(ctx)
}

// ActiveNear returns the active alerts whose centre lies within withinKm
// of the query point.
func (s *Service) ActiveNear(ctx context.Context, lat, lng, withinKm float64) ([]Alert, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, description, severity,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       radius_km, start_time, end_time, active
		FROM weather_alerts
		WHERE active AND ST_DWithin(location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY start_time DESC
	`, lng, lat, withinKm*1000)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Severity, &a.Centre.Lat, &a.Centre.Lng, &a.RadiusKm, &a.StartTime, &a.EndTime, &a.Active); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateRule stores a new notification rule.
func (s *Service) CreateRule(ctx context.Context, r Rule) (Rule, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Active = true
	_, err := s.db.Exec(ctx, `
		INSERT INTO alert_rules (id, name, condition, threshold, comparison, active)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, r.ID, r.Name, r.Condition, r.Threshold, r.Comparison, r.Active)
	if err != nil {
		return Rule{}, err
	}
	return r, nil
}

func (s *Service) Rules(ctx context.Context) ([]Rule, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, condition, threshold, comparison, active
		FROM alert_rules ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		var r Rule
		if err := rows.Scan(&r.ID, &r.Name, &r.Condition, &r.Threshold, &r.Comparison, &r.Active); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRule overwrites a rule's mutable fields and returns the stored row.
func (s *Service) UpdateRule(ctx context.Context, r Rule) (Rule, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE alert_rules
		SET name=$2, condition=$3, threshold=$4, comparison=$5, active=$6
		WHERE id=$1
		RETURNING id, name, condition, threshold, comparison, active
	`, r.ID, r.Name, r.Condition, r.Threshold, r.Comparison, r.Active)
	var out Rule
	if err := row.Scan(&out.ID, &out.Name, &out.Condition, &out.Threshold, &out.Comparison, &out.Active); err != nil {
		return Rule{}, err
	}
	return out, nil
}

func (s *Service) DeleteRule(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM alert_rules WHERE id=$1`, id)
	return err
}

// MatchedRule is a rule that fired against a forecast sample.
type MatchedRule struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// CheckRules evaluates every active rule against a forecast sample.
func (s *Service) CheckRules(ctx context.Context, sample weather.Sample) ([]MatchedRule, error) {
	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}

	var matched []MatchedRule
	for _, r := range rules {
		if !r.Active || !r.Matches(sample) {
			continue
		}
		matched = append(matched, MatchedRule{ID: r.ID, Name: r.Name, Message: r.Message()})
	}
	return matched, nil
}
