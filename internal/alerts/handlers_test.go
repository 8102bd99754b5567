package alerts

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newAlertsApp(t *testing.T, feed Fetcher) (*fiber.App, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	app := fiber.New()
	RegisterRoutes(app.Group("/alerts"), NewService(mock), feed)
	return app, mock
}

func TestGetAlertsRequiresCoordinates(t *testing.T) {
	app, _ := newAlertsApp(t, &stubFeed{})

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts?lat=53.0", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetAlertsReturnsActiveNearby(t *testing.T) {
	app, mock := newAlertsApp(t, &stubFeed{})

	now := time.Now()
	mock.ExpectQuery(`SELECT id, title, description, severity,`).
		WithArgs(-6.3, 53.0, 50000.0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "description", "severity", "lat", "lng", "radius_km", "start_time", "end_time", "active",
		}).AddRow("a1", "Wind Warning", "Gusts.", SeverityModerate, 53.4129, -8.2439, 200.0, now, now, true))

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts?lat=53.0&lon=-6.3", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var got []Alert
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].Severity != SeverityModerate {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	feed := &stubFeed{alerts: []Alert{allClearAlert(time.Now())}}
	app, mock := newAlertsApp(t, feed)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE weather_alerts SET active=false`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`INSERT INTO weather_alerts`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	resp, err := app.Test(httptest.NewRequest("POST", "/alerts/refresh", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateRuleValidation(t *testing.T) {
	app, _ := newAlertsApp(t, &stubFeed{})

	req := httptest.NewRequest("POST", "/alerts/rules",
		strings.NewReader(`{"name":"windy","condition":"BREEZY","threshold":30,"comparison":"GT"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateRule(t *testing.T) {
	app, mock := newAlertsApp(t, &stubFeed{})

	mock.ExpectExec(`INSERT INTO alert_rules`).
		WithArgs(pgxmock.AnyArg(), "windy", ConditionWindy, 30.0, CompareGT, true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	req := httptest.NewRequest("POST", "/alerts/rules",
		strings.NewReader(`{"name":"windy","condition":"WINDY","threshold":30,"comparison":"GT"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var rule Rule
	if err := json.Unmarshal(body, &rule); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rule.ID == "" || !rule.Active {
		t.Fatalf("expected stored rule with id, got %+v", rule)
	}
}

func TestCheckRulesEndpoint(t *testing.T) {
	app, mock := newAlertsApp(t, &stubFeed{})

	mock.ExpectQuery(`SELECT id, name, condition, threshold, comparison, active`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "condition", "threshold", "comparison", "active"}).
			AddRow("r1", "windy day", ConditionWindy, 30.0, CompareGT, true))

	req := httptest.NewRequest("POST", "/alerts/rules/check",
		strings.NewReader(`{"wind_speed":45,"temperature":12}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Matched []MatchedRule `json:"matched_rules"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Matched) != 1 || out.Matched[0].ID != "r1" {
		t.Fatalf("unexpected matches: %s", body)
	}
}
