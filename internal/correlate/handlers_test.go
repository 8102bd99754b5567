package correlate

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cduggan1/group-design-project-10/internal/segment"
	"github.com/cduggan1/group-design-project-10/internal/trail"
	"github.com/cduggan1/group-design-project-10/internal/weather"

	"github.com/gofiber/fiber/v2"
)

func newCorrelateApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/trails"), svc, 50)
	return app
}

func TestTopWeatherEndpoint(t *testing.T) {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	finder := &stubFinder{ranked: []trail.RankedTrail{rankedTrail("t1", 1, 500)}}
	loader := &stubLoader{segs: map[string][]segment.Segment{
		"t1": storedSegments("t1", 53.01),
	}}
	sampler := samplerFunc(func(ctx context.Context, lat, lng float64) ([]weather.Sample, error) {
		return []weather.Sample{{Time: base, TemperatureC: 14}}, nil
	})
	app := newCorrelateApp(NewService(finder, loader, sampler))

	resp, err := app.Test(httptest.NewRequest("GET",
		"/trails/top-weather?lat=53.0&lon=-6.3&datetime=2026-06-01T09:00:00Z", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var got FeatureCollection
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Type != "FeatureCollection" || len(got.Features) != 1 {
		t.Fatalf("unexpected body: %s", body)
	}
	seg := got.Features[0].Properties.Segments[0]
	if seg.Weather == nil || seg.Weather.TemperatureC != 14 {
		t.Fatalf("expected weather attached: %s", body)
	}

	// Null weather must stay an explicit field, never be omitted.
	if !strings.Contains(string(body), `"weather"`) {
		t.Fatalf("weather field missing from payload: %s", body)
	}
}

func TestTopWeatherEndpointAcceptsZonelessDatetime(t *testing.T) {
	finder := &stubFinder{}
	loader := &stubLoader{}
	sampler := samplerFunc(func(ctx context.Context, lat, lng float64) ([]weather.Sample, error) {
		return nil, nil
	})
	app := newCorrelateApp(NewService(finder, loader, sampler))

	resp, err := app.Test(httptest.NewRequest("GET",
		"/trails/top-weather?lat=53.0&lon=-6.3&datetime=2026-06-01T09:00:00", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestTopWeatherEndpointValidation(t *testing.T) {
	app := newCorrelateApp(NewService(&stubFinder{}, &stubLoader{}, samplerFunc(nil)))

	cases := []string{
		"/trails/top-weather?lon=-6.3&datetime=2026-06-01T09:00:00Z",
		"/trails/top-weather?lat=53.0&datetime=2026-06-01T09:00:00Z",
		"/trails/top-weather?lat=53.0&lon=-6.3",
		"/trails/top-weather?lat=53.0&lon=-6.3&datetime=yesterday",
		"/trails/top-weather?lat=53.0&lon=-6.3&datetime=2026-06-01T09:00:00Z&limit=0",
		"/trails/top-weather?lat=53.0&lon=-6.3&datetime=2026-06-01T09:00:00Z&max_distance_km=far",
	}
	for _, url := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", url, nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", url, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, resp.StatusCode)
		}
	}
}
