package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const forecastFixture = `<?xml version="1.0" encoding="UTF-8"?>
<weatherdata>
  <product class="pointData">
    <time from="2026-06-01T10:00:00Z" to="2026-06-01T10:00:00Z">
      <location latitude="53.0" longitude="-6.3">
        <temperature unit="celsius" value="14.5"/>
        <windDirection deg="225.0" name="SW"/>
        <windSpeed mps="5.0"/>
        <cloudiness percent="62.4"/>
      </location>
    </time>
    <time from="2026-06-01T09:00:00Z" to="2026-06-01T10:00:00Z">
      <location latitude="53.0" longitude="-6.3">
        <precipitation unit="mm" value="0.8"/>
      </location>
    </time>
    <time from="2026-06-01T11:00:00Z" to="2026-06-01T11:00:00Z">
      <location latitude="53.0" longitude="-6.3">
        <temperature unit="celsius" value="15.1"/>
        <windDirection deg="230.0" name="SW"/>
        <windSpeed mps="4.2"/>
        <cloudiness percent="40.0"/>
      </location>
    </time>
    <time from="2026-06-01T10:00:00Z" to="2026-06-01T11:00:00Z">
      <location latitude="53.0" longitude="-6.3">
        <precipitation unit="mm" value="0.0"/>
      </location>
    </time>
  </product>
</weatherdata>`

func TestForecastParsesSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "lat=53.000000;long=-6.300000" {
			t.Errorf("unexpected query %q", got)
		}
		w.Write([]byte(forecastFixture))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, time.Hour)
	samples, err := client.Forecast(context.Background(), 53.0, -6.3)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}

	first := samples[0]
	if first.TemperatureC != 14.5 {
		t.Errorf("temperature = %v, want 14.5", first.TemperatureC)
	}
	if first.WindSpeedKmh != 18 {
		t.Errorf("wind = %d km/h, want 18", first.WindSpeedKmh)
	}
	if first.WindDirection != "SW" {
		t.Errorf("wind direction = %q, want SW", first.WindDirection)
	}
	if first.CloudinessPct != 62 {
		t.Errorf("cloudiness = %d, want 62", first.CloudinessPct)
	}
	if first.RainMm != 0.8 {
		t.Errorf("rain = %v, want 0.8", first.RainMm)
	}
	if samples[1].RainMm != 0 {
		t.Errorf("second sample rain = %v, want 0", samples[1].RainMm)
	}
}

func TestForecastUsesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(forecastFixture))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client := NewClient(srv.URL, cache, time.Hour)

	for i := 0; i < 3; i++ {
		samples, err := client.Forecast(context.Background(), 53.0, -6.3)
		if err != nil {
			t.Fatalf("Forecast call %d: %v", i, err)
		}
		if len(samples) != 2 {
			t.Fatalf("call %d: expected 2 samples, got %d", i, len(samples))
		}
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", n)
	}
}

func TestForecastUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, time.Hour)
	if _, err := client.Forecast(context.Background(), 53.0, -6.3); err == nil {
		t.Fatal("expected error from 503 upstream")
	}
}
