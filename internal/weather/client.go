package weather

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Client fetches location forecasts from a met.no-style locationforecast
// endpoint. Responses are cached in redis keyed on rounded coordinates; the
// cache is advisory and a nil redis client simply disables it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *redis.Client
	cacheTTL   time.Duration
}

func NewClient(baseURL string, cache *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// The public feed allows modest traffic; cap outbound bursts.
		limiter:  rate.NewLimiter(rate.Limit(5), 10),
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Forecast returns the parsed forecast time series for a coordinate.
func (c *Client) Forecast(ctx context.Context, lat, lng float64) ([]Sample, error) {
	key := cacheKey(lat, lng)
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, key).Bytes(); err == nil {
			var cached []Sample
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("forecast rate limit wait: %w", err)
	}

	requestURL := fmt.Sprintf("%s?lat=%f;long=%f", c.baseURL, lat, lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast API status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read forecast response: %w", err)
	}

	samples, err := parseForecastXML(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if raw, err := json.Marshal(samples); err == nil {
			if err := c.cache.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
				log.Printf("weather: forecast cache write failed: %v", err)
			}
		}
	}
	return samples, nil
}

// cacheKey rounds coordinates to ~1 km so nearby segment points share a
// cached series instead of each hitting the provider.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("forecast:%.2f:%.2f", lat, lng)
}

const forecastTimeLayout = "2006-01-02T15:04:05Z"

type forecastXML struct {
	XMLName xml.Name      `xml:"weatherdata"`
	Times   []forecastRow `xml:"product>time"`
}

type forecastRow struct {
	From     string `xml:"from,attr"`
	To       string `xml:"to,attr"`
	Location struct {
		Temperature *struct {
			Value float64 `xml:"value,attr"`
		} `xml:"temperature"`
		Cloudiness *struct {
			Percent float64 `xml:"percent,attr"`
		} `xml:"cloudiness"`
		WindSpeed *struct {
			Mps float64 `xml:"mps,attr"`
		} `xml:"windSpeed"`
		WindDirection *struct {
			Name string `xml:"name,attr"`
		} `xml:"windDirection"`
		Precipitation *struct {
			Value float64 `xml:"value,attr"`
		} `xml:"precipitation"`
	} `xml:"location"`
}

// parseForecastXML merges the provider's alternating instant/interval time
// entries into one sample per timestamp: instant entries carry temperature,
// wind and cloud readings, and the precipitation interval that follows an
// instant attaches its rainfall to it.
func parseForecastXML(data []byte) ([]Sample, error) {
	var doc forecastXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse forecast xml: %w", err)
	}

	var samples []Sample
	var current *Sample
	for _, row := range doc.Times {
		if row.Location.Temperature != nil {
			at, err := time.Parse(forecastTimeLayout, row.From)
			if err != nil {
				continue
			}
			s := Sample{
				Time:         at,
				TemperatureC: row.Location.Temperature.Value,
			}
			if row.Location.Cloudiness != nil {
				s.CloudinessPct = int(math.Round(row.Location.Cloudiness.Percent))
			}
			if row.Location.WindSpeed != nil {
				s.WindSpeedKmh = int(math.Round(row.Location.WindSpeed.Mps * 3.6))
			}
			if row.Location.WindDirection != nil {
				s.WindDirection = row.Location.WindDirection.Name
			}
			samples = append(samples, s)
			current = &samples[len(samples)-1]
			continue
		}
		if row.Location.Precipitation != nil && current != nil {
			current.RainMm = row.Location.Precipitation.Value
		}
	}
	return samples, nil
}
