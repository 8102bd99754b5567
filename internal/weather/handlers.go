package weather

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Forecaster is the forecast source used by the HTTP handlers. *Client
// satisfies it; tests substitute a stub.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lng float64) ([]Sample, error)
}

// HourlyOutlook is one row of the /weather response.
type HourlyOutlook struct {
	Hour string `json:"hour"`
	Sample
}

func RegisterRoutes(r fiber.Router, forecaster Forecaster) {
	// Returns the forecast for the next 24 hours at a coordinate, one
	// entry per forecast timestamp labelled with its hour.
	r.Get("/", func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat required")
		}
		lng, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lon required")
		}

		samples, err := forecaster.Forecast(c.Context(), lat, lng)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "forecast unavailable")
		}

		now := time.Now().UTC()
		cutoff := now.Add(24 * time.Hour)
		outlook := make([]HourlyOutlook, 0, 24)
		for _, s := range samples {
			if s.Time.Before(now.Truncate(time.Hour)) || s.Time.After(cutoff) {
				continue
			}
			outlook = append(outlook, HourlyOutlook{
				Hour:   s.Time.Format("3 PM"),
				Sample: s,
			})
		}
		return c.JSON(outlook)
	})
}
