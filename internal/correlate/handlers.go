package correlate

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Accepted datetime layouts; ISO-8601 with or without a zone offset.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDatetime(raw string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func RegisterRoutes(r fiber.Router, svc *Service, defaultRadiusKm float64) {
	r.Get("/top-weather", func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat required")
		}
		lng, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lon required")
		}
		base, ok := parseDatetime(c.Query("datetime"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "datetime required (ISO-8601)")
		}

		radiusKm := defaultRadiusKm
		if v := c.Query("max_distance_km"); v != "" {
			radiusKm, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid max_distance_km")
			}
		}
		limit := 5
		if v := c.Query("limit"); v != "" {
			limit, err = strconv.Atoi(v)
			if err != nil || limit < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
			}
		}

		result, err := svc.TopWeather(c.Context(), Query{
			Lat:           lat,
			Lng:           lng,
			Base:          base,
			Activity:      c.Query("activity"),
			MaxDistanceKm: radiusKm,
			Limit:         limit,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	})
}
