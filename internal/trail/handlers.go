package trail

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Put("/", func(c *fiber.Ctx) error {
		var req Trail
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.ObjectID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "object_id required")
		}
		t, err := svc.Upsert(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(t)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		trails, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if trails == nil {
			trails = []Trail{}
		}
		return c.JSON(trails)
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat required")
		}
		lng, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lon required")
		}
		radiusKm := 50.0
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

		ranked, err := svc.FindNear(c.Context(), lat, lng, radiusKm, c.Query("activity"), limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if ranked == nil {
			ranked = []RankedTrail{}
		}
		return c.JSON(ranked)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		t, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "trail not found")
		}
		return c.JSON(t)
	})
}
