package alerts

import (
	"strconv"

	"github.com/cduggan1/group-design-project-10/internal/weather"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, feed Fetcher) {
	r.Get("/", func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat required")
		}
		lng, err := strconv.ParseFloat(c.Query("lon"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lon required")
		}

		active, err := svc.ActiveNear(c.Context(), lat, lng, 50)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if active == nil {
			active = []Alert{}
		}
		return c.JSON(active)
	})

	r.Post("/refresh", func(c *fiber.Ctx) error {
		n, err := svc.Refresh(c.Context(), feed)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{"alerts": n})
	})

	r.Get("/rules", func(c *fiber.Ctx) error {
		rules, err := svc.Rules(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if rules == nil {
			rules = []Rule{}
		}
		return c.JSON(rules)
	})

	r.Post("/rules", func(c *fiber.Ctx) error {
		var req Rule
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" || !ValidCondition(req.Condition) || !ValidComparison(req.Comparison) {
			return fiber.NewError(fiber.StatusBadRequest, "name, condition and comparison required")
		}
		rule, err := svc.CreateRule(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rule)
	})

	r.Put("/rules/:id", func(c *fiber.Ctx) error {
		var req Rule
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !ValidCondition(req.Condition) || !ValidComparison(req.Comparison) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid condition or comparison")
		}
		req.ID = c.Params("id")
		rule, err := svc.UpdateRule(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "rule not found")
		}
		return c.JSON(rule)
	})

	r.Delete("/rules/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteRule(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "rule deleted"})
	})

	r.Post("/rules/check", func(c *fiber.Ctx) error {
		var sample weather.Sample
		if err := c.BodyParser(&sample); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		matched, err := svc.CheckRules(c.Context(), sample)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if matched == nil {
			matched = []MatchedRule{}
		}
		return c.JSON(fiber.Map{"matched_rules": matched})
	})
}
