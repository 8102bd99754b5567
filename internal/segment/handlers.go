package segment

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/segments/rebuild", func(c *fiber.Ctx) error {
		report, err := svc.RebuildAll(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(report)
	})

	r.Get("/:id/segments", func(c *fiber.Ctx) error {
		segments, err := svc.Segments(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if segments == nil {
			segments = []Segment{}
		}
		return c.JSON(segments)
	})

	r.Post("/:id/segments/rebuild", func(c *fiber.Ctx) error {
		n, err := svc.Rebuild(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"trail_id": c.Params("id"), "segments": n})
	})
}
