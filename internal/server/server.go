package server

import (
	"time"

	"github.com/cduggan1/group-design-project-10/internal/alerts"
	"github.com/cduggan1/group-design-project-10/internal/config"
	"github.com/cduggan1/group-design-project-10/internal/correlate"
	"github.com/cduggan1/group-design-project-10/internal/segment"
	"github.com/cduggan1/group-design-project-10/internal/trail"
	"github.com/cduggan1/group-design-project-10/internal/weather"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	trailSvc := trail.NewService(s.DB)
	segmentSvc := segment.NewService(s.DB)
	forecasts := weather.NewClient(s.Cfg.ForecastAPIURL, s.Redis,
		time.Duration(s.Cfg.ForecastCacheTTLMin)*time.Minute)
	alertSvc := alerts.NewService(s.DB)
	warningsFeed := alerts.NewClient(s.Cfg.WarningsAPIURL)
	correlateSvc := correlate.NewService(trailSvc, segmentSvc, forecasts)

	// Static trail paths register before the /:id routes so they are not
	// captured as trail ids.
	trails := s.App.Group("/trails")
	correlate.RegisterRoutes(trails, correlateSvc, s.Cfg.MaxTrailDistanceKm)
	segment.RegisterRoutes(trails, segmentSvc)
	trail.RegisterRoutes(trails, trailSvc)

	weather.RegisterRoutes(s.App.Group("/weather"), forecasts)
	alerts.RegisterRoutes(s.App.Group("/alerts"), alertSvc, warningsFeed)
}
