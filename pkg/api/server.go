package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/travigo/liveboard/pkg/api/routes"
	"github.com/travigo/liveboard/pkg/board"
	"github.com/travigo/liveboard/pkg/countdown"
)

func NewApp(liveBoard *board.Board, primaryFeed string, clock countdown.Clock) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)
	webApp.Get("metrics", adaptor.HTTPHandler(promhttp.Handler()))

	group := webApp.Group("/api")

	routes.FeedsRouter(group, liveBoard, primaryFeed)
	routes.PlatformsRouter(group.Group("/platforms"), liveBoard, clock)

	return webApp
}

func SetupServer(listen string, webApp *fiber.App) error {
	return webApp.Listen(listen)
}
