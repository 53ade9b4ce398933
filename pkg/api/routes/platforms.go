package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/liveboard/pkg/board"
	"github.com/travigo/liveboard/pkg/countdown"
	"github.com/travigo/liveboard/pkg/ctdf"
)

type platformResponse struct {
	Platform         string                 `groups:"basic"`
	TrackedDeparture *ctdf.TrackedDeparture `groups:"basic"`
	Countdown        countdown.Display      `groups:"basic"`
}

func PlatformsRouter(router fiber.Router, liveBoard *board.Board, clock countdown.Clock) {
	if clock == nil {
		clock = countdown.SystemClock{}
	}

	router.Get("/", func(c *fiber.Ctx) error {
		now := clock.Now()

		platforms := []platformResponse{}
		for _, platform := range liveBoard.TrackedPlatforms() {
			tracked := liveBoard.GetTrackedDeparture(platform)

			platforms = append(platforms, platformResponse{
				Platform:         platform,
				TrackedDeparture: tracked,
				Countdown:        countdown.Compute(platform, tracked, now),
			})
		}

		return sendPlatforms(c, platforms)
	})

	router.Get("/:platform", func(c *fiber.Ctx) error {
		platform := c.Params("platform")

		if !liveBoard.IsTrackedPlatform(platform) {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Platform is not tracked",
			})
		}

		tracked := liveBoard.GetTrackedDeparture(platform)

		return sendPlatforms(c, platformResponse{
			Platform:         platform,
			TrackedDeparture: tracked,
			Countdown:        countdown.Compute(platform, tracked, clock.Now()),
		})
	})
}

func sendPlatforms(c *fiber.Ctx, platforms interface{}) error {
	platformsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, platforms)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Platform",
		})
	}

	return c.JSON(platformsReduced)
}
