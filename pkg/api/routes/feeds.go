package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/liveboard/pkg/board"
	"github.com/travigo/liveboard/pkg/ctdf"
)

type feedResponse struct {
	FeedID        string    `groups:"basic"`
	Valid         bool      `groups:"basic"`
	Stale         bool      `groups:"basic"`
	FetchedAt     time.Time `groups:"basic"`
	LastAttemptAt time.Time `groups:"detailed"`
	Revision      uint64    `groups:"detailed"`

	Rows []ctdf.DepartureBoardRow `groups:"basic"`
}

func FeedsRouter(router fiber.Router, liveBoard *board.Board, primaryFeed string) {
	router.Get("/departures", func(c *fiber.Ctx) error {
		return sendFeedRows(c, liveBoard, primaryFeed)
	})
	router.Get("/arrivals/:feed", func(c *fiber.Ctx) error {
		return sendFeedRows(c, liveBoard, c.Params("feed"))
	})
	router.Get("/feeds", func(c *fiber.Ctx) error {
		return c.JSON(liveBoard.FeedIDs())
	})
	router.Get("/feeds/:feed", func(c *fiber.Ctx) error {
		return getFeed(c, liveBoard, c.Params("feed"))
	})
}

func sendFeedRows(c *fiber.Ctx, liveBoard *board.Board, feedID string) error {
	snapshot, exists := liveBoard.GetFeedSnapshot(feedID)
	if !exists {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Feed matching Feed Identifier",
		})
	}

	rowsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, ctdf.GenerateDepartureBoardRows(snapshot.Services))
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Departure Board",
		})
	}

	return c.JSON(rowsReduced)
}

func getFeed(c *fiber.Ctx, liveBoard *board.Board, feedID string) error {
	snapshot, exists := liveBoard.GetFeedSnapshot(feedID)
	if !exists {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Feed matching Feed Identifier",
		})
	}

	response := feedResponse{
		FeedID:        snapshot.FeedID,
		Valid:         snapshot.Valid,
		Stale:         snapshot.IsStale(),
		FetchedAt:     snapshot.FetchedAt,
		LastAttemptAt: snapshot.LastAttemptAt,
		Revision:      snapshot.Revision,
		Rows:          ctdf.GenerateDepartureBoardRows(snapshot.Services),
	}

	responseReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, response)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Feed",
		})
	}

	return c.JSON(responseReduced)
}
