package ctdf

import (
	"fmt"
	"time"
)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Body      interface{}
}

type EventType string

const (
	EventTypeFeedUpdated EventType = "FeedUpdated"
	EventTypeFeedStale   EventType = "FeedStale"

	EventTypeTrackedDepartureChanged EventType = "TrackedDepartureChanged"
	EventTypeTrackedDepartureCleared EventType = "TrackedDepartureCleared"
)

type FeedEventBody struct {
	FeedID       string
	ServiceCount int
	FetchedAt    time.Time
}

type TrackedDepartureEventBody struct {
	Platform string
	Previous *TrackedDeparture
	Current  *TrackedDeparture
}

func (e *Event) Summary() string {
	switch body := e.Body.(type) {
	case FeedEventBody:
		if e.Type == EventTypeFeedStale {
			return fmt.Sprintf("Feed %s is stale, showing %d services from %s", body.FeedID, body.ServiceCount, body.FetchedAt.Format("15:04:05"))
		}
		return fmt.Sprintf("Feed %s updated with %d services", body.FeedID, body.ServiceCount)
	case TrackedDepartureEventBody:
		if body.Current == nil {
			return fmt.Sprintf("No departures tracked for platform %s", body.Platform)
		}

		target := DepartureBoardNoTime
		if body.Current.TargetTime != nil {
			target = body.Current.TargetTime.String()
		}
		return fmt.Sprintf("Platform %s next departure is the %s to %s", body.Platform, target, body.Current.DestinationName)
	default:
		return string(e.Type)
	}
}
