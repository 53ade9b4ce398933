package boardevents

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/liveboard/pkg/board"
	"github.com/travigo/liveboard/pkg/ctdf"
	"github.com/travigo/liveboard/pkg/redis_client"
	"golang.org/x/exp/slices"
)

const QueueName = "liveboard-events"

type Queue interface {
	PublishBytes(payload ...[]byte) error
}

// Publisher raises events onto a queue whenever a feed goes stale or a tracked platform changes
type Publisher struct {
	EventQueue Queue

	now func() time.Time
}

func NewPublisher(queue Queue) *Publisher {
	return &Publisher{
		EventQueue: queue,
		now:        time.Now,
	}
}

func NewRedisPublisher() *Publisher {
	eventQueue, err := redis_client.QueueConnection.OpenQueue(QueueName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start event queue")
	}

	return NewPublisher(eventQueue)
}

func (p *Publisher) BoardChanged(change board.Change) {
	for _, event := range p.eventsFor(change) {
		eventBytes, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to encode event")
			continue
		}

		if err := p.EventQueue.PublishBytes(eventBytes); err != nil {
			log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to publish event")
			continue
		}

		log.Debug().Str("type", string(event.Type)).Msg(event.Summary())
	}
}

func (p *Publisher) eventsFor(change board.Change) []ctdf.Event {
	timestamp := p.now()
	var events []ctdf.Event

	feedEvent := ctdf.Event{
		Type:      ctdf.EventTypeFeedUpdated,
		Timestamp: timestamp,
		Body: ctdf.FeedEventBody{
			FeedID:       change.FeedID,
			ServiceCount: len(change.Snapshot.Services),
			FetchedAt:    change.Snapshot.FetchedAt,
		},
	}
	if !change.Snapshot.Valid {
		feedEvent.Type = ctdf.EventTypeFeedStale
	}
	events = append(events, feedEvent)

	changedPlatforms := change.ChangedPlatforms()
	slices.Sort(changedPlatforms)

	for _, platform := range changedPlatforms {
		event := ctdf.Event{
			Type:      ctdf.EventTypeTrackedDepartureChanged,
			Timestamp: timestamp,
			Body: ctdf.TrackedDepartureEventBody{
				Platform: platform,
				Previous: change.Previous[platform],
				Current:  change.Tracked[platform],
			},
		}
		if change.Tracked[platform] == nil {
			event.Type = ctdf.EventTypeTrackedDepartureCleared
		}

		events = append(events, event)
	}

	return events
}
