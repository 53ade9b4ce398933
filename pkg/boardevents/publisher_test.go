package boardevents

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/liveboard/pkg/board"
	"github.com/travigo/liveboard/pkg/ctdf"
)

type memoryQueue struct {
	payloads [][]byte
	err      error
}

func (q *memoryQueue) PublishBytes(payload ...[]byte) error {
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, payload...)
	return nil
}

type decodedEvent struct {
	Type      ctdf.EventType
	Timestamp time.Time
	Body      map[string]interface{}
}

func (q *memoryQueue) events(t *testing.T) []decodedEvent {
	var events []decodedEvent
	for _, payload := range q.payloads {
		var event decodedEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		events = append(events, event)
	}
	return events
}

func onTimeService(destination string, platform string) ctdf.Service {
	return ctdf.Service{
		DestinationName: destination,
		ScheduledTime:   &ctdf.TimeOfDay{Hour: 8, Minute: 15},
		Status:          ctdf.StatusOnTime(),
		Platform:        platform,
	}
}

func TestPublisherEvents(t *testing.T) {
	queue := &memoryQueue{}
	b := board.New([]string{"departures", "southend"}, map[string][]string{"departures": {"1", "2"}})
	b.Subscribe(NewPublisher(queue))

	require.NoError(t, b.UpdateFeed("departures", []ctdf.Service{onTimeService("Grays", "1"), onTimeService("Upminster", "2")}, true))

	events := queue.events(t)
	require.Len(t, events, 3)
	assert.Equal(t, ctdf.EventTypeFeedUpdated, events[0].Type)
	assert.Equal(t, "departures", events[0].Body["FeedID"])
	assert.Equal(t, float64(2), events[0].Body["ServiceCount"])
	assert.Equal(t, ctdf.EventTypeTrackedDepartureChanged, events[1].Type)
	assert.Equal(t, "1", events[1].Body["Platform"])
	assert.Equal(t, "2", events[2].Body["Platform"])

	queue.payloads = nil
	require.NoError(t, b.UpdateFeed("departures", []ctdf.Service{onTimeService("Upminster", "2")}, true))

	events = queue.events(t)
	require.Len(t, events, 2)
	assert.Equal(t, ctdf.EventTypeTrackedDepartureCleared, events[1].Type)
	assert.Equal(t, "1", events[1].Body["Platform"])

	queue.payloads = nil
	require.NoError(t, b.UpdateFeed("southend", nil, false))

	events = queue.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, ctdf.EventTypeFeedStale, events[0].Type)
}

func TestPublisherSurvivesQueueErrors(t *testing.T) {
	queue := &memoryQueue{err: errors.New("redis down")}
	b := board.New([]string{"departures"}, nil)
	b.Subscribe(NewPublisher(queue))

	assert.NotPanics(t, func() {
		require.NoError(t, b.UpdateFeed("departures", []ctdf.Service{onTimeService("Grays", "1")}, true))
	})
	assert.Empty(t, queue.payloads)
}

func TestEventSummary(t *testing.T) {
	event := ctdf.Event{
		Type: ctdf.EventTypeTrackedDepartureChanged,
		Body: ctdf.TrackedDepartureEventBody{
			Platform: "1",
			Current: &ctdf.TrackedDeparture{
				DestinationName: "Grays",
				TargetTime:      &ctdf.TimeOfDay{Hour: 8, Minute: 15},
			},
		},
	}

	assert.Equal(t, "Platform 1 next departure is the 08:15 to Grays", event.Summary())
}
