package boardevents

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/liveboard/pkg/ctdf"
	"github.com/travigo/liveboard/pkg/redis_client"
)

type encodedEvent struct {
	Type      ctdf.EventType
	Timestamp time.Time
	Body      json.RawMessage
}

// DecodeEvent turns a queue payload back into an Event with a typed body
func DecodeEvent(payload []byte) (*ctdf.Event, error) {
	var encoded encodedEvent
	if err := json.Unmarshal(payload, &encoded); err != nil {
		return nil, err
	}

	event := &ctdf.Event{
		Type:      encoded.Type,
		Timestamp: encoded.Timestamp,
	}

	switch encoded.Type {
	case ctdf.EventTypeFeedUpdated, ctdf.EventTypeFeedStale:
		var body ctdf.FeedEventBody
		if err := json.Unmarshal(encoded.Body, &body); err != nil {
			return nil, err
		}
		event.Body = body
	case ctdf.EventTypeTrackedDepartureChanged, ctdf.EventTypeTrackedDepartureCleared:
		var body ctdf.TrackedDepartureEventBody
		if err := json.Unmarshal(encoded.Body, &body); err != nil {
			return nil, err
		}
		event.Body = body
	default:
		return nil, fmt.Errorf("unknown event type %q", encoded.Type)
	}

	return event, nil
}

// BatchConsumer logs every event it receives, Handler is called for the ones that decode
type BatchConsumer struct {
	Handler func(event *ctdf.Event)
}

func (c *BatchConsumer) Consume(batch rmq.Deliveries) {
	for _, payload := range batch.Payloads() {
		event, err := DecodeEvent([]byte(payload))
		if err != nil {
			log.Error().Err(err).Str("payload", payload).Msg("Failed to decode event")
			continue
		}

		log.Info().Str("type", string(event.Type)).Time("timestamp", event.Timestamp).Msg(event.Summary())

		if c.Handler != nil {
			c.Handler(event)
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack event")
		}
	}
}

type ConsumerOptions struct {
	NumberConsumers int
	BatchSize       int
	Timeout         time.Duration
}

// StartConsuming attaches batch consumers to the events queue, stop them with
// redis_client.QueueConnection.StopAllConsuming
func StartConsuming(options ConsumerOptions, consumer rmq.BatchConsumer) error {
	log.Info().Str("queue", QueueName).Msg("Starting consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(QueueName)
	if err != nil {
		return err
	}
	if err := queue.StartConsuming(int64(options.NumberConsumers*options.BatchSize), time.Second); err != nil {
		return err
	}

	for i := 0; i < options.NumberConsumers; i++ {
		if _, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", QueueName, i), int64(options.BatchSize), options.Timeout, consumer); err != nil {
			return err
		}
	}

	return nil
}
