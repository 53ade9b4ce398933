package boardevents

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/liveboard/pkg/ctdf"
)

func TestDecodeEventRoundTrip(t *testing.T) {
	timestamp := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	event := ctdf.Event{
		Type:      ctdf.EventTypeTrackedDepartureChanged,
		Timestamp: timestamp,
		Body: ctdf.TrackedDepartureEventBody{
			Platform: "2",
			Current: &ctdf.TrackedDeparture{
				Platform:        "2",
				DestinationName: "Shoeburyness",
				ScheduledTime:   &ctdf.TimeOfDay{Hour: 8, Minute: 21},
				TargetTime:      &ctdf.TimeOfDay{Hour: 8, Minute: 24},
				Status:          ctdf.StatusEstimated(ctdf.TimeOfDay{Hour: 8, Minute: 24}),
			},
		},
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := DecodeEvent(payload)
	require.NoError(t, err)

	assert.Equal(t, event.Type, decoded.Type)
	assert.True(t, timestamp.Equal(decoded.Timestamp))
	assert.Equal(t, event.Body, decoded.Body)
	assert.Equal(t, "Platform 2 next departure is the 08:24 to Shoeburyness", decoded.Summary())
}

func TestDecodeFeedEvent(t *testing.T) {
	decoded, err := DecodeEvent([]byte(`{"Type":"FeedStale","Body":{"FeedID":"southend","ServiceCount":4}}`))
	require.NoError(t, err)

	body, ok := decoded.Body.(ctdf.FeedEventBody)
	require.True(t, ok)
	assert.Equal(t, "southend", body.FeedID)
	assert.Equal(t, 4, body.ServiceCount)
}

func TestDecodeEventErrors(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"Type":"SomethingElse","Body":{}}`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`{"Type":"TrackedDepartureChanged","Body":{"Current":{"TargetTime":"soon"}}}`))
	assert.Error(t, err)
}
