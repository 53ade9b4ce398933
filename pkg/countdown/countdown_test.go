package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/liveboard/pkg/ctdf"
)

func tenOClock() time.Time {
	return time.Date(2026, time.October, 18, 10, 0, 0, 0, time.Local)
}

func trackedAt(hour int, minute int) *ctdf.TrackedDeparture {
	return &ctdf.TrackedDeparture{
		Platform:        "1",
		DestinationName: "London Fenchurch Street",
		TargetTime:      &ctdf.TimeOfDay{Hour: hour, Minute: minute},
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		tracked     *ctdf.TrackedDeparture
		now         time.Time
		text        string
		state       DisplayState
		destination string
	}{
		{"five minutes", trackedAt(10, 5), tenOClock(), "5:00", DisplayStateCounting, "London Fenchurch Street"},
		{"past", trackedAt(9, 59), tenOClock(), "Due", DisplayStateDue, "London Fenchurch Street"},
		{"now", trackedAt(10, 0), tenOClock(), "0:00", DisplayStateCounting, "London Fenchurch Street"},
		{"half a second past", trackedAt(10, 0), tenOClock().Add(500 * time.Millisecond), "Due", DisplayStateDue, "London Fenchurch Street"},
		{"seconds padded", trackedAt(10, 1), tenOClock().Add(53 * time.Second), "0:07", DisplayStateCounting, "London Fenchurch Street"},
		{"partial second floors", trackedAt(10, 5), tenOClock().Add(1500 * time.Millisecond), "4:58", DisplayStateCounting, "London Fenchurch Street"},
		{"minutes unbounded", trackedAt(12, 30), tenOClock(), "150:00", DisplayStateCounting, "London Fenchurch Street"},
		{"no rollover at midnight", trackedAt(0, 5), time.Date(2026, time.October, 18, 23, 58, 0, 0, time.Local), "Due", DisplayStateDue, "London Fenchurch Street"},
		{"waiting", nil, tenOClock(), "--:--", DisplayStateWaiting, "Waiting..."},
		{"unparseable target", &ctdf.TrackedDeparture{DestinationName: "Grays"}, tenOClock(), "--:--", DisplayStateUnknown, "Grays"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			display := Compute("1", test.tracked, test.now)

			assert.Equal(t, test.text, display.Text)
			assert.Equal(t, test.state, display.State)
			assert.Equal(t, test.destination, display.Destination)
			assert.Equal(t, "1", display.Platform)
		})
	}
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0:00", FormatRemaining(0))
	assert.Equal(t, "0:59", FormatRemaining(59*time.Second+999*time.Millisecond))
	assert.Equal(t, "1:00", FormatRemaining(time.Minute))
	assert.Equal(t, "61:01", FormatRemaining(61*time.Minute+time.Second))
}
