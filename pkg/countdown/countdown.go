package countdown

import (
	"fmt"
	"time"

	"github.com/travigo/liveboard/pkg/ctdf"
)

type DisplayState string

const (
	DisplayStateWaiting  DisplayState = "Waiting"
	DisplayStateUnknown  DisplayState = "Unknown"
	DisplayStateDue      DisplayState = "Due"
	DisplayStateCounting DisplayState = "Counting"
)

const (
	WaitingText        = "--:--"
	WaitingDestination = "Waiting..."
	DueText            = "Due"
)

type Display struct {
	Platform    string       `groups:"basic"`
	Destination string       `groups:"basic"`
	Text        string       `groups:"basic"`
	State       DisplayState `groups:"basic"`

	Remaining time.Duration `groups:"detailed"`
}

// Compute works out what the countdown for tracked should show at now.
// The target time is always placed on now's calendar date, so a target earlier than now
// is Due rather than being rolled over to the next day.
func Compute(platform string, tracked *ctdf.TrackedDeparture, now time.Time) Display {
	if tracked == nil {
		return Display{
			Platform:    platform,
			Destination: WaitingDestination,
			Text:        WaitingText,
			State:       DisplayStateWaiting,
		}
	}

	display := Display{
		Platform:    platform,
		Destination: tracked.DestinationName,
	}

	if tracked.TargetTime == nil {
		display.Text = WaitingText
		display.State = DisplayStateUnknown
		return display
	}

	remaining := tracked.TargetTime.On(now).Sub(now)
	display.Remaining = remaining

	if remaining < 0 {
		display.Text = DueText
		display.State = DisplayStateDue
		return display
	}

	display.Text = FormatRemaining(remaining)
	display.State = DisplayStateCounting

	return display
}

// FormatRemaining renders a non-negative duration as M:SS, minutes are not capped at 59
func FormatRemaining(remaining time.Duration) string {
	minutes := int64(remaining / time.Minute)
	seconds := int64((remaining % time.Minute) / time.Second)

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
