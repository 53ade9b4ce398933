package ctdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/travigo/liveboard/pkg/util"
)

// TimeOfDay is a wall clock time with no date attached, as published by the feeds (HH:MM)
type TimeOfDay struct {
	Hour   int `groups:"basic"`
	Minute int `groups:"basic"`
}

func ParseTimeOfDay(value string) (*TimeOfDay, bool) {
	value = strings.TrimSpace(value)

	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return nil, false
	}

	return &TimeOfDay{
		Hour:   parsed.Hour(),
		Minute: parsed.Minute(),
	}, true
}

// On places the time of day on the calendar date of date, in date's location
func (t TimeOfDay) On(date time.Time) time.Time {
	return util.TimeOfDayOnDate(date, t.Hour, t.Minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, ok := ParseTimeOfDay(string(text))
	if !ok {
		return fmt.Errorf("invalid time of day %q", string(text))
	}

	*t = *parsed
	return nil
}
