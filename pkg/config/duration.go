package config

import (
	"fmt"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

// Duration accepts either Go duration syntax (30s) or ISO8601 (PT30S)
type Duration time.Duration

func ParseDuration(value string) (Duration, error) {
	value = strings.TrimSpace(value)

	if strings.HasPrefix(value, "P") {
		parsed, err := iso8601.ParseISO8601(value)
		if err != nil {
			return 0, fmt.Errorf("invalid ISO8601 duration %q: %w", value, err)
		}

		// Only the time components are meaningful for poll intervals so anchor on a fixed instant
		reference := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Duration(parsed.Shift(reference).Sub(reference)), nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}

	return Duration(parsed), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ParseDuration(raw)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
