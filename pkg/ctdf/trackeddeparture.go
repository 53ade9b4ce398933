package ctdf

// TrackedDeparture is the next eligible service for a single platform
type TrackedDeparture struct {
	Platform        string     `groups:"basic"`
	DestinationName string     `groups:"basic"`
	ScheduledTime   *TimeOfDay `groups:"basic"`

	// Nil when neither an estimate nor the scheduled time could be parsed
	TargetTime *TimeOfDay `groups:"basic"`

	Status ServiceStatus `groups:"basic"`
}

func (t *TrackedDeparture) Equal(other *TrackedDeparture) bool {
	if t == nil || other == nil {
		return t == nil && other == nil
	}

	return t.Platform == other.Platform &&
		t.DestinationName == other.DestinationName &&
		equalTimeOfDay(t.ScheduledTime, other.ScheduledTime) &&
		equalTimeOfDay(t.TargetTime, other.TargetTime) &&
		t.Status.Type == other.Status.Type &&
		equalTimeOfDay(t.Status.EstimatedTime, other.Status.EstimatedTime)
}

func equalTimeOfDay(a *TimeOfDay, b *TimeOfDay) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}
