package ctdf

const UnknownDestinationName = "Unknown"

// Service is a single normalised train record from a feed
type Service struct {
	DestinationName string `groups:"basic"`
	Via             string `groups:"basic"`

	// Nil when the feed published a scheduled time that could not be parsed
	ScheduledTime *TimeOfDay `groups:"basic"`

	Status ServiceStatus `groups:"basic"`

	// Empty when the feed did not publish a platform
	Platform string `groups:"basic"`
}

func (s *Service) HasPlatform() bool {
	return s.Platform != ""
}

// TargetTime is the time a countdown to this service should aim for.
// Estimated services use their estimate, everything else falls back to the scheduled time.
func (s *Service) TargetTime() *TimeOfDay {
	if s.Status.Type == ServiceStatusTypeEstimated && s.Status.EstimatedTime != nil {
		return s.Status.EstimatedTime
	}

	return s.ScheduledTime
}
