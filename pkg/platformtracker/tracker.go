package platformtracker

import (
	"github.com/travigo/liveboard/pkg/ctdf"
	"golang.org/x/exp/slices"
)

// Track returns the first service in feed order calling at platformID that is not cancelled.
// Feeds are already in departure order so the services are never re-sorted.
func Track(snapshot *ctdf.FeedSnapshot, platformID string) *ctdf.TrackedDeparture {
	if snapshot == nil || platformID == "" {
		return nil
	}

	index := slices.IndexFunc(snapshot.Services, func(service ctdf.Service) bool {
		return service.Platform == platformID && !service.Status.IsCancelled()
	})
	if index == -1 {
		return nil
	}

	service := snapshot.Services[index]

	return &ctdf.TrackedDeparture{
		Platform:        platformID,
		DestinationName: service.DestinationName,
		ScheduledTime:   copyTimeOfDay(service.ScheduledTime),
		TargetTime:      copyTimeOfDay(service.TargetTime()),
		Status: ctdf.ServiceStatus{
			Type:          service.Status.Type,
			EstimatedTime: copyTimeOfDay(service.Status.EstimatedTime),
		},
	}
}

// TrackAll tracks every platform in platformIDs, platforms with nothing eligible map to nil
func TrackAll(snapshot *ctdf.FeedSnapshot, platformIDs []string) map[string]*ctdf.TrackedDeparture {
	tracked := make(map[string]*ctdf.TrackedDeparture, len(platformIDs))

	for _, platformID := range platformIDs {
		tracked[platformID] = Track(snapshot, platformID)
	}

	return tracked
}

func copyTimeOfDay(timeOfDay *ctdf.TimeOfDay) *ctdf.TimeOfDay {
	if timeOfDay == nil {
		return nil
	}

	copied := *timeOfDay
	return &copied
}
