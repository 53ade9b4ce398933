package huxley

import (
	"strings"

	"github.com/travigo/liveboard/pkg/ctdf"
)

const (
	estimateOnTime    = "On time"
	estimateCancelled = "Cancelled"
	estimateDelayed   = "Delayed"
)

// Normalize converts a raw Huxley service into a ctdf.Service. It never fails,
// anything it cannot make sense of degrades to a safe default.
func Normalize(raw RawService) ctdf.Service {
	service := ctdf.Service{
		DestinationName: ctdf.UnknownDestinationName,
		Status:          NormalizeStatus(raw.Estimated),
	}

	if len(raw.Destination) > 0 {
		destination := raw.Destination[0]

		if name := strings.TrimSpace(destination.LocationName); name != "" {
			service.DestinationName = name
		}
		if destination.Via != nil {
			service.Via = *destination.Via
		}
	}

	if scheduled, ok := ctdf.ParseTimeOfDay(raw.Scheduled); ok {
		service.ScheduledTime = scheduled
	}

	if raw.Platform != nil {
		service.Platform = strings.TrimSpace(*raw.Platform)
	}

	if raw.IsCancelled {
		service.Status = ctdf.StatusCancelled()
	}

	return service
}

// NormalizeStatus classifies an etd value. Matching on the literals is case sensitive.
func NormalizeStatus(estimated string) ctdf.ServiceStatus {
	switch estimated {
	case "":
		return ctdf.StatusOnTime()
	case estimateOnTime:
		return ctdf.StatusOnTime()
	case estimateCancelled:
		return ctdf.StatusCancelled()
	case estimateDelayed:
		return ctdf.StatusDelayed(nil)
	}

	if estimatedTime, ok := ctdf.ParseTimeOfDay(estimated); ok {
		return ctdf.StatusEstimated(*estimatedTime)
	}

	return ctdf.StatusDelayed(nil)
}

func NormalizeAll(raws []RawService) []ctdf.Service {
	services := make([]ctdf.Service, 0, len(raws))

	for _, raw := range raws {
		services = append(services, Normalize(raw))
	}

	return services
}
