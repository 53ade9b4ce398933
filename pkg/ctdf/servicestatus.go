package ctdf

type ServiceStatusType string

const (
	ServiceStatusTypeOnTime    ServiceStatusType = "OnTime"
	ServiceStatusTypeDelayed   ServiceStatusType = "Delayed"
	ServiceStatusTypeCancelled ServiceStatusType = "Cancelled"
	ServiceStatusTypeEstimated ServiceStatusType = "Estimated"
)

// ServiceStatus is the closed set of states a service can be in.
// EstimatedTime is always set for Estimated, may be set for Delayed and is nil otherwise.
type ServiceStatus struct {
	Type          ServiceStatusType `groups:"basic"`
	EstimatedTime *TimeOfDay        `groups:"basic"`
}

func StatusOnTime() ServiceStatus {
	return ServiceStatus{Type: ServiceStatusTypeOnTime}
}

func StatusDelayed(estimated *TimeOfDay) ServiceStatus {
	return ServiceStatus{Type: ServiceStatusTypeDelayed, EstimatedTime: estimated}
}

func StatusCancelled() ServiceStatus {
	return ServiceStatus{Type: ServiceStatusTypeCancelled}
}

func StatusEstimated(estimated TimeOfDay) ServiceStatus {
	return ServiceStatus{Type: ServiceStatusTypeEstimated, EstimatedTime: &estimated}
}

func (s ServiceStatus) IsCancelled() bool {
	return s.Type == ServiceStatusTypeCancelled
}
