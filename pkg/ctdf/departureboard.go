package ctdf

type DepartureBoardRowStatusClass string

const (
	DepartureBoardRowStatusClassOnTime    DepartureBoardRowStatusClass = "status-ontime"
	DepartureBoardRowStatusClassDelayed   DepartureBoardRowStatusClass = "status-delayed"
	DepartureBoardRowStatusClassCancelled DepartureBoardRowStatusClass = "status-cancelled"
)

const (
	DepartureBoardNoPlatform = "-"
	DepartureBoardNoTime     = "--:--"
)

// DepartureBoardRow is the display form of a Service
type DepartureBoardRow struct {
	ScheduledTime string `groups:"basic"`
	Destination   string `groups:"basic"`
	Via           string `groups:"basic"`
	Platform      string `groups:"basic"`

	StatusText  string                       `groups:"basic"`
	StatusClass DepartureBoardRowStatusClass `groups:"basic"`
}

func NewDepartureBoardRow(service Service) DepartureBoardRow {
	row := DepartureBoardRow{
		ScheduledTime: DepartureBoardNoTime,
		Destination:   service.DestinationName,
		Via:           service.Via,
		Platform:      DepartureBoardNoPlatform,
	}

	if service.ScheduledTime != nil {
		row.ScheduledTime = service.ScheduledTime.String()
	}

	if service.HasPlatform() {
		row.Platform = service.Platform
	}

	switch service.Status.Type {
	case ServiceStatusTypeOnTime:
		row.StatusText = "On time"
		row.StatusClass = DepartureBoardRowStatusClassOnTime
	case ServiceStatusTypeCancelled:
		row.StatusText = "Cancelled"
		row.StatusClass = DepartureBoardRowStatusClassCancelled
	case ServiceStatusTypeEstimated:
		row.StatusText = service.Status.EstimatedTime.String()
		row.StatusClass = DepartureBoardRowStatusClassDelayed
	default:
		row.StatusText = "Delayed"
		if service.Status.EstimatedTime != nil {
			row.StatusText = service.Status.EstimatedTime.String()
		}
		row.StatusClass = DepartureBoardRowStatusClassDelayed
	}

	return row
}

func GenerateDepartureBoardRows(services []Service) []DepartureBoardRow {
	rows := make([]DepartureBoardRow, 0, len(services))

	for _, service := range services {
		rows = append(rows, NewDepartureBoardRow(service))
	}

	return rows
}
