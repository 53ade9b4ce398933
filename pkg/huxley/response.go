package huxley

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Response is a Huxley 2 station board, as returned by /departures/{crs}/{rows}?expand=true
type Response struct {
	GeneratedAt  string `json:"generatedAt"`
	LocationName string `json:"locationName"`
	Crs          string `json:"crs"`

	TrainServices []RawService `json:"trainServices"`
}

type RawService struct {
	ServiceID string `json:"serviceID"`

	Destination []RawLocation `json:"destination"`
	Origin      []RawLocation `json:"origin"`

	Scheduled string  `json:"std"`
	Estimated string  `json:"etd"`
	Platform  *string `json:"platform"`

	IsCancelled bool `json:"isCancelled"`

	Operator     string `json:"operator"`
	OperatorCode string `json:"operatorCode"`
}

type RawLocation struct {
	LocationName string  `json:"locationName"`
	Crs          string  `json:"crs"`
	Via          *string `json:"via"`
}

type envelope struct {
	GeneratedAt  string `json:"generatedAt"`
	LocationName string `json:"locationName"`
	Crs          string `json:"crs"`

	TrainServices []json.RawMessage `json:"trainServices"`
}

// Decode parses a board body. A missing or null trainServices list is an empty board, not an error.
// Records are decoded one at a time so a single bad record never loses the rest of the board:
// a record with a wrongly typed field keeps whatever fields did decode, anything that is not an
// object is dropped.
func Decode(body []byte) (*Response, error) {
	var board envelope

	if err := json.Unmarshal(body, &board); err != nil {
		return nil, fmt.Errorf("decode huxley board: %w", err)
	}

	response := &Response{
		GeneratedAt:   board.GeneratedAt,
		LocationName:  board.LocationName,
		Crs:           board.Crs,
		TrainServices: make([]RawService, 0, len(board.TrainServices)),
	}

	for index, record := range board.TrainServices {
		service, err := decodeService(record)
		if err != nil {
			log.Warn().Err(err).Str("crs", board.Crs).Int("index", index).Msg("Dropping undecodable service record")
			continue
		}

		response.TrainServices = append(response.TrainServices, service)
	}

	return response, nil
}

func decodeService(record json.RawMessage) (RawService, error) {
	var service RawService

	trimmed := bytes.TrimSpace(record)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return service, errors.New("service record is not an object")
	}

	err := json.Unmarshal(trimmed, &service)

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		log.Warn().Err(err).Str("service", service.ServiceID).Msg("Service record has a badly typed field, using defaults")
		return service, nil
	}

	return service, err
}
