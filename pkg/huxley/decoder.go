package huxley

import (
	"github.com/travigo/liveboard/pkg/ctdf"
)

// NewDecoder returns a function turning a raw board body into normalised services,
// applying filter (which may be nil) before normalisation
func NewDecoder(filter *Filter) func([]byte) ([]ctdf.Service, error) {
	return func(body []byte) ([]ctdf.Service, error) {
		response, err := Decode(body)
		if err != nil {
			return nil, err
		}

		return NormalizeAll(filter.Apply(response.TrainServices)), nil
	}
}
