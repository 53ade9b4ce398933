package huxley

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

// Filter restricts a board to the services matching Expression, keeping at most Limit of them.
// An empty Expression matches everything and a Limit of 0 means no limit.
type Filter struct {
	Expression string
	Limit      int

	program *vm.Program
}

type filterEnvironment struct {
	Destinations []string `expr:"destinations"`
	Via          []string `expr:"via"`
	Scheduled    string   `expr:"std"`
	Estimated    string   `expr:"etd"`
	Platform     string   `expr:"platform"`
	Operator     string   `expr:"operator"`
	Cancelled    bool     `expr:"cancelled"`
}

func NewFilter(expression string, limit int) (*Filter, error) {
	filter := &Filter{
		Expression: expression,
		Limit:      limit,
	}

	if limit < 0 {
		return nil, fmt.Errorf("filter limit must not be negative, got %d", limit)
	}

	if expression != "" {
		program, err := expr.Compile(expression, expr.Env(filterEnvironment{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile filter %q: %w", expression, err)
		}

		filter.program = program
	}

	return filter, nil
}

// DestinationFilterExpression matches services with any destination containing name
func DestinationFilterExpression(name string) string {
	return fmt.Sprintf("any(destinations, {# contains %q})", name)
}

func (f *Filter) Apply(services []RawService) []RawService {
	if f == nil {
		return services
	}

	filtered := make([]RawService, 0, len(services))

	for _, service := range services {
		if f.Limit > 0 && len(filtered) >= f.Limit {
			break
		}

		if f.Matches(service) {
			filtered = append(filtered, service)
		}
	}

	return filtered
}

func (f *Filter) Matches(service RawService) bool {
	if f == nil || f.program == nil {
		return true
	}

	result, err := expr.Run(f.program, newFilterEnvironment(service))
	if err != nil {
		log.Error().Err(err).Str("filter", f.Expression).Str("service", service.ServiceID).Msg("Failed to evaluate service filter")
		return false
	}

	matches, _ := result.(bool)
	return matches
}

func newFilterEnvironment(service RawService) filterEnvironment {
	environment := filterEnvironment{
		Destinations: []string{},
		Via:          []string{},
		Scheduled:    service.Scheduled,
		Estimated:    service.Estimated,
		Operator:     service.Operator,
		Cancelled:    service.IsCancelled,
	}

	for _, destination := range service.Destination {
		environment.Destinations = append(environment.Destinations, destination.LocationName)
		if destination.Via != nil {
			environment.Via = append(environment.Via, *destination.Via)
		}
	}

	if service.Platform != nil {
		environment.Platform = *service.Platform
	}

	return environment
}
