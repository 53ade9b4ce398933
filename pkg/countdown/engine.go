package countdown

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/liveboard/pkg/ctdf"
)

const DefaultInterval = time.Second

type Source interface {
	GetTrackedDeparture(platform string) *ctdf.TrackedDeparture
}

type Sink interface {
	RenderCountdowns(displays []Display)
}

type SinkFunc func(displays []Display)

func (f SinkFunc) RenderCountdowns(displays []Display) {
	f(displays)
}

// Engine recomputes every platform countdown from the source on each tick.
// Nothing is carried over between ticks.
type Engine struct {
	Clock     Clock
	Interval  time.Duration
	Platforms []string

	Source Source
	Sink   Sink
}

func (e *Engine) Run(ctx context.Context) {
	interval := e.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	log.Info().Strs("platforms", e.Platforms).Dur("interval", interval).Msg("Starting countdown engine")

	e.Tick()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

func (e *Engine) Tick() []Display {
	displays := e.Displays()

	if e.Sink != nil {
		e.Sink.RenderCountdowns(displays)
	}

	return displays
}

func (e *Engine) Displays() []Display {
	clock := e.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.Now()

	displays := make([]Display, 0, len(e.Platforms))
	for _, platform := range e.Platforms {
		displays = append(displays, Compute(platform, e.Source.GetTrackedDeparture(platform), now))
	}

	return displays
}
