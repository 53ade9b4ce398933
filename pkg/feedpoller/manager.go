package feedpoller

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// Manager runs a set of independent pollers until the context is cancelled
type Manager struct {
	Pollers []*Poller
}

func (m *Manager) Run(ctx context.Context) {
	log.Info().Int("feeds", len(m.Pollers)).Msg("Starting feed pollers")

	var wg conc.WaitGroup

	for _, poller := range m.Pollers {
		wg.Go(func() {
			poller.Run(ctx)
		})
	}

	wg.Wait()
}
