package feedpoller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
	"github.com/travigo/liveboard/pkg/ctdf"
)

type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

type Decoder func(body []byte) ([]ctdf.Service, error)

type Sink interface {
	UpdateFeed(feedID string, services []ctdf.Service, valid bool) error
}

type Feed struct {
	ID       string
	Endpoint string

	Interval time.Duration
	Timeout  time.Duration
}

// Poller fetches a single feed on a fixed interval and pushes the result into Sink.
// Polls are allowed to overlap, so every poll is numbered and a result is dropped when a
// later numbered poll has already completed.
type Poller struct {
	Feed    Feed
	Fetcher Fetcher
	Decoder Decoder
	Sink    Sink

	issued atomic.Uint64

	completedMutex sync.Mutex
	lastCompleted  uint64

	inFlight sync.WaitGroup
}

func (p *Poller) Run(ctx context.Context) {
	log.Info().
		Str("feed", p.Feed.ID).
		Str("endpoint", p.Feed.Endpoint).
		Dur("interval", p.Feed.Interval).
		Msg("Starting feed poller")

	p.startPoll(ctx)

	ticker := time.NewTicker(p.Feed.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.inFlight.Wait()
			return
		case <-ticker.C:
			p.startPoll(ctx)
		}
	}
}

// startPoll numbers the poll in tick order before handing it to its own goroutine
func (p *Poller) startPoll(ctx context.Context) {
	sequence := p.issued.Add(1)
	p.inFlight.Add(1)

	go func() {
		defer p.inFlight.Done()
		p.poll(ctx, sequence)
	}()
}

// Poll performs a single fetch and decode and applies it unless a newer poll beat it
func (p *Poller) Poll(ctx context.Context) {
	p.poll(ctx, p.issued.Add(1))
}

func (p *Poller) poll(ctx context.Context, sequence uint64) {
	var services []ctdf.Service
	var err error

	var catcher panics.Catcher
	catcher.Try(func() {
		services, err = p.fetch(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		err = recovered.AsError()
	}

	// Shutting down, leave the board as it is
	if ctx.Err() != nil {
		return
	}

	p.apply(sequence, services, err)
}

func (p *Poller) fetch(ctx context.Context) ([]ctdf.Service, error) {
	fetchCtx := ctx
	if p.Feed.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.Feed.Timeout)
		defer cancel()
	}

	body, err := p.Fetcher.Fetch(fetchCtx, p.Feed.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", p.Feed.ID, err)
	}

	services, err := p.Decoder(body)
	if err != nil {
		return nil, fmt.Errorf("decode feed %s: %w", p.Feed.ID, err)
	}

	return services, nil
}

func (p *Poller) apply(sequence uint64, services []ctdf.Service, pollErr error) {
	p.completedMutex.Lock()
	defer p.completedMutex.Unlock()

	if sequence <= p.lastCompleted {
		pollsTotal.WithLabelValues(p.Feed.ID, pollResultDiscarded).Inc()
		log.Debug().
			Str("feed", p.Feed.ID).
			Uint64("seq", sequence).
			Uint64("latest", p.lastCompleted).
			Msg("Discarding out of order poll result")
		return
	}
	p.lastCompleted = sequence

	valid := pollErr == nil
	if valid {
		pollsTotal.WithLabelValues(p.Feed.ID, pollResultSuccess).Inc()
		feedServices.WithLabelValues(p.Feed.ID).Set(float64(len(services)))
	} else {
		pollsTotal.WithLabelValues(p.Feed.ID, pollResultFailure).Inc()
		log.Error().Err(pollErr).Str("feed", p.Feed.ID).Uint64("seq", sequence).Msg("Feed poll failed, keeping last known services")
	}

	if err := p.Sink.UpdateFeed(p.Feed.ID, services, valid); err != nil {
		log.Error().Err(err).Str("feed", p.Feed.ID).Msg("Failed to update board")
	}
}
