package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/travigo/liveboard/pkg/board"
	"github.com/travigo/liveboard/pkg/config"
	"github.com/travigo/liveboard/pkg/countdown"
	"github.com/travigo/liveboard/pkg/feedpoller"
	"github.com/travigo/liveboard/pkg/huxley"
)

// LiveBoard wires the pollers, board state and countdown engine for one configuration
type LiveBoard struct {
	Config *config.Config

	Board     *board.Board
	Manager   *feedpoller.Manager
	Countdown *countdown.Engine
}

func New(cfg *config.Config, fetcher feedpoller.Fetcher) (*LiveBoard, error) {
	liveBoard := board.New(cfg.FeedIDs(), cfg.Tracking)

	manager := &feedpoller.Manager{}
	pollTimeout := PollTimeout(cfg, fetcher)

	for _, feed := range cfg.Feeds {
		filter, err := feed.NewFilter()
		if err != nil {
			return nil, fmt.Errorf("feed %s: %w", feed.ID, err)
		}

		manager.Pollers = append(manager.Pollers, &feedpoller.Poller{
			Feed: feedpoller.Feed{
				ID:       feed.ID,
				Endpoint: feed.Endpoint(cfg.HuxleyURL),
				Interval: feed.PollInterval(cfg.PollInterval),
				Timeout:  pollTimeout,
			},
			Fetcher: fetcher,
			Decoder: huxley.NewDecoder(filter),
			Sink:    liveBoard,
		})
	}

	engine := &countdown.Engine{
		Clock:     countdown.SystemClock{},
		Interval:  cfg.TickInterval.Duration(),
		Platforms: liveBoard.TrackedPlatforms(),
		Source:    liveBoard,
	}

	return &LiveBoard{
		Config:    cfg,
		Board:     liveBoard,
		Manager:   manager,
		Countdown: engine,
	}, nil
}

// PollTimeout bounds a whole poll. A Huxley client times out each attempt itself, so the poll
// is given room for every retry rather than a single request timeout.
func PollTimeout(cfg *config.Config, fetcher feedpoller.Fetcher) time.Duration {
	if client, ok := fetcher.(*huxley.Client); ok {
		return client.Budget()
	}

	return cfg.RequestTimeout.Duration()
}

// Run starts polling and the countdown engine and blocks until ctx is cancelled
func (l *LiveBoard) Run(ctx context.Context) {
	var wg conc.WaitGroup

	wg.Go(func() {
		l.Manager.Run(ctx)
	})
	wg.Go(func() {
		l.Countdown.Run(ctx)
	})

	wg.Wait()

	log.Info().Msg("Live board stopped")
}

// PollOnce runs a single poll of every feed concurrently
func (l *LiveBoard) PollOnce(ctx context.Context) {
	var wg conc.WaitGroup

	for _, poller := range l.Manager.Pollers {
		wg.Go(func() {
			poller.Poll(ctx)
		})
	}

	wg.Wait()
}

func (l *LiveBoard) FeedNames() map[string]string {
	names := map[string]string{}

	for _, feed := range l.Config.Feeds {
		if feed.Name != "" {
			names[feed.ID] = feed.Name
		}
	}

	return names
}
