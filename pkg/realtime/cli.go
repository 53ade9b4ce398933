package realtime

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/travigo/liveboard/pkg/api"
	"github.com/travigo/liveboard/pkg/boardcache"
	"github.com/travigo/liveboard/pkg/boardevents"
	"github.com/travigo/liveboard/pkg/config"
	"github.com/travigo/liveboard/pkg/console"
	"github.com/travigo/liveboard/pkg/huxley"
	"github.com/travigo/liveboard/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "path to a YAML config file",
	EnvVars: []string{"LIVEBOARD_CONFIG"},
}

func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "run",
			Usage: "poll the feeds and serve the board over HTTP",
			Flags: []cli.Flag{
				configFlag,
				&cli.StringFlag{
					Name:  "listen",
					Usage: "listen target for the web server, overrides the config",
				},
			},
			Action: func(c *cli.Context) error {
				liveBoard, err := setup(c)
				if err != nil {
					return err
				}

				if c.String("listen") != "" {
					liveBoard.Config.Listen = c.String("listen")
				}

				if err := redis_client.Connect(); err != nil {
					return err
				}
				if redis_client.Enabled() {
					liveBoard.Board.Subscribe(boardcache.New(redis_client.Client, boardcache.DefaultExpiration))
					liveBoard.Board.Subscribe(boardevents.NewRedisPublisher())
				}

				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()

				webApp := api.NewApp(liveBoard.Board, liveBoard.Config.PrimaryFeed, liveBoard.Countdown.Clock)

				var wg conc.WaitGroup
				wg.Go(func() {
					liveBoard.Run(ctx)
				})
				wg.Go(func() {
					if err := api.SetupServer(liveBoard.Config.Listen, webApp); err != nil {
						log.Error().Err(err).Msg("Web server stopped")
					}
				})

				waitForSignal()

				cancel()
				if err := webApp.Shutdown(); err != nil {
					log.Error().Err(err).Msg("Failed to shutdown web server")
				}
				wg.Wait()

				return nil
			},
		},
		{
			Name:  "watch",
			Usage: "poll the feeds and render the board in the terminal",
			Flags: []cli.Flag{
				configFlag,
			},
			Action: func(c *cli.Context) error {
				liveBoard, err := setup(c)
				if err != nil {
					return err
				}

				renderer := console.NewRenderer(os.Stdout, liveBoard.Config.FeedIDs(), liveBoard.FeedNames())
				renderer.ClearScreen = true

				liveBoard.Board.Subscribe(renderer)
				liveBoard.Countdown.Sink = renderer

				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()

				var wg conc.WaitGroup
				wg.Go(func() {
					liveBoard.Run(ctx)
				})

				waitForSignal()

				cancel()
				wg.Wait()

				return nil
			},
		},
		{
			Name:  "events",
			Usage: "log the board events published by run",
			Action: func(c *cli.Context) error {
				if err := redis_client.Connect(); err != nil {
					return err
				}
				if !redis_client.Enabled() {
					return errors.New("LIVEBOARD_REDIS_ADDRESS must be set to consume events")
				}

				err := boardevents.StartConsuming(boardevents.ConsumerOptions{
					NumberConsumers: 1,
					BatchSize:       20,
					Timeout:         2 * time.Second,
				}, &boardevents.BatchConsumer{})
				if err != nil {
					return err
				}

				waitForSignal()

				<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

				return nil
			},
		},
		{
			Name:  "dump",
			Usage: "poll every feed once and print the resulting board state",
			Flags: []cli.Flag{
				configFlag,
			},
			Action: func(c *cli.Context) error {
				liveBoard, err := setup(c)
				if err != nil {
					return err
				}

				liveBoard.PollOnce(c.Context)

				for _, feedID := range liveBoard.Board.FeedIDs() {
					snapshot, _ := liveBoard.Board.GetFeedSnapshot(feedID)
					pretty.Println(snapshot)
				}

				for _, display := range liveBoard.Countdown.Displays() {
					pretty.Println(display)
				}

				return nil
			},
		},
	}
}

func setup(c *cli.Context) (*LiveBoard, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	log.Info().
		Strs("feeds", cfg.FeedIDs()).
		Strs("platforms", cfg.TrackedPlatforms()).
		Str("huxley", cfg.HuxleyURL).
		Msg("Loaded config")

	return New(cfg, huxley.NewClient(cfg.RequestTimeout.Duration(), cfg.MaxRetries))
}

func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	<-signals // wait for signal
	go func() {
		<-signals // hard exit on second signal (in case shutdown gets stuck)
		os.Exit(1)
	}()

	log.Info().Msg("Shutting down")
}
