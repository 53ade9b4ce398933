package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/liveboard/pkg/huxley"
	"github.com/travigo/liveboard/pkg/util"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HuxleyURL string `yaml:"huxley_url" validate:"required,url"`
	Listen    string `yaml:"listen" validate:"required"`

	PollInterval   Duration `yaml:"poll_interval"`
	TickInterval   Duration `yaml:"tick_interval"`
	RequestTimeout Duration `yaml:"request_timeout"`
	MaxRetries     uint64   `yaml:"max_retries"`

	// PrimaryFeed is served as /api/departures, the rest as /api/arrivals/{id}
	PrimaryFeed string       `yaml:"primary_feed" validate:"required"`
	Feeds       []FeedConfig `yaml:"feeds" validate:"required,min=1,unique=ID,dive"`

	// Tracking maps a feed ID to the platforms whose next departure is taken from it
	Tracking map[string][]string `yaml:"tracking"`
}

type FeedConfig struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name"`

	// Either a station CRS code on the Huxley server or a full URL
	Crs  string `yaml:"crs" validate:"required_without=URL"`
	Rows int    `yaml:"rows" validate:"gte=0,lte=150"`
	URL  string `yaml:"url" validate:"omitempty,url"`

	// Destination is shorthand for a filter matching services calling at that destination
	Destination string `yaml:"destination"`
	Filter      string `yaml:"filter"`
	Limit       int    `yaml:"limit" validate:"gte=0"`

	Interval Duration `yaml:"interval"`
}

const defaultRows = 10

func Default() *Config {
	return &Config{
		HuxleyURL:      huxley.DefaultBaseURL,
		Listen:         ":8080",
		PollInterval:   Duration(30 * time.Second),
		TickInterval:   Duration(time.Second),
		RequestTimeout: Duration(10 * time.Second),
		MaxRetries:     1,
		PrimaryFeed:    "departures",
		Feeds: []FeedConfig{
			{
				ID:   "departures",
				Name: "West Horndon",
				Crs:  "WHR",
				Rows: defaultRows,
			},
			{
				ID:          "fenchurch-street",
				Name:        "From London Fenchurch Street",
				Crs:         "FST",
				Rows:        defaultRows,
				Destination: "West Horndon",
				Limit:       5,
			},
			{
				ID:          "southend",
				Name:        "From Southend Central",
				Crs:         "SOC",
				Rows:        defaultRows,
				Destination: "West Horndon",
				Limit:       5,
			},
		},
		Tracking: map[string][]string{
			"departures": {"1", "2"},
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path and then the environment
func Load(path string) (*Config, error) {
	return LoadWithEnvironment(path, util.GetEnvironmentVariables())
}

func LoadWithEnvironment(path string, env map[string]string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = env["LIVEBOARD_CONFIG"]
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}

		// yaml merges into existing maps, tracking from the file replaces the defaults instead
		defaultTracking := cfg.Tracking
		cfg.Tracking = nil

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}

		if cfg.Tracking == nil {
			cfg.Tracking = defaultTracking
		}
	}

	if err := cfg.applyEnvironment(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	c.HuxleyURL = util.GetEnvironmentVariable(env, "LIVEBOARD_HUXLEY_URL", c.HuxleyURL)
	c.Listen = util.GetEnvironmentVariable(env, "LIVEBOARD_LISTEN", c.Listen)

	durations := map[string]*Duration{
		"LIVEBOARD_POLL_INTERVAL":   &c.PollInterval,
		"LIVEBOARD_TICK_INTERVAL":   &c.TickInterval,
		"LIVEBOARD_REQUEST_TIMEOUT": &c.RequestTimeout,
	}
	for name, target := range durations {
		if env[name] == "" {
			continue
		}

		parsed, err := ParseDuration(env[name])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*target = parsed
	}

	if env["LIVEBOARD_MAX_RETRIES"] != "" {
		retries, err := strconv.ParseUint(env["LIVEBOARD_MAX_RETRIES"], 10, 64)
		if err != nil {
			return fmt.Errorf("LIVEBOARD_MAX_RETRIES: %w", err)
		}
		c.MaxRetries = retries
	}

	return nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.PollInterval <= 0 || c.TickInterval <= 0 || c.RequestTimeout <= 0 {
		return errors.New("poll_interval, tick_interval and request_timeout must be positive")
	}

	feedIDs := c.FeedIDs()

	if !slices.Contains(feedIDs, c.PrimaryFeed) {
		return fmt.Errorf("primary feed %q is not configured", c.PrimaryFeed)
	}

	trackedBy := map[string]string{}
	for feedID, platforms := range c.Tracking {
		if !slices.Contains(feedIDs, feedID) {
			return fmt.Errorf("tracking refers to unknown feed %q", feedID)
		}

		for _, platform := range platforms {
			if platform == "" {
				return fmt.Errorf("feed %q tracks an empty platform", feedID)
			}
			if owner, exists := trackedBy[platform]; exists {
				return fmt.Errorf("platform %q is tracked by both %q and %q", platform, owner, feedID)
			}
			trackedBy[platform] = feedID
		}
	}

	for _, feed := range c.Feeds {
		if feed.Interval < 0 {
			return fmt.Errorf("feed %q has a negative interval", feed.ID)
		}
		if _, err := feed.NewFilter(); err != nil {
			return fmt.Errorf("feed %q: %w", feed.ID, err)
		}
	}

	return nil
}

func (c *Config) FeedIDs() []string {
	feedIDs := make([]string, 0, len(c.Feeds))

	for _, feed := range c.Feeds {
		feedIDs = append(feedIDs, feed.ID)
	}

	return feedIDs
}

func (c *Config) TrackedPlatforms() []string {
	var platforms []string

	for _, feedPlatforms := range c.Tracking {
		platforms = append(platforms, feedPlatforms...)
	}
	slices.Sort(platforms)

	return platforms
}

func (f FeedConfig) Endpoint(huxleyURL string) string {
	if f.URL != "" {
		return f.URL
	}

	rows := f.Rows
	if rows == 0 {
		rows = defaultRows
	}

	return huxley.BoardURL(huxleyURL, f.Crs, rows)
}

func (f FeedConfig) PollInterval(fallback Duration) time.Duration {
	if f.Interval > 0 {
		return f.Interval.Duration()
	}

	return fallback.Duration()
}

func (f FeedConfig) NewFilter() (*huxley.Filter, error) {
	expression := f.Filter

	if f.Destination != "" {
		destinationExpression := huxley.DestinationFilterExpression(f.Destination)

		if expression == "" {
			expression = destinationExpression
		} else {
			expression = fmt.Sprintf("(%s) && (%s)", destinationExpression, expression)
		}
	}

	if expression == "" && f.Limit == 0 {
		return nil, nil
	}

	return huxley.NewFilter(expression, f.Limit)
}
