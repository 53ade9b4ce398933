package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadWithEnvironment("", map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, []string{"departures", "fenchurch-street", "southend"}, cfg.FeedIDs())
	assert.Equal(t, []string{"1", "2"}, cfg.TrackedPlatforms())
	assert.Equal(t, 30*time.Second, cfg.PollInterval.Duration())
	assert.Equal(t, time.Second, cfg.TickInterval.Duration())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout.Duration())
	assert.Equal(t, "https://huxley2.azurewebsites.net/departures/WHR/10?expand=true", cfg.Feeds[0].Endpoint(cfg.HuxleyURL))

	filter, err := cfg.Feeds[0].NewFilter()
	require.NoError(t, err)
	assert.Nil(t, filter)

	filter, err = cfg.Feeds[1].NewFilter()
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, 5, filter.Limit)
	assert.Equal(t, `any(destinations, {# contains "West Horndon"})`, filter.Expression)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
huxley_url: http://localhost:8081
poll_interval: PT1M
tick_interval: 500ms
primary_feed: upminster
feeds:
  - id: upminster
    crs: UPM
    rows: 20
  - id: grays
    url: http://localhost:8081/custom
    filter: platform == "3"
    interval: PT2M
tracking:
  upminster: ["5", "6"]
`)

	cfg, err := LoadWithEnvironment(path, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.PollInterval.Duration())
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval.Duration())
	assert.Equal(t, []string{"upminster", "grays"}, cfg.FeedIDs())
	assert.Equal(t, map[string][]string{"upminster": {"5", "6"}}, cfg.Tracking)
	assert.Equal(t, "http://localhost:8081/departures/UPM/20?expand=true", cfg.Feeds[0].Endpoint(cfg.HuxleyURL))
	assert.Equal(t, "http://localhost:8081/custom", cfg.Feeds[1].Endpoint(cfg.HuxleyURL))
	assert.Equal(t, time.Minute, cfg.Feeds[0].PollInterval(cfg.PollInterval))
	assert.Equal(t, 2*time.Minute, cfg.Feeds[1].PollInterval(cfg.PollInterval))
}

func TestEnvironmentOverrides(t *testing.T) {
	cfg, err := LoadWithEnvironment("", map[string]string{
		"LIVEBOARD_HUXLEY_URL":      "http://huxley.internal",
		"LIVEBOARD_LISTEN":          ":9090",
		"LIVEBOARD_POLL_INTERVAL":   "PT15S",
		"LIVEBOARD_REQUEST_TIMEOUT": "3s",
		"LIVEBOARD_MAX_RETRIES":     "4",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://huxley.internal", cfg.HuxleyURL)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 15*time.Second, cfg.PollInterval.Duration())
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout.Duration())
	assert.Equal(t, uint64(4), cfg.MaxRetries)
}

func TestEnvironmentConfigPath(t *testing.T) {
	path := writeConfig(t, "listen: \":7070\"\n")

	cfg, err := LoadWithEnvironment("", map[string]string{"LIVEBOARD_CONFIG": path})
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Listen)
	assert.Len(t, cfg.Feeds, 3)
}

func TestInvalidConfigs(t *testing.T) {
	tests := map[string]string{
		"duplicate feed ids": `
feeds:
  - {id: departures, crs: WHR}
  - {id: departures, crs: FST}
`,
		"feed without source": `
feeds:
  - {id: departures}
`,
		"unknown primary feed": `
primary_feed: nowhere
`,
		"tracking unknown feed": `
tracking:
  nowhere: ["1"]
`,
		"platform tracked twice": `
tracking:
  departures: ["1"]
  southend: ["1"]
`,
		"bad filter": `
feeds:
  - {id: departures, crs: WHR, filter: "destinations +"}
`,
		"bad duration": `
poll_interval: soon
`,
		"zero tick": `
tick_interval: 0s
`,
		"bad url": `
huxley_url: not a url
`,
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWithEnvironment(writeConfig(t, contents), map[string]string{})
			assert.Error(t, err)
		})
	}
}

func TestInvalidEnvironment(t *testing.T) {
	_, err := LoadWithEnvironment("", map[string]string{"LIVEBOARD_POLL_INTERVAL": "PTX"})
	assert.Error(t, err)

	_, err = LoadWithEnvironment("", map[string]string{"LIVEBOARD_MAX_RETRIES": "-1"})
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := LoadWithEnvironment(filepath.Join(t.TempDir(), "missing.yml"), map[string]string{})
	assert.Error(t, err)
}
