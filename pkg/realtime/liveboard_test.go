package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/liveboard/pkg/config"
	"github.com/travigo/liveboard/pkg/countdown"
	"github.com/travigo/liveboard/pkg/huxley"
)

type stubFetcher struct {
	mutex     sync.Mutex
	responses map[string]string
	requested []string
}

func (f *stubFetcher) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.requested = append(f.requested, endpoint)

	for crs, body := range f.responses {
		if strings.Contains(endpoint, "/"+crs+"/") {
			return []byte(body), nil
		}
	}

	return nil, errors.New("connection refused")
}

const westHorndonBoard = `{
	"locationName": "West Horndon",
	"crs": "WHR",
	"trainServices": [
		{"std": "08:10", "etd": "Cancelled", "platform": "1", "isCancelled": true, "destination": [{"locationName": "London Fenchurch Street"}]},
		{"std": "08:15", "etd": "08:19", "platform": "1", "destination": [{"locationName": "London Fenchurch Street", "via": "via Upminster"}]},
		{"std": "08:21", "etd": "On time", "platform": "2", "destination": [{"locationName": "Shoeburyness"}]}
	]
}`

const fenchurchStreetBoard = `{
	"trainServices": [
		{"std": "08:00", "etd": "On time", "platform": "3", "destination": [{"locationName": "Grays"}]},
		{"std": "08:05", "etd": "On time", "platform": "4", "destination": [{"locationName": "Shoeburyness", "via": "via West Horndon"}]},
		{"std": "08:12", "etd": "08:14", "platform": "2", "destination": [{"locationName": "West Horndon"}]}
	]
}`

func TestLiveBoardPollOnce(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]string{
		"WHR": westHorndonBoard,
		"FST": fenchurchStreetBoard,
	}}

	liveBoard, err := New(config.Default(), fetcher)
	require.NoError(t, err)

	liveBoard.PollOnce(context.Background())
	assert.Len(t, fetcher.requested, 3)

	departures, exists := liveBoard.Board.GetFeedSnapshot("departures")
	require.True(t, exists)
	assert.True(t, departures.Valid)
	assert.Len(t, departures.Services, 3)

	platformOne := liveBoard.Board.GetTrackedDeparture("1")
	require.NotNil(t, platformOne)
	assert.Equal(t, "London Fenchurch Street", platformOne.DestinationName)
	assert.Equal(t, "08:19", platformOne.TargetTime.String())

	platformTwo := liveBoard.Board.GetTrackedDeparture("2")
	require.NotNil(t, platformTwo)
	assert.Equal(t, "Shoeburyness", platformTwo.DestinationName)

	fenchurchStreet, exists := liveBoard.Board.GetFeedSnapshot("fenchurch-street")
	require.True(t, exists)
	assert.True(t, fenchurchStreet.Valid)
	require.Len(t, fenchurchStreet.Services, 1)
	assert.Equal(t, "West Horndon", fenchurchStreet.Services[0].DestinationName)

	southend, exists := liveBoard.Board.GetFeedSnapshot("southend")
	require.True(t, exists)
	assert.False(t, southend.Valid)
	assert.Empty(t, southend.Services)

	displays := liveBoard.Countdown.Displays()
	require.Len(t, displays, 2)
	assert.Equal(t, "1", displays[0].Platform)
	assert.NotEqual(t, countdown.DisplayStateWaiting, displays[0].State)
}

func TestLiveBoardFeedNames(t *testing.T) {
	liveBoard, err := New(config.Default(), &stubFetcher{})
	require.NoError(t, err)

	names := liveBoard.FeedNames()
	for _, feed := range liveBoard.Config.Feeds {
		if feed.Name != "" {
			assert.Equal(t, feed.Name, names[feed.ID])
		}
	}
}

func TestPollTimeoutCoversRetries(t *testing.T) {
	cfg := config.Default()
	client := huxley.NewClient(cfg.RequestTimeout.Duration(), cfg.MaxRetries)

	liveBoard, err := New(cfg, client)
	require.NoError(t, err)

	for _, poller := range liveBoard.Manager.Pollers {
		assert.Equal(t, client.Budget(), poller.Feed.Timeout)
		assert.Greater(t, poller.Feed.Timeout, time.Duration(cfg.MaxRetries+1)*cfg.RequestTimeout.Duration())
	}

	assert.Equal(t, cfg.RequestTimeout.Duration(), PollTimeout(cfg, &stubFetcher{}))
}

// The first attempt runs into the request timeout, the retry must still fit inside the poll
func TestPollSurvivesTimedOutFirstAttempt(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			time.Sleep(300 * time.Millisecond)
		}
		w.Write([]byte(westHorndonBoard))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.HuxleyURL = server.URL
	cfg.RequestTimeout = config.Duration(100 * time.Millisecond)
	cfg.MaxRetries = 1

	client := huxley.NewClient(cfg.RequestTimeout.Duration(), cfg.MaxRetries)
	client.InitialInterval = time.Millisecond

	liveBoard, err := New(cfg, client)
	require.NoError(t, err)

	for _, poller := range liveBoard.Manager.Pollers {
		if poller.Feed.ID == "departures" {
			poller.Poll(context.Background())
		}
	}

	departures, exists := liveBoard.Board.GetFeedSnapshot("departures")
	require.True(t, exists)
	assert.True(t, departures.Valid)
	assert.Len(t, departures.Services, 3)
	assert.Equal(t, int32(2), requests.Load())
}
