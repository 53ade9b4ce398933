package huxley

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://huxley2.azurewebsites.net"

var ErrUnexpectedStatus = errors.New("unexpected response status")

type Client struct {
	HTTPClient *http.Client

	// MaxRetries is the number of extra attempts made after a failed request, 0 disables retrying
	MaxRetries      uint64
	InitialInterval time.Duration
}

func NewClient(timeout time.Duration, maxRetries uint64) *Client {
	return &Client{
		HTTPClient:      &http.Client{Timeout: timeout},
		MaxRetries:      maxRetries,
		InitialInterval: 500 * time.Millisecond,
	}
}

// Budget is the longest a Fetch can take when every attempt runs into the request timeout,
// including the backoff waits between attempts. 0 means there is no request timeout.
func (c *Client) Budget() time.Duration {
	if c.HTTPClient == nil || c.HTTPClient.Timeout <= 0 {
		return 0
	}

	budget := time.Duration(c.MaxRetries+1) * c.HTTPClient.Timeout

	wait := float64(c.InitialInterval)
	for i := uint64(0); i < c.MaxRetries; i++ {
		budget += time.Duration(math.Min(wait*(1+backoff.DefaultRandomizationFactor), float64(backoff.DefaultMaxInterval)))
		wait *= backoff.DefaultMultiplier
	}

	return budget
}

// BoardURL builds the expanded departure board endpoint for a station
func BoardURL(baseURL string, crs string, rows int) string {
	return fmt.Sprintf("%s/departures/%s/%d?expand=true", baseURL, crs, rows)
}

func (c *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = c.InitialInterval
	retryBackoff.MaxElapsedTime = 0

	return backoff.RetryNotifyWithData(
		func() ([]byte, error) {
			return c.fetchOnce(ctx, endpoint)
		},
		backoff.WithContext(backoff.WithMaxRetries(retryBackoff, c.MaxRetries), ctx),
		func(err error, wait time.Duration) {
			log.Debug().Err(err).Str("endpoint", endpoint).Dur("wait", wait).Msg("Retrying feed request")
		},
	)
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header["user-agent"] = []string{"curl/7.54.1"}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)

		// Client errors will not fix themselves on a retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(statusErr)
		}
		return nil, statusErr
	}

	return body, nil
}
