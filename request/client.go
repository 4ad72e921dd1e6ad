package request

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/amonks/artists/limiter"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Client is a small JSON-over-HTTP client for public endpoints. It identifies
// itself with a User-Agent and paces its requests with a Limiter.
type Client struct {
	http      *http.Client
	lim       *limiter.Limiter
	userAgent string
}

// NewClient creates a Client whose requests time out after timeout. A nil
// limiter means requests are not paced.
func NewClient(userAgent string, timeout time.Duration, lim *limiter.Limiter) *Client {
	if lim == nil {
		lim = limiter.New("", 0)
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		lim:       lim,
		userAgent: userAgent,
	}
}

// GetJSON does a paced HTTP GET on baseURL with the given query and decodes
// the JSON response into v. A 429 or 503 response records the server's
// Retry-After with the limiter and fails; it is never retried here.
//
// The client's timeout bounds the whole call, the limiter wait included. A
// backoff longer than the timeout fails at once with limiter.ErrBackoff.
func (c *Client) GetJSON(ctx context.Context, baseURL string, query url.Values, v any) error {
	if c.http.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.http.Timeout)
		defer cancel()
	}

	if err := c.lim.WaitAtMost(ctx, c.http.Timeout); err != nil {
		return fmt.Errorf("not fetching '%s': %w", baseURL, err)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("error parsing url '%s': %w", baseURL, err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching '%s': %w", baseURL, err)
	}
	defer resp.Body.Close()

	if retryAfter, ok := RetryAfter(resp); ok {
		if err := c.lim.SetNextAt(retryAfter); err != nil {
			log.Warn().Err(err).Str("url", baseURL).Msg("ignoring unusable retry-after")
		}
	}
	if err := Error(resp); err != nil {
		return fmt.Errorf("unexpected status from '%s': %w", baseURL, err)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("error decoding json from '%s': %w", baseURL, err)
	}
	return nil
}
