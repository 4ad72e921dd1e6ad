package limiter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrBackoff reports a server-requested backoff that outlasts the caller's
// allowed wait.
var ErrBackoff = errors.New("upstream requested backoff")

// New creates a Limiter that spaces requests at least delay apart. If filename
// is non-empty, a backoff requested by the server is persisted there so that
// it survives restarts.
func New(filename string, delay time.Duration) *Limiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Limiter{
		filename: filename,
		rate:     rate.NewLimiter(limit, 1),
	}
}

type Limiter struct {
	mu       sync.Mutex
	filename string
	rate     *rate.Limiter
	nextAt   time.Time
}

// Load reads a persisted backoff, if there is one.
func (lim *Limiter) Load() error {
	if lim.filename == "" {
		return nil
	}
	bs, err := os.ReadFile(lim.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error reading limiter file '%s': %w", lim.filename, err)
	}

	nextAt, err := time.Parse(time.UnixDate, string(bs))
	if err != nil {
		return fmt.Errorf("error parsing limiter file '%s': %w", lim.filename, err)
	}

	lim.mu.Lock()
	defer lim.mu.Unlock()
	lim.nextAt = nextAt
	return nil
}

// Wait blocks until a request may be made: first until any server-requested
// backoff has passed, then until the politeness delay allows it.
func (lim *Limiter) Wait(ctx context.Context) error {
	lim.mu.Lock()
	nextAt := lim.nextAt
	lim.mu.Unlock()

	if !nextAt.IsZero() {
		if dur := time.Until(nextAt); dur > 0 {
			if dur > time.Second {
				log.Info().
					Dur("wait", dur.Truncate(time.Second)).
					Str("until", nextAt.Format(time.StampMilli)).
					Msg("waiting for upstream backoff")
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(dur):
			}
		}

		lim.mu.Lock()
		lim.nextAt = time.Time{}
		lim.mu.Unlock()
		if lim.filename != "" {
			if err := os.Remove(lim.filename); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
	}

	return lim.rate.Wait(ctx)
}

// WaitAtMost is Wait bounded by max. A backoff ending later than max from now
// fails at once with ErrBackoff and is kept for later callers; otherwise the
// wait is canceled after max. A max of zero or less means no bound.
func (lim *Limiter) WaitAtMost(ctx context.Context, max time.Duration) error {
	if max <= 0 {
		return lim.Wait(ctx)
	}
	if nextAt := lim.NextAt(); time.Until(nextAt) > max {
		return fmt.Errorf("%w until %s", ErrBackoff, nextAt.Format(time.RFC3339))
	}

	ctx, cancel := context.WithTimeout(ctx, max)
	defer cancel()
	return lim.Wait(ctx)
}

// SetNextAt records a server-requested backoff of secondsStr seconds, as found
// in a Retry-After header. An empty value means one minute.
func (lim *Limiter) SetNextAt(secondsStr string) error {
	if secondsStr == "" {
		secondsStr = "60"
	}
	seconds, err := strconv.ParseInt(secondsStr, 10, 64)
	if err != nil {
		return fmt.Errorf("error parsing retry-after '%s': %w", secondsStr, err)
	}
	nextAt := time.Now().Add(time.Duration(seconds)*time.Second + time.Second)

	lim.mu.Lock()
	lim.nextAt = nextAt
	lim.mu.Unlock()

	if lim.filename == "" {
		return nil
	}
	if err := os.WriteFile(lim.filename, []byte(nextAt.Format(time.UnixDate)), 0666); err != nil {
		return fmt.Errorf("error writing limiter file '%s': %w", lim.filename, err)
	}
	return nil
}

// NextAt returns the time before which no request will be made, or the zero
// time if there is no backoff in effect.
func (lim *Limiter) NextAt() time.Time {
	lim.mu.Lock()
	defer lim.mu.Unlock()
	return lim.nextAt
}
