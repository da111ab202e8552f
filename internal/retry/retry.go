// Package retry wraps a single remote call with bounded retries and a
// configurable delay schedule.
//
// The schedule is positional: attempt i waits Delays[i] before calling, so a
// schedule of [0s, 60s, 180s] means an immediate first attempt, a second
// attempt after one minute, and a third after a further three minutes. The
// effective number of attempts is capped at the schedule length.
package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"docpipe/internal/logger"
)

// DefaultDelays is the default delay schedule tuned for rate-limited
// vision APIs: immediate, one minute, three minutes.
var DefaultDelays = []time.Duration{0, 60 * time.Second, 180 * time.Second}

// Op is a single remote call producing extracted text.
type Op func(ctx context.Context) (string, error)

// Policy retries a remote call according to a delay schedule.
type Policy struct {
	Delays  []time.Duration
	Retries int

	log zerolog.Logger
}

// NewPolicy creates a Policy. Retries is capped at len(delays); values below
// one fall back to the full schedule.
func NewPolicy(retries int, delays []time.Duration) *Policy {
	if len(delays) == 0 {
		delays = DefaultDelays
	}
	if retries < 1 || retries > len(delays) {
		retries = len(delays)
	}
	return &Policy{
		Delays:  delays,
		Retries: retries,
		log:     logger.WithComponent("retry"),
	}
}

// Do invokes op up to Retries times, sleeping the scheduled delay before each
// attempt. It returns the first successful result, or the last error once the
// schedule is exhausted. Waits are context-aware: cancellation aborts the
// sleep and returns ctx.Err().
func (p *Policy) Do(ctx context.Context, op Op) (string, error) {
	var lastErr error

	for attempt := 0; attempt < p.Retries; attempt++ {
		delay := p.Delays[attempt]
		if delay > 0 {
			p.log.Info().
				Int("attempt", attempt+1).
				Int("retries", p.Retries).
				Dur("delay", delay).
				Msg("Waiting before retry attempt")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.Retries-1 {
			p.log.Error().
				Err(err).
				Int("retries", p.Retries).
				Msg("All retry attempts failed")
			break
		}
		p.log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Msg("Attempt failed, will retry")

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", lastErr
}
