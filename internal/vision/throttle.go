package vision

import (
	"context"

	"golang.org/x/time/rate"
)

// throttled decorates an Engine with a requests-per-minute cap. It protects
// rate-limited backends (Gemini defaults to 60 RPM) from burst traffic when
// many pages are in flight.
type throttled struct {
	inner   Engine
	limiter *rate.Limiter
}

// Throttled wraps engine with a requests-per-minute limiter. A non-positive
// rpm returns the engine unchanged.
func Throttled(engine Engine, rpm int) Engine {
	if rpm <= 0 {
		return engine
	}
	return &throttled{
		inner:   engine,
		limiter: rate.NewLimiter(rate.Limit(rpm)/60, 1),
	}
}

func (t *throttled) Generate(ctx context.Context, page Page) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.inner.Generate(ctx, page)
}

func (t *throttled) Close() error {
	return t.inner.Close()
}
