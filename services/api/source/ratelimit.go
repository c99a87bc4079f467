package source

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/melmove/parking-viewer/services/api/parking"
)

// RateLimited wraps an adapter so that its upstream is called at most rps
// times per second, with bursts up to burst.
type RateLimited struct {
	inner   Adapter
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a token bucket limiter.
func NewRateLimited(inner Adapter, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Name returns the inner adapter's name.
func (r *RateLimited) Name() string {
	return r.inner.Name()
}

// Fetch waits for the limiter, then forwards to the inner adapter.
func (r *RateLimited) Fetch(ctx context.Context) ([]parking.Record, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.inner.Fetch(ctx)
}

var (
	_ Adapter = (*LocalFile)(nil)
	_ Adapter = (*Database)(nil)
	_ Adapter = (*Feed)(nil)
	_ Adapter = (*Fallback)(nil)
	_ Adapter = (*RateLimited)(nil)
)
