package source

import (
	"context"
	"fmt"
	"time"

	"github.com/melmove/parking-viewer/services/api/logging"
	"github.com/melmove/parking-viewer/services/api/metrics"
	"github.com/melmove/parking-viewer/services/api/parking"
)

// Fallback wraps an adapter and answers with MockRecords whenever the inner
// adapter fails or panics. Its Fetch never returns an error.
type Fallback struct {
	inner Adapter
}

// WithFallback wraps inner.
func WithFallback(inner Adapter) *Fallback {
	return &Fallback{inner: inner}
}

// Name returns the inner adapter's name.
func (f *Fallback) Name() string {
	return f.inner.Name()
}

// Fetch returns the inner adapter's records, or the mock dataset on failure.
func (f *Fallback) Fetch(ctx context.Context) (records []parking.Record, _ error) {
	name := f.inner.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			records = f.degrade(ctx, name, start, fmt.Errorf("panic: %v", r))
		}
	}()

	records, err := f.inner.Fetch(ctx)
	if err != nil {
		return f.degrade(ctx, name, start, err), nil
	}

	metrics.SourceFetchDuration.WithLabelValues(name, "ok").Observe(time.Since(start).Seconds())
	logging.Ctx(ctx).Debug().Str("source", name).Int("records", len(records)).Msg("source fetched")
	return records, nil
}

func (f *Fallback) degrade(ctx context.Context, name string, start time.Time, err error) []parking.Record {
	metrics.SourceFetchDuration.WithLabelValues(name, "error").Observe(time.Since(start).Seconds())
	metrics.SourceFallbacks.WithLabelValues(name).Inc()
	logging.Ctx(ctx).Warn().Str("source", name).Err(err).Msg("source failed, serving mock data")
	return MockRecords()
}
