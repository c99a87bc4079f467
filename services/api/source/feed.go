package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/melmove/parking-viewer/services/api/parking"
)

// DefaultFeedURL is the City of Melbourne on-street sensor export.
const DefaultFeedURL = "https://data.melbourne.vic.gov.au/api/explore/v2.1/catalog/datasets/on-street-parking-bay-sensors/exports/json"

const maxFeedBody = 64 << 20

// BayCatalogue supplies bay names and locations for the feed, which only
// carries status.
type BayCatalogue interface {
	Bays(ctx context.Context) ([]parking.RawBay, error)
}

// FeedConfig tunes outbound feed requests.
type FeedConfig struct {
	URL        string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// Feed fetches sensor status from a remote JSON endpoint and joins it onto
// the local bay catalogue.
type Feed struct {
	cfg       FeedConfig
	client    *http.Client
	catalogue BayCatalogue
}

// NewFeed returns a feed adapter. Zero config values fall back to the
// default URL, a 10s timeout and a 500ms retry delay.
func NewFeed(cfg FeedConfig, catalogue BayCatalogue) *Feed {
	if cfg.URL == "" {
		cfg.URL = DefaultFeedURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	return &Feed{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		catalogue: catalogue,
	}
}

// Name returns the selector this adapter serves.
func (f *Feed) Name() string {
	return string(KindFeed)
}

// Fetch downloads the feed and merges it onto the bay catalogue.
func (f *Feed) Fetch(ctx context.Context) ([]parking.Record, error) {
	bays, err := f.catalogue.Bays(ctx)
	if err != nil {
		return nil, err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.cfg.RetryDelay), uint64(f.cfg.Retries)),
		ctx,
	)
	rows, err := backoff.RetryWithData(func() ([]map[string]any, error) {
		return f.fetchRows(ctx)
	}, policy)
	if err != nil {
		return nil, err
	}

	readings := make([]parking.RawSensorReading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, parking.ReadingFromRow(row))
	}
	return parking.Merge(bays, readings), nil
}

// fetchRows performs one attempt. Client errors and undecodable bodies are
// permanent; transport errors and 5xx responses may be retried.
func (f *Feed) fetchRows(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build feed request: %w", err))
	}
	req.Header.Set("Accept", "application/json, application/x-ndjson")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("unexpected feed status %s", resp.Status)
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBody))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	rows, err := decodeRows(body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode feed: %w", err))
	}
	return rows, nil
}
