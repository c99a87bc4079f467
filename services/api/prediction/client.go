// Package prediction forwards read-only queries to the occupancy prediction
// service. Responses are passed back untouched; the API never interprets
// them.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/melmove/parking-viewer/services/api/logging"
	"github.com/melmove/parking-viewer/services/api/metrics"
)

// ErrUpstream wraps every failure to obtain a usable answer from the
// prediction service: transport errors, 5xx responses and calls rejected by
// the open circuit.
var ErrUpstream = errors.New("prediction service unavailable")

// Endpoint is a path on the prediction service.
type Endpoint string

const (
	EndpointPredict Endpoint = "predict"
	EndpointPlot    Endpoint = "predict_plot"
)

const (
	breakerName = "prediction"
	maxBody     = 32 << 20
)

// Response is an upstream answer copied verbatim.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

type options struct {
	httpClient  *http.Client
	tripAfter   uint32
	openTimeout time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTripAfter sets how many consecutive failures open the circuit.
func WithTripAfter(n uint32) Option {
	return func(o *options) {
		o.tripAfter = n
	}
}

// WithOpenTimeout sets how long the circuit stays open before a probe.
func WithOpenTimeout(d time.Duration) Option {
	return func(o *options) {
		o.openTimeout = d
	}
}

// Client calls the prediction service behind a circuit breaker.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*Response]
}

// New returns a client for baseURL. timeout bounds each upstream call.
func New(baseURL string, timeout time.Duration, args ...Option) *Client {
	opts := options{
		httpClient:  &http.Client{Timeout: timeout},
		tripAfter:   5,
		openTimeout: 30 * time.Second,
	}
	for _, opt := range args {
		opt(&opts)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    opts.httpClient,
		cb:      cb,
	}
}

// Forward issues GET {baseURL}/{endpoint}?{rawQuery}. Upstream 4xx answers
// are returned as a Response with a nil error so the caller can relay them.
func (c *Client) Forward(ctx context.Context, endpoint Endpoint, rawQuery string) (*Response, error) {
	resp, err := c.cb.Execute(func() (*Response, error) {
		return c.do(ctx, endpoint, rawQuery)
	})
	if err != nil {
		outcome := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
		metrics.PredictionRequests.WithLabelValues(string(endpoint), outcome).Inc()
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	metrics.PredictionRequests.WithLabelValues(string(endpoint), "success").Inc()
	return resp, nil
}

func (c *Client) do(ctx context.Context, endpoint Endpoint, rawQuery string) (*Response, error) {
	target := c.baseURL + "/" + string(endpoint)
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("unexpected status %s from %s", res.Status, endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", endpoint, err)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Response{Status: res.StatusCode, ContentType: contentType, Body: body}, nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
