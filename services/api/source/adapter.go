// Package source produces merged parking records from one of several
// backends. Every backend is reached through the Adapter interface; the
// Registry maps a request's source selector to an adapter wrapped in
// Fallback, so callers always receive data.
package source

import (
	"context"
	"strings"

	"github.com/melmove/parking-viewer/services/api/parking"
)

// Kind identifies a source backend.
type Kind string

const (
	KindLocal Kind = "local"
	KindCloud Kind = "cloud"
	KindFeed  Kind = "feed"
)

// ParseKind maps a selector to a Kind. ok is false for unrecognized values.
func ParseKind(s string) (kind Kind, ok bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLocal, KindCloud, KindFeed:
		return k, true
	default:
		return KindLocal, false
	}
}

// Adapter fetches bay and sensor data and returns merged records, one per
// bay, in catalogue order.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]parking.Record, error)
}
