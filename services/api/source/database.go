package source

import (
	"context"
	"fmt"
	"time"

	"github.com/melmove/parking-viewer/services/api/db"
	"github.com/melmove/parking-viewer/services/api/parking"
)

// SnapshotLoader is implemented by *db.Client.
type SnapshotLoader interface {
	Load(ctx context.Context) (db.Snapshot, error)
}

// Database reads bays and sensor status from Postgres and joins them in
// process.
type Database struct {
	loader  SnapshotLoader
	timeout time.Duration
}

// NewDatabase returns an adapter over loader. A zero timeout means no bound
// beyond the caller's context.
func NewDatabase(loader SnapshotLoader, timeout time.Duration) *Database {
	return &Database{loader: loader, timeout: timeout}
}

// Name returns the selector this adapter serves.
func (d *Database) Name() string {
	return string(KindCloud)
}

// Fetch loads a snapshot over a fresh connection and merges it.
func (d *Database) Fetch(ctx context.Context) ([]parking.Record, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	snap, err := d.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load parking tables: %w", err)
	}

	bays := make([]parking.RawBay, 0, len(snap.Bays))
	for _, row := range snap.Bays {
		bays = append(bays, parking.BayFromRow(row))
	}
	readings := make([]parking.RawSensorReading, 0, len(snap.Sensors))
	for _, row := range snap.Sensors {
		readings = append(readings, parking.ReadingFromRow(row))
	}

	return parking.Merge(bays, readings), nil
}
