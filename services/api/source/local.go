package source

import (
	"context"
	"fmt"

	"github.com/melmove/parking-viewer/services/api/parking"
)

// LocalFile reads the bay catalogue and the sensor feed from disk.
type LocalFile struct {
	baysPath    string
	sensorsPath string
}

// NewLocalFile returns an adapter over the two files.
func NewLocalFile(baysPath, sensorsPath string) *LocalFile {
	return &LocalFile{baysPath: baysPath, sensorsPath: sensorsPath}
}

// Name returns the selector this adapter serves.
func (l *LocalFile) Name() string {
	return string(KindLocal)
}

// Fetch reads both files and merges them.
func (l *LocalFile) Fetch(ctx context.Context) ([]parking.Record, error) {
	bays, err := l.Bays(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := readRowsFile(l.sensorsPath)
	if err != nil {
		return nil, fmt.Errorf("read sensor feed: %w", err)
	}
	readings := make([]parking.RawSensorReading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, parking.ReadingFromRow(row))
	}

	return parking.Merge(bays, readings), nil
}

// Bays reads the bay catalogue only.
func (l *LocalFile) Bays(ctx context.Context) ([]parking.RawBay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := readRowsFile(l.baysPath)
	if err != nil {
		return nil, fmt.Errorf("read bay catalogue: %w", err)
	}
	bays := make([]parking.RawBay, 0, len(rows))
	for _, row := range rows {
		bays = append(bays, parking.BayFromRow(row))
	}
	return bays, nil
}
