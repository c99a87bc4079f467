package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// decodeRows accepts a JSON array of objects or newline-delimited objects.
func decodeRows(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []map[string]any{}, nil
	}

	if trimmed[0] == '[' {
		var rows []map[string]any
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("decode json array: %w", err)
		}
		return rows, nil
	}

	rows := make([]map[string]any, 0)
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	for line := 1; ; line++ {
		var row map[string]any
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode json record %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeCSV reads a header row followed by records. Empty cells are omitted
// so they count as missing.
func decodeCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	rows := make([]map[string]any, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make(map[string]any, len(header))
		for i, value := range record {
			if i >= len(header) || strings.TrimSpace(value) == "" {
				continue
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readRowsFile loads a .csv file or a JSON / NDJSON file.
func readRowsFile(path string) ([]map[string]any, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		rows, err := decodeCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return rows, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
