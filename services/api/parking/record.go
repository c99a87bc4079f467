package parking

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// UnknownStreet is the name given to bays without a road segment description.
	UnknownStreet = "Unknown Street"

	// FallbackLat and FallbackLng locate the Melbourne CBD.
	FallbackLat = -37.8136
	FallbackLng = 144.9631

	unoccupied = "Unoccupied"
)

// DefaultRates is the tariff reported for every bay.
var DefaultRates = Rates{Hourly: 8, Daily: 35}

// Rates holds the parking tariff of a bay.
type Rates struct {
	Hourly float64 `json:"hourly"`
	Daily  float64 `json:"daily"`
}

// Record is a bay merged with its sensor status.
// Status is nil when no sensor reading matched the bay.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Rates       Rates    `json:"rates"`
	Status      *bool    `json:"status"`
	LastUpdated *string  `json:"last_updated"`
}

// RawBay is one row of the bay catalogue.
type RawBay struct {
	ID   string
	Name *string
	Lat  *float64
	Lng  *float64
}

// RawSensorReading is one row of the sensor feed.
type RawSensorReading struct {
	ID        string
	Status    string
	Timestamp *string
	Lat       *float64
	Lng       *float64
}

// Available reports whether the reading describes a free bay.
func (r RawSensorReading) Available() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), unoccupied)
}

var (
	idKeys        = []string{"kerbsideid", "kerbside_id", "id", "bay_id"}
	nameKeys      = []string{"roadsegmentdescription", "name", "street", "description"}
	latKeys       = []string{"latitude", "lat"}
	lngKeys       = []string{"longitude", "lng", "lon"}
	statusKeys    = []string{"status_description", "status"}
	timestampKeys = []string{"status_timestamp", "lastupdated", "timestamp", "last_updated"}
)

// BayFromRow decodes a catalogue row. Coordinates may be flat columns or a
// nested "location" object.
func BayFromRow(row map[string]any) RawBay {
	bay := RawBay{
		ID:  NormalizeID(first(row, idKeys)),
		Lat: toFloat(first(row, latKeys)),
		Lng: toFloat(first(row, lngKeys)),
	}
	if name := toString(first(row, nameKeys)); name != "" {
		bay.Name = &name
	}
	if bay.Lat == nil || bay.Lng == nil {
		lat, lng := nestedLocation(row)
		if bay.Lat == nil {
			bay.Lat = lat
		}
		if bay.Lng == nil {
			bay.Lng = lng
		}
	}
	return bay
}

// ReadingFromRow decodes a sensor feed row.
func ReadingFromRow(row map[string]any) RawSensorReading {
	reading := RawSensorReading{
		ID:     NormalizeID(first(row, idKeys)),
		Status: toString(first(row, statusKeys)),
		Lat:    toFloat(first(row, latKeys)),
		Lng:    toFloat(first(row, lngKeys)),
	}
	if ts := toTimestamp(first(row, timestampKeys)); ts != "" {
		reading.Timestamp = &ts
	}
	if reading.Lat == nil || reading.Lng == nil {
		lat, lng := nestedLocation(row)
		if reading.Lat == nil {
			reading.Lat = lat
		}
		if reading.Lng == nil {
			reading.Lng = lng
		}
	}
	return reading
}

// NormalizeID coerces an identifier to its canonical string form so that
// 123, 123.0 and "123" all join.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(id)
		if whole, frac, ok := strings.Cut(s, "."); ok && isInteger(whole) && strings.Trim(frac, "0") == "" {
			return whole
		}
		return s
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(id), 'f', -1, 32)
	case int:
		return strconv.Itoa(id)
	case int8:
		return strconv.FormatInt(int64(id), 10)
	case int16:
		return strconv.FormatInt(int64(id), 10)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint:
		return strconv.FormatUint(uint64(id), 10)
	case uint8:
		return strconv.FormatUint(uint64(id), 10)
	case uint16:
		return strconv.FormatUint(uint64(id), 10)
	case uint32:
		return strconv.FormatUint(uint64(id), 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case pgtype.Numeric:
		return numericID(id)
	case fmt.Stringer:
		return NormalizeID(id.String())
	default:
		return strings.TrimSpace(fmt.Sprint(id))
	}
}

// numericID renders a Postgres numeric column. Integral values keep every
// digit; fractional ones go through float64.
func numericID(n pgtype.Numeric) string {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return ""
	}
	if i, err := n.Int64Value(); err == nil && i.Valid {
		return strconv.FormatInt(i.Int64, 10)
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func first(row map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func nestedLocation(row map[string]any) (*float64, *float64) {
	loc, ok := row["location"].(map[string]any)
	if !ok {
		return nil, nil
	}
	return toFloat(first(loc, latKeys)), toFloat(first(loc, lngKeys))
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

func toTimestamp(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return toString(v)
}

// toFloat returns nil for missing, non-numeric and non-finite values.
func toFloat(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	case pgtype.Numeric:
		fv, err := n.Float64Value()
		if err != nil || !fv.Valid {
			return nil
		}
		f = fv.Float64
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
