package parking

import (
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// RadiusQuery restricts records to a circle around a point. A field is nil
// when the caller did not supply it or supplied something non-numeric.
type RadiusQuery struct {
	Lat      *float64
	Lng      *float64
	RadiusKm *float64
}

// Active reports whether all three parameters were supplied. Zero is a valid
// value for each of them.
func (q RadiusQuery) Active() bool {
	return q.Lat != nil && q.Lng != nil && q.RadiusKm != nil && *q.RadiusKm >= 0
}

// ParseRadiusQuery builds a RadiusQuery from raw query parameters. Blank or
// unparseable values leave the matching field nil, which disables the filter.
func ParseRadiusQuery(lat, lng, radiusKm string) RadiusQuery {
	return RadiusQuery{
		Lat:      parseFinite(lat),
		Lng:      parseFinite(lng),
		RadiusKm: parseFinite(radiusKm),
	}
}

func parseFinite(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Filter is the set of request-level filters.
type Filter struct {
	Keyword string
	Radius  RadiusQuery
}

// Apply runs the keyword filter and then the radius filter.
func Apply(records []Record, f Filter) []Record {
	return FilterByRadius(FilterByKeyword(records, f.Keyword), f.Radius)
}

// FilterByKeyword keeps records whose name contains keyword, ignoring case.
// An empty keyword returns records unchanged. Whitespace is matched as given.
func FilterByKeyword(records []Record, keyword string) []Record {
	if keyword == "" {
		return records
	}
	keyword = strings.ToLower(keyword)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(rec.Name), keyword) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByRadius keeps records within q.RadiusKm of the query point. Records
// without coordinates are dropped. An inactive query returns records unchanged.
func FilterByRadius(records []Record, q RadiusQuery) []Record {
	if !q.Active() {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Lat == nil || rec.Lng == nil {
			continue
		}
		if DistanceKm(*q.Lat, *q.Lng, *rec.Lat, *rec.Lng) <= *q.RadiusKm {
			out = append(out, rec)
		}
	}
	return out
}

// DistanceKm returns the great-circle distance between two points using the
// haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	// rounding can push a outside [0, 1] near antipodes
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Summary counts records by availability.
type Summary struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Unknown   int `json:"unknown"`
}

// Summarize tallies the status of each record.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		switch {
		case rec.Status == nil:
			s.Unknown++
		case *rec.Status:
			s.Available++
		default:
			s.Occupied++
		}
	}
	return s
}
