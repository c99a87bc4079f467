package parking_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melmove/parking-viewer/services/api/parking"
)

func ptr[T any](v T) *T { return &v }

func TestMergeJoinsAcrossIdentifierTypes(t *testing.T) {
	t.Parallel()

	bays := []parking.RawBay{
		parking.BayFromRow(map[string]any{"id": "7", "roadsegmentdescription": "Flinders Lane", "latitude": -37.81, "longitude": 144.96}),
		parking.BayFromRow(map[string]any{"kerbsideid": float64(123), "roadsegmentdescription": "King Street"}),
	}
	readings := []parking.RawSensorReading{
		parking.ReadingFromRow(map[string]any{"kerbsideid": float64(7), "status_description": "Unoccupied"}),
		parking.ReadingFromRow(map[string]any{"kerbsideid": "123", "status_description": "Present", "status_timestamp": "2025-08-01T10:00:00+00:00"}),
	}

	got := parking.Merge(bays, readings)
	require.Len(t, got, 2)

	assert.Equal(t, "7", got[0].ID)
	assert.Equal(t, "Flinders Lane", got[0].Name)
	require.NotNil(t, got[0].Status)
	assert.True(t, *got[0].Status)
	assert.Nil(t, got[0].LastUpdated)
	assert.InDelta(t, -37.81, *got[0].Lat, 1e-9)
	assert.InDelta(t, 144.96, *got[0].Lng, 1e-9)

	assert.Equal(t, "123", got[1].ID)
	require.NotNil(t, got[1].Status)
	assert.False(t, *got[1].Status)
	require.NotNil(t, got[1].LastUpdated)
	assert.Equal(t, "2025-08-01T10:00:00+00:00", *got[1].LastUpdated)
}

func TestMergeJoinsNumericColumns(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		bayID any
	}{
		"numeric bay, int4 reading":        {bayID: pgtype.Numeric{Int: big.NewInt(5701), Valid: true}},
		"scaled numeric bay, int4 reading": {bayID: pgtype.Numeric{Int: big.NewInt(57010), Exp: -1, Valid: true}},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bays := []parking.RawBay{parking.BayFromRow(map[string]any{"kerbsideid": tc.bayID, "roadsegmentdescription": "Flinders Lane"})}
			readings := []parking.RawSensorReading{parking.ReadingFromRow(map[string]any{"kerbsideid": int32(5701), "status_description": "Unoccupied"})}

			got := parking.Merge(bays, readings)
			require.Len(t, got, 1)
			assert.Equal(t, "5701", got[0].ID)
			require.NotNil(t, got[0].Status, "numeric kerbsideid should join an int4 kerbsideid")
			assert.True(t, *got[0].Status)
		})
	}
}

func TestMergeLeftJoinCompleteness(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		bays     []parking.RawBay
		readings []parking.RawSensorReading
	}{
		"no readings": {
			bays: []parking.RawBay{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		},
		"more readings than bays": {
			bays:     []parking.RawBay{{ID: "1"}},
			readings: []parking.RawSensorReading{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		},
		"duplicate bay ids": {
			bays:     []parking.RawBay{{ID: "1"}, {ID: "1"}},
			readings: []parking.RawSensorReading{{ID: "1", Status: "Unoccupied"}},
		},
		"bays without ids": {
			bays:     []parking.RawBay{{}, {}},
			readings: []parking.RawSensorReading{{}},
		},
		"empty catalogue": {
			readings: []parking.RawSensorReading{{ID: "1"}},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := parking.Merge(tc.bays, tc.readings)
			require.Len(t, got, len(tc.bays), "every bay must yield exactly one record")
			for i, rec := range got {
				assert.Equal(t, tc.bays[i].ID, rec.ID, "catalogue order must be preserved")
			}
		})
	}
}

func TestMergeUnmatchedBayHasUnknownStatus(t *testing.T) {
	t.Parallel()

	bays := []parking.RawBay{parking.BayFromRow(map[string]any{"id": "9", "name": "Spencer Street"})}
	readings := []parking.RawSensorReading{{ID: "10", Status: "Unoccupied"}}

	got := parking.Merge(bays, readings)
	require.Len(t, got, 1)
	assert.Equal(t, "Spencer Street", got[0].Name)
	assert.Nil(t, got[0].Status)
	assert.Nil(t, got[0].LastUpdated)
}

func TestMergeAppliesDefaults(t *testing.T) {
	t.Parallel()

	got := parking.Merge([]parking.RawBay{{ID: "1"}}, nil)
	require.Len(t, got, 1)

	assert.Equal(t, parking.UnknownStreet, got[0].Name)
	assert.Equal(t, parking.FallbackLat, *got[0].Lat)
	assert.Equal(t, parking.FallbackLng, *got[0].Lng)
	assert.Equal(t, parking.Rates{Hourly: 8, Daily: 35}, got[0].Rates)
}

func TestMergeFirstReadingWins(t *testing.T) {
	t.Parallel()

	got := parking.Merge(
		[]parking.RawBay{{ID: "5"}},
		[]parking.RawSensorReading{{ID: "5", Status: "Unoccupied"}, {ID: "5", Status: "Present"}},
	)
	require.NotNil(t, got[0].Status)
	assert.True(t, *got[0].Status)
}

func TestMergeUsesReadingCoordinatesWhenBayHasNone(t *testing.T) {
	t.Parallel()

	got := parking.Merge(
		[]parking.RawBay{{ID: "5", Lat: ptr(-37.80)}},
		[]parking.RawSensorReading{{ID: "5", Lat: ptr(-37.90), Lng: ptr(144.90)}},
	)
	assert.Equal(t, -37.80, *got[0].Lat, "bay coordinates take precedence")
	assert.Equal(t, 144.90, *got[0].Lng)
}

func TestBayFromRow(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		row map[string]any

		want parking.RawBay
	}{
		"flat columns": {
			row:  map[string]any{"kerbsideid": "42", "roadsegmentdescription": "Lonsdale Street", "latitude": -37.81, "longitude": 144.96},
			want: parking.RawBay{ID: "42", Name: ptr("Lonsdale Street"), Lat: ptr(-37.81), Lng: ptr(144.96)},
		},
		"nested location": {
			row:  map[string]any{"kerbsideid": float64(42), "location": map[string]any{"lat": -37.81, "lon": 144.96}},
			want: parking.RawBay{ID: "42", Lat: ptr(-37.81), Lng: ptr(144.96)},
		},
		"numeric strings from csv": {
			row:  map[string]any{"kerbsideid": "42.0", "latitude": " -37.81 ", "longitude": "144.96"},
			want: parking.RawBay{ID: "42", Lat: ptr(-37.81), Lng: ptr(144.96)},
		},
		"non numeric coordinates are dropped": {
			row:  map[string]any{"id": int64(42), "latitude": "n/a", "longitude": true},
			want: parking.RawBay{ID: "42"},
		},
		"blank name is absent": {
			row:  map[string]any{"id": "42", "roadsegmentdescription": "  "},
			want: parking.RawBay{ID: "42"},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, parking.BayFromRow(tc.row))
		})
	}
}

func TestReadingFromRowFormatsTimestamps(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 8, 1, 10, 0, 0, 0, time.FixedZone("AEST", 10*3600))
	got := parking.ReadingFromRow(map[string]any{"kerbsideid": int32(3), "status_description": "Unoccupied", "status_timestamp": ts, "lon": 144.9})

	assert.Equal(t, "3", got.ID)
	assert.True(t, got.Available())
	require.NotNil(t, got.Timestamp)
	assert.Equal(t, "2025-08-01T00:00:00Z", *got.Timestamp)
	require.NotNil(t, got.Lng)
	assert.Equal(t, 144.9, *got.Lng)
	assert.Nil(t, got.Lat)
}

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   any
		want string
	}{
		"nil":                 {in: nil, want: ""},
		"string":              {in: " 123 ", want: "123"},
		"float":               {in: float64(123), want: "123"},
		"float string":        {in: "123.00", want: "123"},
		"int64":               {in: int64(123), want: "123"},
		"large numeric text":  {in: "12345678901234567890", want: "12345678901234567890"},
		"fractional string":   {in: "12.5", want: "12.5"},
		"alphanumeric string": {in: "A-12", want: "A-12"},
		"int8":                {in: int8(12), want: "12"},
		"uint32":              {in: uint32(5701), want: "5701"},
		"uint64":              {in: uint64(12345678901234567890), want: "12345678901234567890"},
		"pg numeric":          {in: pgtype.Numeric{Int: big.NewInt(5701), Valid: true}, want: "5701"},
		"pg numeric scaled":   {in: pgtype.Numeric{Int: big.NewInt(57010), Exp: -1, Valid: true}, want: "5701"},
		"pg numeric exponent": {in: pgtype.Numeric{Int: big.NewInt(57), Exp: 2, Valid: true}, want: "5700"},
		"pg numeric fraction": {in: pgtype.Numeric{Int: big.NewInt(125), Exp: -1, Valid: true}, want: "12.5"},
		"pg numeric null":     {in: pgtype.Numeric{}, want: ""},
		"pg numeric nan":      {in: pgtype.Numeric{NaN: true, Valid: true}, want: ""},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, parking.NormalizeID(tc.in))
		})
	}
}
