package source

import "github.com/melmove/parking-viewer/services/api/parking"

// MockRecords returns the synthetic dataset served when a source fails.
// Each call returns a fresh slice.
func MockRecords() []parking.Record {
	available, occupied := true, false
	lat1, lng1 := -37.8150, 144.9665
	lat2, lng2 := -37.8122, 144.9612

	return []parking.Record{
		{
			ID:     "mock-1",
			Name:   "Collins Street",
			Lat:    &lat1,
			Lng:    &lng1,
			Rates:  parking.DefaultRates,
			Status: &available,
		},
		{
			ID:     "mock-2",
			Name:   "Lonsdale Street",
			Lat:    &lat2,
			Lng:    &lng2,
			Rates:  parking.DefaultRates,
			Status: &occupied,
		},
	}
}
