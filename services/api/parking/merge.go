package parking

// joined is a bay paired with its matching reading, before defaults apply.
type joined struct {
	bay     RawBay
	reading *RawSensorReading
}

// Merge left-joins readings onto bays by normalized identifier and applies
// the shared defaults. The result has exactly one record per bay, in
// catalogue order.
func Merge(bays []RawBay, readings []RawSensorReading) []Record {
	index := make(map[string]*RawSensorReading, len(readings))
	for i := range readings {
		id := readings[i].ID
		if id == "" {
			continue
		}
		// first reading wins
		if _, ok := index[id]; !ok {
			index[id] = &readings[i]
		}
	}

	rows := make([]joined, 0, len(bays))
	for _, bay := range bays {
		row := joined{bay: bay}
		if bay.ID != "" {
			row.reading = index[bay.ID]
		}
		rows = append(rows, row)
	}
	return normalize(rows)
}

// normalize is the single place where name, coordinate and rate defaults
// are applied.
func normalize(rows []joined) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record{
			ID:    row.bay.ID,
			Name:  UnknownStreet,
			Lat:   row.bay.Lat,
			Lng:   row.bay.Lng,
			Rates: DefaultRates,
		}
		if row.bay.Name != nil && *row.bay.Name != "" {
			rec.Name = *row.bay.Name
		}

		if r := row.reading; r != nil {
			status := r.Available()
			rec.Status = &status
			rec.LastUpdated = r.Timestamp
			if rec.Lat == nil {
				rec.Lat = r.Lat
			}
			if rec.Lng == nil {
				rec.Lng = r.Lng
			}
		}

		if rec.Lat == nil {
			lat := FallbackLat
			rec.Lat = &lat
		}
		if rec.Lng == nil {
			lng := FallbackLng
			rec.Lng = &lng
		}
		out = append(out, rec)
	}
	return out
}
