package test

import (
	"github.com/tidepool-org/vitals/records"
	"github.com/tidepool-org/vitals/test"
	"github.com/tidepool-org/vitals/vitals"
)

// RandomSeries returns n samples with consecutive years starting at from
func RandomSeries(from, n int) vitals.Series {
	series := make(vitals.Series, 0, n)
	for i := 0; i < n; i++ {
		systolic, diastolic := test.RandomReading()
		series = append(series, vitals.Sample{
			Period:    vitals.YearPeriod(from + i),
			Systolic:  float64(systolic),
			Diastolic: float64(diastolic),
		})
	}
	return series
}

// AsEntries converts the series to the array shape stored under the vitals key
func AsEntries(series vitals.Series) []any {
	entries := make([]any, 0, len(series))
	for _, sample := range series {
		year, _ := sample.Period.Number()
		entries = append(entries, map[string]any{
			"year":      year,
			"systolic":  sample.Systolic,
			"diastolic": sample.Diastolic,
		})
	}
	return entries
}

// AsRecord returns a patient record holding the series
func AsRecord(name string, series vitals.Series) records.Record {
	return records.Record{
		"name":   name,
		"vitals": AsEntries(series),
	}
}
