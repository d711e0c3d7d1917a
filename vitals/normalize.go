package vitals

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/tidepool-org/vitals/records"
)

var Fields = struct {
	Container records.Aliases
	Yearly    records.Aliases
	Period    records.Aliases
	Id        records.Aliases
	Systolic  records.Aliases
	Diastolic records.Aliases

	YearlySystolic  records.Aliases
	YearlyDiastolic records.Aliases
}{
	Container: records.Aliases{"vitals", "bp", "observations", "readings"},
	Yearly:    records.Aliases{"yearly"},
	Period:    records.Aliases{"year", "date", "recorded_at", "recordedAt", "timestamp"},
	Id:        records.Aliases{"id"},
	Systolic:  records.Aliases{"systolic", "sys", "s"},
	Diastolic: records.Aliases{"diastolic", "dia", "d"},

	YearlySystolic:  records.Aliases{"systolic", "sys", "0"},
	YearlyDiastolic: records.Aliases{"diastolic", "dia", "1"},
}

var isoDatePrefix = regexp.MustCompile(`^(\d{4})-\d{2}-\d{2}`)

// Normalize extracts the blood pressure series of a patient record. Readings are either an
// array of entries under one of the container keys or an object holding a yearly map. The
// result is sorted by period.
func Normalize(record records.Record) Series {
	container := findContainer(record)

	var series Series
	if entries, ok := container.Array(); ok {
		series = fromEntries(entries)
	} else if yearly, ok := container.Get(Fields.Yearly[0]).Object(); ok {
		series = fromYearly(yearly)
	}

	return series.Sorted()
}

// findContainer returns the first container key that is present, even when it holds an empty
// collection
func findContainer(record records.Record) records.Value {
	root := records.Of(record)
	for _, key := range Fields.Container {
		if value := root.Get(key); value.IsPresent() {
			return value
		}
	}
	return records.Absent()
}

func fromEntries(entries []records.Value) Series {
	series := make(Series, 0, len(entries))
	for _, entry := range entries {
		if _, ok := entry.Object(); !ok {
			continue
		}
		systolic, ok := entry.Resolve(Fields.Systolic).Number()
		if !ok {
			continue
		}
		diastolic, ok := entry.Resolve(Fields.Diastolic).Number()
		if !ok {
			continue
		}
		series = append(series, Sample{
			Period:    entryPeriod(entry),
			Systolic:  systolic,
			Diastolic: diastolic,
		})
	}
	return series
}

func entryPeriod(entry records.Value) Period {
	if period, ok := scalarPeriod(entry.Resolve(Fields.Period)); ok {
		return period
	}
	if period, ok := scalarPeriod(entry.Resolve(Fields.Id)); ok {
		return period
	}
	return NoPeriod()
}

func scalarPeriod(value records.Value) (Period, bool) {
	switch value.Kind() {
	case records.KindNumber:
		n, _ := value.Number()
		return NumberPeriod(n), true
	case records.KindString:
		s, _ := value.Text()
		if match := isoDatePrefix.FindStringSubmatch(s); match != nil {
			year, _ := strconv.Atoi(match[1])
			return YearPeriod(year), true
		}
		return StringPeriod(s), true
	default:
		return Period{}, false
	}
}

func fromYearly(yearly records.Record) Series {
	keys := make([]string, 0, len(yearly))
	for key := range yearly {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make(Series, 0, len(keys))
	for _, key := range keys {
		reading := records.Of(yearly[key])
		series = append(series, Sample{
			Period:    yearlyPeriod(key),
			Systolic:  numberOrZero(reading.Resolve(Fields.YearlySystolic)),
			Diastolic: numberOrZero(reading.Resolve(Fields.YearlyDiastolic)),
		})
	}
	return series
}

func yearlyPeriod(key string) Period {
	if n, err := strconv.ParseFloat(key, 64); err == nil {
		return NumberPeriod(n)
	}
	return StringPeriod(key)
}

func numberOrZero(value records.Value) float64 {
	n, _ := value.Number()
	return n
}
