package vitals

import (
	"strconv"
	"strings"
	"time"

	"github.com/tidepool-org/vitals/records"
)

var FallbackFields = struct {
	Measurements records.Aliases
	Type         records.Aliases
	Year         records.Aliases
	Date         records.Aliases
	Systolic     records.Aliases
	Diastolic    records.Aliases
}{
	Measurements: records.Aliases{"measurements"},
	Type:         records.Aliases{"type", "kind"},
	Year:         records.Aliases{"year"},
	Date:         records.Aliases{"date", "timestamp"},
	Systolic:     records.Aliases{"systolic", "sys"},
	Diastolic:    records.Aliases{"diastolic", "dia"},
}

const bloodPressureMarker = "bp"

// ExtractFallback reads blood pressure readings from the generic measurements list of the
// record. Entries keep their order. The period of an entry without a usable year or date is
// the year of now.
func ExtractFallback(record records.Record, now time.Time) Series {
	entries, ok := records.Resolve(record, FallbackFields.Measurements).Array()
	if !ok {
		return Series{}
	}

	series := make(Series, 0, len(entries))
	for _, entry := range entries {
		if !isBloodPressure(entry) {
			continue
		}
		systolic, ok := entry.Resolve(FallbackFields.Systolic).Number()
		if !ok {
			continue
		}
		diastolic, ok := entry.Resolve(FallbackFields.Diastolic).Number()
		if !ok {
			continue
		}
		series = append(series, Sample{
			Period:    YearPeriod(measurementYear(entry, now)),
			Systolic:  systolic,
			Diastolic: diastolic,
		})
	}
	return series
}

func isBloodPressure(entry records.Value) bool {
	kind, ok := entry.Resolve(FallbackFields.Type).Text()
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(kind), bloodPressureMarker)
}

func measurementYear(entry records.Value, now time.Time) int {
	if year, ok := entry.Resolve(FallbackFields.Year).Number(); ok {
		return int(year)
	}
	if year, ok := dateYear(entry.Resolve(FallbackFields.Date)); ok {
		return year
	}
	return now.Year()
}

// dateYear accepts RFC 3339 timestamps, ISO dates and epoch milliseconds
func dateYear(value records.Value) (int, bool) {
	switch value.Kind() {
	case records.KindNumber:
		ms, _ := value.Number()
		return time.UnixMilli(int64(ms)).UTC().Year(), true
	case records.KindString:
		s, _ := value.Text()
		s = strings.TrimSpace(s)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.Year(), true
		}
		if match := isoDatePrefix.FindStringSubmatch(s); match != nil {
			year, _ := strconv.Atoi(match[1])
			return year, true
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC().Year(), true
		}
	}
	return 0, false
}
