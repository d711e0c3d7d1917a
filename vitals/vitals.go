// Package vitals extracts blood pressure time series from patient records whose vitals may be
// stored in one of several shapes.
package vitals

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

type PeriodKind int

const (
	PeriodNone PeriodKind = iota
	PeriodNumber
	PeriodString
)

// Period is the time label of a sample: nothing, a number (usually a year) or free text
type Period struct {
	kind   PeriodKind
	number float64
	text   string
}

func NoPeriod() Period {
	return Period{}
}

func NumberPeriod(n float64) Period {
	return Period{kind: PeriodNumber, number: n}
}

func YearPeriod(year int) Period {
	return NumberPeriod(float64(year))
}

func StringPeriod(s string) Period {
	return Period{kind: PeriodString, text: s}
}

func (p Period) Kind() PeriodKind {
	return p.kind
}

func (p Period) Number() (float64, bool) {
	return p.number, p.kind == PeriodNumber
}

// SortKey orders periods numerically. Missing and non numeric periods order as 0.
func (p Period) SortKey() float64 {
	switch p.kind {
	case PeriodNumber:
		return p.number
	case PeriodString:
		if n, err := strconv.ParseFloat(p.text, 64); err == nil {
			return n
		}
	}
	return 0
}

// Label is the text shown on the chart axis
func (p Period) Label() string {
	switch p.kind {
	case PeriodNumber:
		return strconv.FormatFloat(p.number, 'f', -1, 64)
	case PeriodString:
		return p.text
	default:
		return ""
	}
}

func (p Period) String() string {
	if p.kind == PeriodNone {
		return "null"
	}
	return p.Label()
}

func (p Period) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case PeriodNumber:
		return []byte(strconv.FormatFloat(p.number, 'f', -1, 64)), nil
	case PeriodString:
		return json.Marshal(p.text)
	default:
		return []byte("null"), nil
	}
}

type Sample struct {
	Period    Period  `json:"period"`
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

func (s Sample) String() string {
	return fmt.Sprintf("%s: %g/%g", s.Period, s.Systolic, s.Diastolic)
}

type Series []Sample

// Sorted returns a copy of the series in ascending period order. Samples with equal sort keys
// keep their relative order.
func (s Series) Sorted() Series {
	sorted := make(Series, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period.SortKey() < sorted[j].Period.SortKey()
	})
	return sorted
}

func (s Series) Labels() []string {
	labels := make([]string, 0, len(s))
	for _, sample := range s {
		labels = append(labels, sample.Period.Label())
	}
	return labels
}

func (s Series) Systolic() []float64 {
	values := make([]float64, 0, len(s))
	for _, sample := range s {
		values = append(values, sample.Systolic)
	}
	return values
}

func (s Series) Diastolic() []float64 {
	values := make([]float64, 0, len(s))
	for _, sample := range s {
		values = append(values, sample.Diastolic)
	}
	return values
}

// Fingerprint identifies the content of the series
func (s Series) Fingerprint() string {
	h := sha256.New()
	for _, sample := range s {
		fmt.Fprintf(h, "%d|%s|%g|%g;", sample.Period.kind, sample.Period.Label(), sample.Systolic, sample.Diastolic)
	}
	return hex.EncodeToString(h.Sum(nil))
}
