package patients

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	errs "github.com/tidepool-org/vitals/errors"
	"github.com/tidepool-org/vitals/records"
)

var (
	NoMatchingPatients = fmt.Errorf("%w: couldn't find matching patient", errs.NotFound)
)

// ListKeys are the object keys that may hold the patient list, in priority order
var ListKeys = records.Aliases{"patients", "data"}

type Matcher struct {
	target        string
	targetTokens  []string
	noPatientsErr error
}

// NewMatcher returns a matcher for the given target name. By default no matching patient is
// not an error.
func NewMatcher(target string) *Matcher {
	normalized := Normalize(target)
	return &Matcher{
		target:       target,
		targetTokens: strings.Fields(normalized),
	}
}

func (m *Matcher) OnNoMatchingPatientReturnError() *Matcher {
	m.noPatientsErr = NoMatchingPatients
	return m
}

func (m *Matcher) Target() string {
	return m.target
}

// Match returns the first candidate of the payload whose name matches the target. When
// nothing matches, the result is nil and the error is only set when configured.
func (m *Matcher) Match(payload any) (*Patient, error) {
	if len(m.targetTokens) == 0 {
		return nil, m.noPatientsErr
	}

	for _, candidate := range Candidates(payload) {
		record, ok := candidate.Object()
		if !ok {
			continue
		}
		if m.matches(record) {
			patient := FromRecord(record)
			return &patient, nil
		}
	}

	return nil, m.noPatientsErr
}

func (m *Matcher) matches(record records.Record) bool {
	target := strings.Join(m.targetTokens, " ")
	if strings.Contains(Normalize(FullName(record)), target) {
		return true
	}
	if len(m.targetTokens) < 2 {
		return false
	}

	first, ok := records.ResolveText(record, Fields.FirstName)
	if !ok {
		return false
	}
	last, ok := records.ResolveText(record, Fields.LastName)
	if !ok {
		return false
	}
	return Normalize(first) == m.targetTokens[0] && Normalize(last) == m.targetTokens[1]
}

// Candidates returns the patient list of the payload. The payload is either the list itself
// or an object holding it under one of ListKeys. Anything else has no candidates.
func Candidates(payload any) []records.Value {
	value := records.Of(payload)
	if items, ok := value.Array(); ok {
		return items
	}
	if _, ok := value.Object(); !ok {
		return nil
	}
	for _, key := range ListKeys {
		if items, ok := value.Get(key).Array(); ok {
			return items
		}
	}
	return nil
}

// Normalize case folds the name and collapses runs of whitespace
func Normalize(name string) string {
	// Casers keep state and are not safe for concurrent use
	folded := cases.Fold().String(name)
	return strings.Join(strings.Fields(folded), " ")
}
