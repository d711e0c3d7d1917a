package vitals

import (
	"time"

	"go.uber.org/zap"

	"github.com/tidepool-org/vitals/records"
)

type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

type Result struct {
	Series Series `json:"series"`
	Source Source `json:"source"`
}

type Clock func() time.Time

type Extractor struct {
	logger *zap.SugaredLogger
	now    Clock
}

func NewExtractor(logger *zap.SugaredLogger) *Extractor {
	return &Extractor{
		logger: logger,
		now:    time.Now,
	}
}

func (e *Extractor) WithClock(now Clock) *Extractor {
	e.now = now
	return e
}

// Extract normalizes the structured vitals of the record and falls back to the generic
// measurements list when there are none
func (e *Extractor) Extract(record records.Record) Result {
	if series := Normalize(record); len(series) > 0 {
		return Result{Series: series, Source: SourcePrimary}
	}

	e.logger.Warn("No structured BP found. Trying fallbacks.")
	series := ExtractFallback(record, e.now())
	if len(series) == 0 {
		e.logger.Infow("no blood pressure readings found", "fields", records.Keys(record).ToSlice())
		return Result{Series: Series{}, Source: SourceNone}
	}
	return Result{Series: series, Source: SourceFallback}
}
