// Package dashboard runs the refresh cycle that turns the remote patient list into the
// dashboard of the target patient
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/vitals/chart"
	"github.com/tidepool-org/vitals/patients"
	"github.com/tidepool-org/vitals/source"
	"github.com/tidepool-org/vitals/summary"
	"github.com/tidepool-org/vitals/vitals"
)

type Params struct {
	fx.In

	Config    Config
	Source    source.Client
	Renderer  chart.Renderer
	Slot      *chart.Slot
	Presenter Presenter
	Logger    *zap.SugaredLogger
}

type Driver struct {
	target    string
	source    source.Client
	matcher   *patients.Matcher
	extractor *vitals.Extractor
	renderer  chart.Renderer
	slot      *chart.Slot
	presenter Presenter
	logger    *zap.SugaredLogger
	now       func() time.Time

	mu     sync.RWMutex
	latest *Snapshot
}

func NewDriver(p Params) *Driver {
	matcher := patients.NewMatcher(p.Config.Target)
	if p.Config.FailOnNotFound {
		matcher.OnNoMatchingPatientReturnError()
	}

	return &Driver{
		target:    p.Config.Target,
		source:    p.Source,
		matcher:   matcher,
		extractor: vitals.NewExtractor(p.Logger),
		renderer:  p.Renderer,
		slot:      p.Slot,
		presenter: p.Presenter,
		logger:    p.Logger,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for timestamps and for undated measurements
func (d *Driver) WithClock(now func() time.Time) *Driver {
	d.now = now
	d.extractor.WithClock(now)
	return d
}

// Latest returns the snapshot of the last completed cycle
func (d *Driver) Latest() (Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.latest == nil {
		return Snapshot{}, false
	}
	return *d.latest, true
}

// Run executes one refresh cycle and publishes its snapshot. A failure to retrieve the patient
// list is returned as an error, in which case the previous display is kept. A missing target is
// only an error when FailOnNotFound is set; the placeholder is published either way.
func (d *Driver) Run(ctx context.Context) (Snapshot, error) {
	snapshot := Snapshot{
		CycleId:   uuid.NewString(),
		StartedAt: d.now(),
		Target:    d.target,
	}
	logger := d.logger.With("cycleId", snapshot.CycleId)

	payload, err := d.source.Fetch(ctx)
	if err != nil {
		logger.Errorw("unable to fetch patient data", "error", err)
		snapshot.Notice = FetchFailedNotice(err)
		snapshot = d.publish(ctx, logger, snapshot, d.keepPrevious)
		return snapshot, fmt.Errorf("unable to fetch patient data: %w", err)
	}

	patient, err := d.matcher.Match(payload)
	if err != nil && !errors.Is(err, patients.NoMatchingPatients) {
		return snapshot, err
	}
	if patient == nil {
		logger.Warnw("target patient not found", "target", d.target, "candidates", len(patients.Candidates(payload)))
		snapshot.Display = summary.Project(nil)
		snapshot.Series = vitals.Series{}
		snapshot.VitalsSource = vitals.SourceNone
		snapshot.Notice = NotFoundNotice(d.target)
		return d.publish(ctx, logger, snapshot, d.clearChart), err
	}

	if unmapped := patients.UnmappedFields(patient.Record); unmapped.Cardinality() > 0 {
		logger.Debugw("patient record has unmapped fields", "fields", unmapped.ToSlice())
	}

	result := d.extractor.Extract(patient.Record)
	snapshot.Patient = patient
	snapshot.Display = summary.Project(patient)
	snapshot.Series = result.Series.Sorted()
	snapshot.VitalsSource = result.Source

	return d.publish(ctx, logger, snapshot, d.replaceChart), nil
}

// publish finishes the snapshot while holding the lock so that the chart and the published
// snapshot always belong to the same cycle
func (d *Driver) publish(ctx context.Context, logger *zap.SugaredLogger, snapshot Snapshot, finish func(*zap.SugaredLogger, *Snapshot)) Snapshot {
	d.mu.Lock()
	finish(logger, &snapshot)
	snapshot.CompletedAt = d.now()
	d.latest = &snapshot
	d.mu.Unlock()

	logger.Infow("refresh cycle completed",
		"found", snapshot.Display.Found,
		"samples", len(snapshot.Series),
		"vitalsSource", snapshot.VitalsSource,
	)

	if d.presenter != nil {
		if err := d.presenter.Present(ctx, snapshot); err != nil {
			logger.Warnw("unable to present snapshot", "error", err)
		}
	}
	return snapshot
}

func (d *Driver) keepPrevious(_ *zap.SugaredLogger, snapshot *Snapshot) {
	if d.latest == nil {
		snapshot.Series = vitals.Series{}
		snapshot.VitalsSource = vitals.SourceNone
		return
	}
	snapshot.Patient = d.latest.Patient
	snapshot.Display = d.latest.Display
	snapshot.Series = d.latest.Series
	snapshot.VitalsSource = d.latest.VitalsSource
	snapshot.Chart = d.latest.Chart
}

func (d *Driver) clearChart(_ *zap.SugaredLogger, _ *Snapshot) {
	d.slot.Clear()
}

func (d *Driver) replaceChart(logger *zap.SugaredLogger, snapshot *Snapshot) {
	instance, err := d.slot.Replace(func() (*chart.Instance, error) {
		return d.renderer.Render(snapshot.Series)
	})
	if err != nil {
		logger.Errorw("unable to render chart", "error", err)
		snapshot.Notice = ChartFailedNotice(err)
		return
	}
	snapshot.Chart = newChartRef(instance)
}
