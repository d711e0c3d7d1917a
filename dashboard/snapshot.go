package dashboard

import (
	"fmt"
	"time"

	"github.com/tidepool-org/vitals/chart"
	"github.com/tidepool-org/vitals/patients"
	"github.com/tidepool-org/vitals/summary"
	"github.com/tidepool-org/vitals/vitals"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Blocking notices must be acknowledged by the viewer
func (n *Notice) Blocking() bool {
	return n != nil && n.Level != LevelInfo
}

func FetchFailedNotice(err error) *Notice {
	return &Notice{
		Level:   LevelError,
		Message: fmt.Sprintf("Error fetching patient data: %s", err.Error()),
	}
}

func NotFoundNotice(target string) *Notice {
	return &Notice{
		Level:   LevelWarning,
		Message: fmt.Sprintf("%s not found in API response. Make sure the API returns the patient list and that authentication is correct.", target),
	}
}

func ChartFailedNotice(err error) *Notice {
	return &Notice{
		Level:   LevelError,
		Message: fmt.Sprintf("Error rendering blood pressure chart: %s", err.Error()),
	}
}

type ChartRef struct {
	Id          string `json:"id"`
	Fingerprint string `json:"fingerprint"`
}

func newChartRef(instance *chart.Instance) *ChartRef {
	if instance == nil {
		return nil
	}
	return &ChartRef{Id: instance.Id, Fingerprint: instance.Fingerprint}
}

// Snapshot is the outcome of one refresh cycle
type Snapshot struct {
	CycleId      string            `json:"cycleId"`
	StartedAt    time.Time         `json:"startedAt"`
	CompletedAt  time.Time         `json:"completedAt"`
	Target       string            `json:"target"`
	Patient      *patients.Patient `json:"patient,omitempty"`
	Display      summary.Display   `json:"display"`
	Series       vitals.Series     `json:"series"`
	VitalsSource vitals.Source     `json:"vitalsSource"`
	Notice       *Notice           `json:"notice,omitempty"`
	Chart        *ChartRef         `json:"chart,omitempty"`
}
