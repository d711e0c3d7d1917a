package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/vitals/chart"
	"github.com/tidepool-org/vitals/dashboard"
	errs "github.com/tidepool-org/vitals/errors"
	"github.com/tidepool-org/vitals/report"
	"github.com/tidepool-org/vitals/vitals"
)

const (
	FormatJson = "json"
	FormatXlsx = "xlsx"

	ContentTypeSvg = "image/svg+xml"
	ExportFilename = "vitals.xlsx"
)

type ExportVitalsParams struct {
	Format *string `form:"format,omitempty" json:"format,omitempty"`
}

type Vitals struct {
	Target       string        `json:"target"`
	Found        bool          `json:"found"`
	VitalsSource vitals.Source `json:"vitalsSource"`
	Series       vitals.Series `json:"series"`
}

type Handler struct {
	driver *dashboard.Driver
	view   *dashboard.View
	slot   *chart.Slot
	logger *zap.SugaredLogger
	now    func() time.Time
}

type Params struct {
	fx.In

	Driver *dashboard.Driver
	View   *dashboard.View
	Slot   *chart.Slot
	Logger *zap.SugaredLogger
}

func NewHandler(p Params) *Handler {
	return &Handler{
		driver: p.Driver,
		view:   p.View,
		slot:   p.Slot,
		logger: p.Logger,
		now:    time.Now,
	}
}

// Dashboard renders the page of the latest snapshot
// (GET /)
func (h *Handler) Dashboard(ec echo.Context) error {
	buffer := &bytes.Buffer{}
	if err := h.view.Render(buffer); err != nil {
		return fmt.Errorf("%w: unable to render dashboard: %w", errs.InternalServerError, err)
	}
	return ec.HTMLBlob(http.StatusOK, buffer.Bytes())
}

// Chart serves the chart owned by the slot
// (GET /chart.svg)
func (h *Handler) Chart(ec echo.Context) error {
	instance := h.slot.Current()
	if instance == nil {
		return fmt.Errorf("%w: no chart is available", errs.NotFound)
	}
	svg := instance.SVG()
	if svg == nil {
		return fmt.Errorf("%w: chart %s was released", errs.NotFound, instance.Id)
	}
	ec.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return ec.Blob(http.StatusOK, ContentTypeSvg, svg)
}

// Refresh runs a refresh cycle and returns its snapshot
// (POST /v1/refresh)
func (h *Handler) Refresh(ec echo.Context) error {
	snapshot, err := h.driver.Run(ec.Request().Context())
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, snapshot)
}

// (GET /v1/snapshot)
func (h *Handler) GetSnapshot(ec echo.Context) error {
	snapshot, ok := h.driver.Latest()
	if !ok {
		return fmt.Errorf("%w: no refresh cycle has completed", errs.NotReady)
	}
	return ec.JSON(http.StatusOK, snapshot)
}

// ExportVitals returns the series of the latest snapshot as JSON or as a workbook
// (GET /v1/vitals)
func (h *Handler) ExportVitals(ec echo.Context) error {
	var params ExportVitalsParams
	if err := runtime.BindQueryParameter("form", true, false, "format", ec.QueryParams(), &params.Format); err != nil {
		return fmt.Errorf("%w: invalid format: %w", errs.BadRequest, err)
	}

	snapshot, ok := h.driver.Latest()
	if !ok {
		return fmt.Errorf("%w: no refresh cycle has completed", errs.NotReady)
	}

	format := FormatJson
	if params.Format != nil {
		format = *params.Format
	}

	switch format {
	case FormatJson:
		return ec.JSON(http.StatusOK, Vitals{
			Target:       snapshot.Target,
			Found:        snapshot.Display.Found,
			VitalsSource: snapshot.VitalsSource,
			Series:       snapshot.Series,
		})
	case FormatXlsx:
		buffer := &bytes.Buffer{}
		if err := report.NewReport(snapshot.Display, snapshot.Series, h.now()).Write(buffer); err != nil {
			return fmt.Errorf("%w: unable to generate report: %w", errs.InternalServerError, err)
		}
		h.logger.Infow("vitals exported", "cycleId", snapshot.CycleId, "samples", len(snapshot.Series))
		ec.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", ExportFilename))
		return ec.Blob(http.StatusOK, report.ContentType, buffer.Bytes())
	default:
		return fmt.Errorf("%w: unsupported format %q", errs.BadRequest, format)
	}
}
