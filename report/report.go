// Package report exports the vitals of a dashboard snapshot as a workbook
package report

import (
	"io"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/tidepool-org/vitals/summary"
	"github.com/tidepool-org/vitals/vitals"
)

const (
	SheetNameBloodPressure = "Blood Pressure"
	SheetNamePatient       = "Patient"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Report struct {
	display     summary.Display
	series      vitals.Series
	generatedAt time.Time
}

func NewReport(display summary.Display, series vitals.Series, generatedAt time.Time) Report {
	return Report{
		display:     display,
		series:      series.Sorted(),
		generatedAt: generatedAt,
	}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addBloodPressureSheet,
		r.addPatientSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) Write(w io.Writer) error {
	file, err := r.Generate()
	if err != nil {
		return err
	}
	return file.Write(w)
}

func (r Report) addBloodPressureSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SheetNameBloodPressure)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Period")
	currentRow.AddCell().SetValue("Systolic")
	currentRow.AddCell().SetValue("Diastolic")

	for _, sample := range r.series {
		currentRow = sh.AddRow()
		if year, ok := sample.Period.Number(); ok {
			currentRow.AddCell().SetFloat(year)
		} else {
			currentRow.AddCell().SetValue(sample.Period.Label())
		}
		currentRow.AddCell().SetFloat(sample.Systolic)
		currentRow.AddCell().SetFloat(sample.Diastolic)
	}

	return nil
}

func (r Report) addPatientSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SheetNamePatient)
	if err != nil {
		return err
	}

	var currentRow *xlsx.Row
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Name")
	currentRow.AddCell().SetValue(r.display.Name)

	if r.display.Meta != "" {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue("Summary")
		currentRow.AddCell().SetValue(r.display.Meta)
	}

	for _, detail := range r.display.Details {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(detail.Label)
		currentRow.AddCell().SetValue(detail.Value)
	}
	sh.AddRow()

	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Report Generated")
	currentRow.AddCell().SetValue(r.generatedAt.Format(time.RFC3339))

	return nil
}
