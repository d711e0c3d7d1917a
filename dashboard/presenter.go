package dashboard

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/structs"
)

//go:generate mockgen --build_flags=--mod=mod -source=./presenter.go -destination=./test/mock_presenter.go -package test

// Presenter shows the outcome of a refresh cycle
type Presenter interface {
	Present(ctx context.Context, snapshot Snapshot) error
}

// TextPresenter prints snapshots for terminals. Blocking notices go to the error stream.
type TextPresenter struct {
	out    io.Writer
	errOut io.Writer
}

var _ Presenter = &TextPresenter{}

func NewTextPresenter(out, errOut io.Writer) *TextPresenter {
	return &TextPresenter{out: out, errOut: errOut}
}

func (t *TextPresenter) Present(_ context.Context, snapshot Snapshot) error {
	if snapshot.Notice.Blocking() {
		if _, err := fmt.Fprintln(t.errOut, snapshot.Notice.Message); err != nil {
			return err
		}
	}

	b := &strings.Builder{}
	display := snapshot.Display
	fmt.Fprintln(b, display.Name)
	if display.Meta != "" {
		fmt.Fprintln(b, display.Meta)
	}
	for _, detail := range display.Details {
		fmt.Fprintf(b, "%s: %s\n", detail.Label, detail.Value)
	}

	if snapshot.Patient != nil {
		fmt.Fprintln(b)
		for _, field := range structs.New(snapshot.Patient).Fields() {
			if field.Tag("json") == "-" || field.IsZero() {
				continue
			}
			fmt.Fprintf(b, "%s: %s\n", field.Name(), fieldText(field.Value()))
		}
	}

	if display.Found {
		fmt.Fprintf(b, "\nBlood pressure (%s)\n", snapshot.VitalsSource)
		if len(snapshot.Series) == 0 {
			fmt.Fprintln(b, "no readings")
		}
		for _, sample := range snapshot.Series {
			fmt.Fprintln(b, sample.String())
		}
	}

	_, err := io.WriteString(t.out, b.String())
	return err
}

func fieldText(value any) string {
	if s, ok := value.(*string); ok {
		return *s
	}
	return fmt.Sprint(value)
}
