package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/vitals/dashboard"
	"github.com/tidepool-org/vitals/report"
)

var exportParams = struct {
	Out     string
	Payload string
}{}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the blood pressure history",
	Long:  "The export command runs a single refresh cycle and saves the vitals of the target patient as a workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(export, exportOptions(dashboard.NewTextPresenter(io.Discard, os.Stderr))...)
	},
}

func exportOptions(presenter dashboard.Presenter) []fx.Option {
	return []fx.Option{
		withPresenter(presenter),
		withPayload(exportParams.Payload),
	}
}

func export(driver *dashboard.Driver, logger *zap.SugaredLogger) error {
	snapshot, err := driver.Run(context.TODO())
	if err != nil {
		return err
	}

	file, err := report.NewReport(snapshot.Display, snapshot.Series, time.Now()).Generate()
	if err != nil {
		return fmt.Errorf("unable to generate report: %w", err)
	}
	if err := file.Save(exportParams.Out); err != nil {
		return fmt.Errorf("unable to save report: %w", err)
	}

	logger.Infow("vitals exported", "path", exportParams.Out, "samples", len(snapshot.Series))
	fmt.Printf("Exported %v readings of %s to %s\n", len(snapshot.Series), snapshot.Display.Name, exportParams.Out)
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportParams.Out, "out", "o", "vitals.xlsx", "Path of the exported workbook")
	exportCmd.Flags().StringVar(&exportParams.Payload, "payload", "", "Read the patient list from a JSON file instead of the remote service")

	rootCmd.AddCommand(exportCmd)
}
