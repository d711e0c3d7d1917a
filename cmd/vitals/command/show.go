package command

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/tidepool-org/vitals/dashboard"
)

var showParams = struct {
	Payload string
	Strict  bool
}{}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the dashboard of the target patient",
	Long:  "The show command runs a single refresh cycle and prints the resulting dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(show, showOptions(dashboard.NewTextPresenter(os.Stdout, os.Stderr))...)
	},
}

func showOptions(presenter dashboard.Presenter) []fx.Option {
	return []fx.Option{
		withPresenter(presenter),
		withPayload(showParams.Payload),
		fx.Decorate(func(cfg dashboard.Config) dashboard.Config {
			cfg.FailOnNotFound = cfg.FailOnNotFound || showParams.Strict
			return cfg
		}),
	}
}

func show(driver *dashboard.Driver) error {
	_, err := driver.Run(context.TODO())
	return err
}

func init() {
	showCmd.Flags().StringVar(&showParams.Payload, "payload", "", "Read the patient list from a JSON file instead of the remote service")
	showCmd.Flags().BoolVar(&showParams.Strict, "strict", false, "Exit with an error when the target patient is not found")

	rootCmd.AddCommand(showCmd)
}
