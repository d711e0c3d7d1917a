package command

import (
	"fmt"
	"os"

	"github.com/DataDog/datadog-agent/pkg/util/fxutil"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/tidepool-org/vitals/api"
	"github.com/tidepool-org/vitals/dashboard"
	"github.com/tidepool-org/vitals/source"
)

var logLevel string

// Run executes a given function with dependencies supplied by the vitals service DI graph
// `f` must return an error or nothing
// `opts` can be used to supply additional arguments that are not provided by the vitals service
func Run(f interface{}, opts ...fx.Option) error {
	deps := append(opts, api.Dependencies()...)
	return fxutil.OneShot(f, deps...)
}

var rootCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Patient vitals dashboard",
	Long:  "Shows the profile and the blood pressure history of the configured patient",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Overwrite zap's log level
		return os.Setenv("LOG_LEVEL", logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "error", "Log Level")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// withPresenter supplies the presenter of the refresh cycles run by a command
func withPresenter(presenter dashboard.Presenter) fx.Option {
	return fx.Provide(func() dashboard.Presenter { return presenter })
}

// withPayload replaces the remote data source with the JSON document stored in path
func withPayload(path string) fx.Option {
	if path == "" {
		return fx.Options()
	}
	return fx.Decorate(func(source.Client) (source.Client, error) {
		return source.NewFileClient(path)
	})
}
