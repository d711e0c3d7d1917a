package command

import (
	"github.com/spf13/cobra"

	"github.com/tidepool-org/vitals/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard",
	Long:  "The serve command runs the dashboard http server until it is interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		api.MainLoop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
