package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	appparams "biddingplatform/app/params"
	"biddingplatform/internal/app"
)

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (app version %d)\n", appparams.AppName, app.Version, app.AppVersion)
			return err
		},
	}
}
