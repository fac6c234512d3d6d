package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appparams "biddingplatform/app/params"
	"biddingplatform/internal/config"
)

// NewRootCmd creates a new root command for biddingd. It is called once in main.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           appparams.BinaryName,
		Short:         "Bidding platform ABCI daemon",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			return v.BindPFlags(cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String("home", config.DefaultHome(), "directory for config and data")
	rootCmd.PersistentFlags().String("log_level", "info", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log_format", "plain", "log format (plain|json)")

	rootCmd.AddCommand(
		StartCmd(v),
		VersionCmd(),
		KeysCmd(),
		TxCmd(),
	)
	return rootCmd
}
