package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "techsync",
		Short:         "techsync: sync tech levels across devices and alts",
		Long:          "techsync keeps your tech tree progress in sync with the remote service: connect a device with a code, record tech levels per alt, and let the background refresh keep everything current.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConnectCmd(app),
		newStatusCmd(app),
		newSetCmd(app),
		newAltCmd(app),
		newSyncCmd(app),
		newGuildsCmd(app),
		newLogoutCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}
