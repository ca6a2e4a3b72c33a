package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/fitcoach/internal/config"
)

var setAPIURLCmd = &cobra.Command{
	Use:   "set-api-url <url>",
	Short: "Save the coaching service URL to the config file",
	Args:  cobra.ExactArgs(1),
	// Skip config loading: the file may not exist yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = localConfigPath
		}
		if err := config.SaveAPIURL(path, args[0]); err != nil {
			return fmt.Errorf("saving api url: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "api.base_url set to %s in %s\n", args[0], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setAPIURLCmd)
}
