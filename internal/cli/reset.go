package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYesFlag bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all tasks, categories and settings",
	Long:  `Delete everything and reseed the default categories. Requires --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYesFlag {
			return fmt.Errorf("refusing to reset without --yes")
		}
		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Repo.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("resetting data: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All data removed")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYesFlag, "yes", false, "confirm the reset")
	rootCmd.AddCommand(resetCmd)
}
