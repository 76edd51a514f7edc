package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskmasterhq/taskmaster/internal/backup"
)

var exportDirFlag string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup of all tasks, categories and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		dir := exportDirFlag
		if dir == "" {
			dir = app.Config.BackupDir
		}
		now := app.Now()
		data, err := backup.Encode(app.Tasks.Snapshot(), app.Categories.Snapshot(), app.Settings, now)
		if err != nil {
			return fmt.Errorf("encoding backup: %w", err)
		}
		path, err := backup.WriteFile(dir, data, now)
		if err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}

		at := now
		app.Settings.LastBackupAt = &at
		if err := app.Repo.SaveSettings(cmd.Context(), app.Settings); err != nil {
			return fmt.Errorf("recording backup time: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore tasks, categories and settings from a JSON backup",
	Long: `Restore from a backup file produced by export.

Keys present in the file replace the matching data wholesale; keys absent
from the file leave the current data untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		doc, err := backup.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading backup: %w", err)
		}

		ctx := cmd.Context()
		if doc.Tasks != nil {
			if err := app.Tasks.Replace(ctx, doc.Tasks); err != nil {
				return fmt.Errorf("restoring tasks: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d task(s)\n", len(doc.Tasks))
		}
		if doc.Categories != nil {
			if err := app.Categories.Replace(ctx, doc.Categories); err != nil {
				return fmt.Errorf("restoring categories: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d categor(ies)\n", len(doc.Categories))
		}
		if doc.Settings != nil {
			if err := app.Repo.SaveSettings(ctx, *doc.Settings); err != nil {
				return fmt.Errorf("restoring settings: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Restored settings")
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDirFlag, "dir", "", "directory for the backup file (default: configured backup dir)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
