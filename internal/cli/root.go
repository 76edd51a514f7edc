package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/taskmasterhq/taskmaster/internal/update"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "taskmaster",
	Short: "Taskmaster - personal task manager with calendar and reminders",
	Long: `Taskmaster is a local-first personal task manager.

It keeps tasks and categories in a local SQLite database, shows them in a
terminal UI with a month calendar, fires due-time reminders, and writes
JSON backups on demand or on a schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		app.Engine.Start()
		defer app.Engine.Stop()

		notifier := update.DesktopNotifier(update.NoopDesktopNotifier{})
		if app.Config.DesktopNotifications {
			notifier = update.ExecDesktopNotifier{}
		}
		model := update.NewModel(update.Deps{
			Tasks:          app.Tasks,
			Categories:     app.Categories,
			Repo:           app.Repo,
			Settings:       app.Settings,
			Engine:         app.Engine,
			BackupDir:      app.Config.BackupDir,
			PollInterval:   app.Config.PollInterval,
			DesktopEnabled: app.Config.DesktopNotifications,
			Notifier:       notifier,
		})
		program := tea.NewProgram(model)
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("running ui: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taskmaster %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "directory holding taskmaster.yaml and the database")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
