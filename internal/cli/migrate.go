package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/pkg/config"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (default MIGRATIONS_DIR or ./migrations)")

	migrationsDir := func() string {
		if dir != "" {
			return dir
		}
		return config.NewFromFile(rootOpts.EnvFile).GetStringOr("MIGRATIONS_DIR", "./migrations")
	}
	connString := func() string {
		return dbConfig(config.NewFromFile(rootOpts.EnvFile)).ConnString()
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repository.Migrate(connString(), migrationsDir()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print applied state of every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return repository.MigrationStatus(connString(), migrationsDir())
		},
	})

	return cmd
}
