// Package cli implements habitflowctl, the operations tool that runs
// migrations, seeds the achievement catalog and inspects user progress
// against the same database the API uses.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Yassen717/HabitFlow/pkg/logging"
)

type RootOptions struct {
	EnvFile string
	Format  string // "yaml" | "json"
	Verbose bool
}

var ValidFormats = []string{"yaml", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "habitflowctl",
		Short:         "Operations tool for the HabitFlow API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, "text"))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", "./configs/.env", "path to .env file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "yaml", "output format (yaml|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewProgressCommand(opts))
	cmd.AddCommand(NewEvaluateCommand(opts))

	return cmd
}
