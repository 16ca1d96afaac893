package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Yassen717/HabitFlow/internal/achievement"
	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/internal/service"
	"github.com/Yassen717/HabitFlow/pkg/cleanup"
	"github.com/Yassen717/HabitFlow/pkg/entity"
)

type catalogEntry struct {
	Key       string `json:"key" yaml:"key"`
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category" yaml:"category"`
	Tier      string `json:"tier" yaml:"tier"`
	Points    int    `json:"points" yaml:"points"`
	Metric    string `json:"metric" yaml:"metric"`
	Threshold int    `json:"threshold" yaml:"threshold"`
}

func newCatalogEntry(d achievement.Definition) catalogEntry {
	return catalogEntry{
		Key:       d.Key,
		Name:      d.Name,
		Category:  string(d.Category),
		Tier:      string(d.Tier),
		Points:    d.PointsReward,
		Metric:    d.Metric.String(),
		Threshold: d.Threshold,
	}
}

func catalogEntries(category string) []catalogEntry {
	var entries []catalogEntry
	for _, d := range achievement.Catalog() {
		if category != "" && string(d.Category) != category {
			continue
		}
		entries = append(entries, newCatalogEntry(d))
	}
	return entries
}

var categories = []string{
	string(entity.CategoryStreak),
	string(entity.CategoryHabits),
	string(entity.CategoryPoints),
	string(entity.CategoryConsistency),
}

// NewCatalogCommand prints the compiled-in catalog. It needs no database.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	var category, key string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the achievement catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key != "" {
				d, ok := achievement.Lookup(key)
				if !ok {
					return fmt.Errorf("unknown achievement %q", key)
				}
				return writeOutput(cmd.OutOrStdout(), rootOpts.Format, newCatalogEntry(d))
			}
			if category != "" && !slices.Contains(categories, category) {
				return fmt.Errorf("unknown category %q: must be one of %v", category, categories)
			}
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, catalogEntries(category))
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "show only one category")
	cmd.Flags().StringVar(&key, "key", "", "show a single achievement")
	cmd.MarkFlagsMutuallyExclusive("category", "key")

	return cmd
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the achievement catalog into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connect(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup.CleanUp()
			as := service.NewAchievementService(repository.NewAchievementsRepo(pool), repository.NewUsersRepo(pool))
			if err = as.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d achievements\n", len(achievement.Catalog()))
			return nil
		},
	}
}
