package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/Yassen717/HabitFlow/internal/achievement"
	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/pkg/cleanup"
	"github.com/Yassen717/HabitFlow/pkg/clock"
)

type progressEntry struct {
	Key       string `json:"key" yaml:"key"`
	Metric    string `json:"metric" yaml:"metric"`
	Value     int    `json:"value" yaml:"value"`
	Threshold int    `json:"threshold" yaml:"threshold"`
	Unlocked  bool   `json:"unlocked" yaml:"unlocked"`
}

type progressReport struct {
	UserID           string          `json:"userId" yaml:"user_id"`
	CurrentStreak    int             `json:"currentStreak" yaml:"current_streak"`
	TotalHabits      int             `json:"totalHabits" yaml:"total_habits"`
	TotalPoints      int             `json:"totalPoints" yaml:"total_points"`
	TotalCompletions int             `json:"totalCompletions" yaml:"total_completions"`
	Achievements     []progressEntry `json:"achievements" yaml:"achievements"`
}

// buildProgress reports every catalog entry against stats. An entry can be
// unlocked while its value is below threshold again, e.g. after a streak
// broke.
func buildProgress(stats achievement.Stats, unlocked []string) progressReport {
	report := progressReport{
		UserID:           stats.UserID.String(),
		CurrentStreak:    stats.CurrentStreak,
		TotalHabits:      stats.TotalHabits,
		TotalPoints:      stats.TotalPoints,
		TotalCompletions: stats.TotalCompletions,
	}
	for _, d := range achievement.Catalog() {
		report.Achievements = append(report.Achievements, progressEntry{
			Key:       d.Key,
			Metric:    d.Metric.String(),
			Value:     stats.Value(d.Metric),
			Threshold: d.Threshold,
			Unlocked:  slices.Contains(unlocked, d.Key),
		})
	}
	return report
}

func NewProgressCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <user-id>",
		Short: "Show a user's aggregates against every achievement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			pool, err := connect(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup.CleanUp()

			achievementsRepo := repository.NewAchievementsRepo(pool)
			engine := achievement.NewEngine(repository.NewUsersRepo(pool), repository.NewCompletionLogsRepo(pool), achievementsRepo, clock.System{})
			stats, err := engine.Stats(cmd.Context(), uid)
			if err != nil {
				return err
			}
			unlocked, err := achievementsRepo.UnlockedKeys(cmd.Context(), uid)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, buildProgress(stats, unlocked))
		},
	}
}

type evaluateReport struct {
	UserID        string   `json:"userId" yaml:"user_id"`
	Unlocked      []string `json:"unlocked" yaml:"unlocked"`
	PointsAwarded int      `json:"pointsAwarded" yaml:"points_awarded"`
}

// NewEvaluateCommand re-runs achievement evaluation for one user, e.g. after
// the catalog gained entries the user already qualifies for.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <user-id>",
		Short: "Unlock every achievement a user already qualifies for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			pool, err := connect(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup.CleanUp()

			engine := achievement.NewEngine(repository.NewUsersRepo(pool), repository.NewCompletionLogsRepo(pool),
				repository.NewAchievementsRepo(pool), clock.System{})
			res, err := engine.Evaluate(cmd.Context(), uid)
			// Unlocks committed before a failure are still reported
			if werr := writeOutput(cmd.OutOrStdout(), rootOpts.Format, evaluateReport{
				UserID:        uid.String(),
				Unlocked:      res.Keys(),
				PointsAwarded: res.TotalPoints(),
			}); werr != nil {
				return werr
			}
			return err
		},
	}
}
