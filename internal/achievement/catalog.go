package achievement

import (
	"slices"

	"github.com/Yassen717/HabitFlow/pkg/entity"
)

// Metric names the aggregate a definition is tested against.
type Metric int

const (
	MetricCurrentStreak Metric = iota
	MetricTotalHabits
	MetricTotalPoints
	MetricTotalCompletions
)

func (m Metric) String() string {
	switch m {
	case MetricCurrentStreak:
		return "current_streak"
	case MetricTotalHabits:
		return "total_habits"
	case MetricTotalPoints:
		return "total_points"
	case MetricTotalCompletions:
		return "total_completions"
	}
	return "unknown"
}

// Tier rewards, in points.
const (
	RewardBronze   = 50
	RewardSilver   = 100
	RewardGold     = 200
	RewardPlatinum = 500
)

// Definition is one rule of the catalog: it is satisfied once the value of
// Metric reaches Threshold.
type Definition struct {
	Key          string
	Name         string
	Description  string
	Category     entity.Category
	Tier         entity.Tier
	PointsReward int
	Icon         string
	Metric       Metric
	Threshold    int
}

func (d Definition) Satisfied(s Stats) bool {
	return s.Value(d.Metric) >= d.Threshold
}

// Entity converts the definition into its persisted form. position is the
// definition's index in the catalog.
func (d Definition) Entity(position int) entity.Achievement {
	return entity.Achievement{
		Key:          d.Key,
		Name:         d.Name,
		Description:  d.Description,
		Category:     d.Category,
		Tier:         d.Tier,
		PointsReward: d.PointsReward,
		Icon:         d.Icon,
		Position:     position,
	}
}

// catalog is ordered by category, then by tier ascending. It is never
// modified after package initialization.
var catalog = []Definition{
	{
		Key: "week_warrior", Name: "Week Warrior", Description: "Maintain a 7-day streak",
		Category: entity.CategoryStreak, Tier: entity.TierBronze, PointsReward: RewardBronze, Icon: "🔥",
		Metric: MetricCurrentStreak, Threshold: 7,
	},
	{
		Key: "month_master", Name: "Month Master", Description: "Maintain a 30-day streak",
		Category: entity.CategoryStreak, Tier: entity.TierSilver, PointsReward: RewardSilver, Icon: "🔥",
		Metric: MetricCurrentStreak, Threshold: 30,
	},
	{
		Key: "quarter_champion", Name: "Quarter Champion", Description: "Maintain a 90-day streak",
		Category: entity.CategoryStreak, Tier: entity.TierGold, PointsReward: RewardGold, Icon: "🔥",
		Metric: MetricCurrentStreak, Threshold: 90,
	},
	{
		Key: "year_legend", Name: "Year Legend", Description: "Maintain a 365-day streak",
		Category: entity.CategoryStreak, Tier: entity.TierPlatinum, PointsReward: RewardPlatinum, Icon: "🔥",
		Metric: MetricCurrentStreak, Threshold: 365,
	},

	{
		Key: "first_habit", Name: "First Habit", Description: "Create your first habit",
		Category: entity.CategoryHabits, Tier: entity.TierBronze, PointsReward: RewardBronze, Icon: "🌱",
		Metric: MetricTotalHabits, Threshold: 1,
	},
	{
		Key: "habit_builder", Name: "Habit Builder", Description: "Create 5 habits",
		Category: entity.CategoryHabits, Tier: entity.TierSilver, PointsReward: RewardSilver, Icon: "🌱",
		Metric: MetricTotalHabits, Threshold: 5,
	},
	{
		Key: "habit_architect", Name: "Habit Architect", Description: "Create 10 habits",
		Category: entity.CategoryHabits, Tier: entity.TierGold, PointsReward: RewardGold, Icon: "🌱",
		Metric: MetricTotalHabits, Threshold: 10,
	},
	{
		Key: "habit_master", Name: "Habit Master", Description: "Create 25 habits",
		Category: entity.CategoryHabits, Tier: entity.TierPlatinum, PointsReward: RewardPlatinum, Icon: "🌱",
		Metric: MetricTotalHabits, Threshold: 25,
	},

	{
		Key: "point_starter", Name: "Point Starter", Description: "Earn 100 points",
		Category: entity.CategoryPoints, Tier: entity.TierBronze, PointsReward: RewardBronze, Icon: "⭐",
		Metric: MetricTotalPoints, Threshold: 100,
	},
	{
		Key: "point_collector", Name: "Point Collector", Description: "Earn 500 points",
		Category: entity.CategoryPoints, Tier: entity.TierSilver, PointsReward: RewardSilver, Icon: "⭐",
		Metric: MetricTotalPoints, Threshold: 500,
	},
	{
		Key: "point_hoarder", Name: "Point Hoarder", Description: "Earn 1000 points",
		Category: entity.CategoryPoints, Tier: entity.TierGold, PointsReward: RewardGold, Icon: "⭐",
		Metric: MetricTotalPoints, Threshold: 1000,
	},
	{
		Key: "point_legend", Name: "Point Legend", Description: "Earn 5000 points",
		Category: entity.CategoryPoints, Tier: entity.TierPlatinum, PointsReward: RewardPlatinum, Icon: "⭐",
		Metric: MetricTotalPoints, Threshold: 5000,
	},

	{
		Key: "consistency_starter", Name: "Consistency Starter", Description: "Complete 10 habit check-ins",
		Category: entity.CategoryConsistency, Tier: entity.TierBronze, PointsReward: RewardBronze, Icon: "✅",
		Metric: MetricTotalCompletions, Threshold: 10,
	},
	{
		Key: "consistency_builder", Name: "Consistency Builder", Description: "Complete 50 habit check-ins",
		Category: entity.CategoryConsistency, Tier: entity.TierSilver, PointsReward: RewardSilver, Icon: "✅",
		Metric: MetricTotalCompletions, Threshold: 50,
	},
	{
		Key: "consistency_pro", Name: "Consistency Pro", Description: "Complete 100 habit check-ins",
		Category: entity.CategoryConsistency, Tier: entity.TierGold, PointsReward: RewardGold, Icon: "✅",
		Metric: MetricTotalCompletions, Threshold: 100,
	},
	{
		Key: "consistency_legend", Name: "Consistency Legend", Description: "Complete 365 habit check-ins",
		Category: entity.CategoryConsistency, Tier: entity.TierPlatinum, PointsReward: RewardPlatinum, Icon: "✅",
		Metric: MetricTotalCompletions, Threshold: 365,
	},
}

// Catalog returns the definitions in evaluation order. The slice is a copy.
func Catalog() []Definition {
	return slices.Clone(catalog)
}

// Lookup finds a definition by key.
func Lookup(key string) (Definition, bool) {
	i := slices.IndexFunc(catalog, func(d Definition) bool { return d.Key == key })
	if i < 0 {
		return Definition{}, false
	}
	return catalog[i], true
}

// Entities returns the catalog in its persisted form, for seeding.
func Entities() []entity.Achievement {
	result := make([]entity.Achievement, 0, len(catalog))
	for i, d := range catalog {
		result = append(result, d.Entity(i))
	}
	return result
}
