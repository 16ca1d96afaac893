package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

type Habit struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Frequency   Frequency `json:"frequency"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CompletionLog is one check-in. LoggedOn holds the calendar day of the
// check-in (midnight), CreatedAt the exact moment it was recorded.
type CompletionLog struct {
	ID        int64     `json:"id"`
	HabitID   uuid.UUID `json:"habitId"`
	LoggedOn  time.Time `json:"date"`
	Note      string    `json:"note,omitempty"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// HabitLogDates groups the check-in days of one habit. Dates is empty for a
// habit that was never checked.
type HabitLogDates struct {
	HabitID uuid.UUID
	Dates   []time.Time
}

type HabitWithStreak struct {
	Habit
	Streak int `json:"streak"`
}

type HabitStats struct {
	ID            uuid.UUID  `json:"habitId"`
	TotalChecks   int        `json:"totalChecks"`
	CurrentStreak int        `json:"currentStreak"`
	MaxStreak     int        `json:"maxStreak"`
	LastCheck     *time.Time `json:"lastCheck,omitempty"`
}

type Category string

const (
	CategoryStreak      Category = "streak"
	CategoryHabits      Category = "habits"
	CategoryPoints      Category = "points"
	CategoryConsistency Category = "consistency"
)

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Achievement is the persisted mirror of a catalog definition.
// Position keeps the catalog's declaration order in storage.
type Achievement struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Tier         Tier     `json:"tier"`
	PointsReward int      `json:"pointsReward"`
	Icon         string   `json:"icon"`
	Position     int      `json:"-"`
}

type UserAchievement struct {
	UserID         uuid.UUID `json:"userId"`
	AchievementKey string    `json:"achievementKey"`
	UnlockedAt     time.Time `json:"unlockedAt"`
}

type UnlockedAchievement struct {
	UserAchievement
	Achievement Achievement `json:"achievement"`
}
