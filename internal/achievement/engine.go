// Package achievement holds the achievement catalog and the engine that
// unlocks catalog entries for a user.
//
// Unlocks are at most once per (user, key). The engine skips keys the user
// already has, and relies on the store's unique constraint to settle races
// between concurrent evaluations for the same user: a losing insert reports
// errorvalues.ErrAchievementUnlocked and is not counted.
package achievement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/internal/streak"
	"github.com/Yassen717/HabitFlow/pkg/clock"
	"github.com/Yassen717/HabitFlow/pkg/entity"
	"github.com/Yassen717/HabitFlow/pkg/logging"
)

type UserReader interface {
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
}

type ProgressReader interface {
	// Check-in days of every habit owned by uid, habits without logs included
	GetDatesByUserID(ctx context.Context, uid uuid.UUID) ([]entity.HabitLogDates, error)
}

type Store interface {
	UnlockedKeys(ctx context.Context, uid uuid.UUID) ([]string, error)
	GetByKey(ctx context.Context, key string) (*entity.Achievement, error)
	// Records the unlock and adds reward to the user's points atomically
	Unlock(ctx context.Context, uid uuid.UUID, key string, reward int) (*entity.UserAchievement, error)
}

// Stats is the per-user snapshot definitions are tested against.
type Stats struct {
	UserID           uuid.UUID
	CurrentStreak    int
	TotalHabits      int
	TotalPoints      int
	TotalCompletions int
}

func (s Stats) Value(m Metric) int {
	switch m {
	case MetricCurrentStreak:
		return s.CurrentStreak
	case MetricTotalHabits:
		return s.TotalHabits
	case MetricTotalPoints:
		return s.TotalPoints
	case MetricTotalCompletions:
		return s.TotalCompletions
	}
	return 0
}

// Override replaces one computed aggregate with a caller-supplied value.
type Override func(*overrides)

type overrides struct {
	currentStreak    *int
	totalHabits      *int
	totalPoints      *int
	totalCompletions *int
}

func WithCurrentStreak(n int) Override {
	return func(o *overrides) { o.currentStreak = &n }
}

func WithTotalHabits(n int) Override {
	return func(o *overrides) { o.totalHabits = &n }
}

func WithTotalPoints(n int) Override {
	return func(o *overrides) { o.totalPoints = &n }
}

func WithTotalCompletions(n int) Override {
	return func(o *overrides) { o.totalCompletions = &n }
}

func (o *overrides) needProgress() bool {
	return o.currentStreak == nil || o.totalHabits == nil || o.totalCompletions == nil
}

type Unlock struct {
	Achievement   entity.Achievement `json:"achievement"`
	PointsAwarded int                `json:"pointsAwarded"`
	UnlockedAt    time.Time          `json:"-"`
}

// Result lists the achievements unlocked by one evaluation, in catalog order.
// An empty Result with a nil error means nothing new was earned.
type Result struct {
	Unlocked []Unlock
}

func (r Result) TotalPoints() int {
	total := 0
	for _, u := range r.Unlocked {
		total += u.PointsAwarded
	}
	return total
}

func (r Result) Keys() []string {
	keys := make([]string, 0, len(r.Unlocked))
	for _, u := range r.Unlocked {
		keys = append(keys, u.Achievement.Key)
	}
	return keys
}

type Engine struct {
	users    UserReader
	progress ProgressReader
	store    Store
	clock    clock.Clock
}

func NewEngine(users UserReader, progress ProgressReader, store Store, clk clock.Clock) *Engine {
	if users == nil || progress == nil || store == nil {
		log.Fatal("on achievement engine provided nil repos")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Engine{
		users:    users,
		progress: progress,
		store:    store,
		clock:    clk,
	}
}

// Evaluate unlocks every catalog entry the user newly satisfies and awards
// its points. A user that no longer exists yields an empty Result and no
// error. On a store failure the unlocks committed so far are returned along
// with the error.
func (e *Engine) Evaluate(ctx context.Context, userID uuid.UUID, opts ...Override) (Result, error) {
	logger := logging.FromContext(ctx).With(slog.String("uid", userID.String()))
	var res Result

	keys, err := e.store.UnlockedKeys(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("loading unlocked achievements: %w", err)
	}
	unlocked := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		unlocked[k] = struct{}{}
	}

	stats, err := e.resolveStats(ctx, userID, opts)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Debug("achievement evaluation skipped: user not found")
			return res, nil
		}
		return res, err
	}

	for _, def := range catalog {
		if _, ok := unlocked[def.Key]; ok {
			continue
		}
		if !def.Satisfied(stats) {
			continue
		}
		record, err := e.store.GetByKey(ctx, def.Key)
		if err != nil {
			if errors.Is(err, errorvalues.ErrAchievementNotFound) {
				logger.Warn("achievement is not seeded, skipping", slog.String("key", def.Key))
				continue
			}
			return res, fmt.Errorf("loading achievement %s: %w", def.Key, err)
		}
		ua, err := e.store.Unlock(ctx, userID, def.Key, def.PointsReward)
		if err != nil {
			switch {
			case errors.Is(err, errorvalues.ErrAchievementUnlocked):
				logger.Debug("achievement unlocked by a concurrent evaluation", slog.String("key", def.Key))
				continue
			case errors.Is(err, errorvalues.ErrUserNotFound):
				logger.Debug("user removed during achievement evaluation")
				return res, nil
			}
			return res, fmt.Errorf("unlocking achievement %s: %w", def.Key, err)
		}
		record.Icon = def.Icon
		res.Unlocked = append(res.Unlocked, Unlock{
			Achievement:   *record,
			PointsAwarded: def.PointsReward,
			UnlockedAt:    ua.UnlockedAt,
		})
		logger.Info("achievement unlocked",
			slog.String("key", def.Key),
			slog.Int("points", def.PointsReward),
		)
	}
	return res, nil
}

// Stats resolves the aggregates for userID; opts take precedence over
// computed values.
func (e *Engine) Stats(ctx context.Context, userID uuid.UUID, opts ...Override) (Stats, error) {
	return e.resolveStats(ctx, userID, opts)
}

func (e *Engine) resolveStats(ctx context.Context, userID uuid.UUID, opts []Override) (Stats, error) {
	var o overrides
	for _, opt := range opts {
		opt(&o)
	}
	stats := Stats{UserID: userID}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return stats, err
		}
		return stats, fmt.Errorf("loading user: %w", err)
	}
	stats.TotalPoints = user.Points

	if o.needProgress() {
		habits, err := e.progress.GetDatesByUserID(ctx, userID)
		if err != nil {
			return stats, fmt.Errorf("loading check-ins: %w", err)
		}
		now := e.clock.Now()
		stats.TotalHabits = len(habits)
		for _, h := range habits {
			stats.TotalCompletions += len(h.Dates)
			stats.CurrentStreak = max(stats.CurrentStreak, streak.Compute(h.Dates, now))
		}
	}

	if o.currentStreak != nil {
		stats.CurrentStreak = *o.currentStreak
	}
	if o.totalHabits != nil {
		stats.TotalHabits = *o.totalHabits
	}
	if o.totalPoints != nil {
		stats.TotalPoints = *o.totalPoints
	}
	if o.totalCompletions != nil {
		stats.TotalCompletions = *o.totalCompletions
	}
	return stats, nil
}
