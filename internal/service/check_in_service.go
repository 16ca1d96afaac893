package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Yassen717/HabitFlow/internal/achievement"
	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/internal/streak"
	"github.com/Yassen717/HabitFlow/pkg/clock"
	"github.com/Yassen717/HabitFlow/pkg/entity"
	"github.com/Yassen717/HabitFlow/pkg/logging"
)

const (
	checkInMessage = "Habit logged successfully"
	// Range used by GetHabitLogs when from is omitted
	defaultLogsWindowDays = 30
)

type CheckInService struct {
	habitsRepo repository.HabitsRepositoryI
	logsRepo   repository.CompletionLogsRepositoryI
	evaluator  AchievementEvaluator
	clock      clock.Clock
}

func NewCheckInService(
	habitsRepo repository.HabitsRepositoryI,
	logsRepo repository.CompletionLogsRepositoryI,
	evaluator AchievementEvaluator,
	clk clock.Clock,
) *CheckInService {
	if habitsRepo == nil || logsRepo == nil {
		log.Fatal("on check-in service provided nil repos")
	}
	if evaluator == nil {
		log.Fatal("on check-in service provided nil achievement evaluator")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &CheckInService{
		habitsRepo: habitsRepo,
		logsRepo:   logsRepo,
		evaluator:  evaluator,
		clock:      clk,
	}
}

// CheckIn records today's completion of habitID. At most one log per habit
// and calendar day is accepted.
func (serv *CheckInService) CheckIn(ctx context.Context, habitID, uid uuid.UUID, req *CheckInRequest) (*CheckInResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := ownedHabit(ctx, serv.habitsRepo, habitID, uid); err != nil {
		return nil, err
	}
	today := streak.Day(serv.clock.Now())
	exists, err := serv.logsRepo.ExistsOnDay(ctx, habitID, today)
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	if exists {
		return nil, errorvalues.ErrAlreadyLoggedToday
	}

	entry := entity.CompletionLog{
		HabitID:  habitID,
		LoggedOn: today,
		Note:     req.Note,
	}
	points, err := serv.logsRepo.LogCompletion(ctx, uid, &entry, CheckInReward)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrAlreadyLoggedToday),
			errors.Is(err, errorvalues.ErrHabitNotFound),
			errors.Is(err, errorvalues.ErrUserNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("repository error: %w", err)
	}

	logger := logging.FromContext(ctx).With(slog.String("habit_id", habitID.String()))
	logger.Info("habit checked in", slog.Int("points", points))

	res, err := serv.evaluator.Evaluate(ctx, uid, achievement.WithTotalPoints(points))
	if err != nil {
		logger.Error("evaluating achievements after check-in failed", slog.String("error", err.Error()))
	}
	return &CheckInResult{
		Log:             &entry,
		UserPoints:      points + res.TotalPoints(),
		Message:         checkInMessage,
		NewAchievements: append(make([]achievement.Unlock, 0, len(res.Unlocked)), res.Unlocked...),
	}, nil
}

// GetHabitLogs lists logs of habitID between from and to, both ends included.
// Zero to means today, zero from means the 30 days ending at to.
func (serv *CheckInService) GetHabitLogs(ctx context.Context, habitID, uid uuid.UUID, from, to time.Time) ([]entity.CompletionLog, error) {
	if to.IsZero() {
		to = serv.clock.Now()
	}
	to = streak.Day(to)
	if from.IsZero() {
		from = to.AddDate(0, 0, -(defaultLogsWindowDays - 1))
	}
	from = streak.Day(from)
	if from.After(to) {
		return nil, errorvalues.ErrInvalidDateRange
	}
	if _, err := ownedHabit(ctx, serv.habitsRepo, habitID, uid); err != nil {
		return nil, err
	}
	logs, err := serv.logsRepo.GetByHabitAndDateRange(ctx, habitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	return logs, nil
}

func (serv *CheckInService) GetHabitStats(ctx context.Context, habitID, uid uuid.UUID) (*entity.HabitStats, error) {
	if _, err := ownedHabit(ctx, serv.habitsRepo, habitID, uid); err != nil {
		return nil, err
	}
	total, err := serv.logsRepo.CountByHabitID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	dates, err := serv.logsRepo.GetDatesByHabitID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	stats := &entity.HabitStats{
		ID:            habitID,
		TotalChecks:   total,
		CurrentStreak: streak.Compute(dates, serv.clock.Now()),
		MaxStreak:     streak.Longest(dates),
	}
	if len(dates) > 0 {
		last := dates[0]
		for _, d := range dates[1:] {
			if d.After(last) {
				last = d
			}
		}
		stats.LastCheck = &last
	}
	return stats, nil
}
