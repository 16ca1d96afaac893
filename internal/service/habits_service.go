package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Yassen717/HabitFlow/internal/achievement"
	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/internal/streak"
	"github.com/Yassen717/HabitFlow/pkg/clock"
	"github.com/Yassen717/HabitFlow/pkg/entity"
	"github.com/Yassen717/HabitFlow/pkg/logging"
)

type HabitsService struct {
	repo      repository.HabitsRepositoryI
	logsRepo  repository.CompletionLogsRepositoryI
	usersRepo repository.UsersRepositoryI
	evaluator AchievementEvaluator
	clock     clock.Clock
}

func NewHabitsService(
	habitsRepo repository.HabitsRepositoryI,
	logsRepo repository.CompletionLogsRepositoryI,
	usersRepo repository.UsersRepositoryI,
	evaluator AchievementEvaluator,
	clk clock.Clock,
) *HabitsService {
	if habitsRepo == nil || logsRepo == nil || usersRepo == nil {
		log.Fatal("on habits service provided nil repos")
	}
	if evaluator == nil {
		log.Fatal("on habits service provided nil achievement evaluator")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &HabitsService{
		repo:      habitsRepo,
		logsRepo:  logsRepo,
		usersRepo: usersRepo,
		evaluator: evaluator,
		clock:     clk,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*CreateHabitResult, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Frequency == "" {
		req.Frequency = entity.FrequencyDaily
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	h := entity.Habit{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
	}
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}

	logger := logging.FromContext(ctx)
	var opts []achievement.Override
	if count, err := hs.repo.CountByUserID(ctx, uid); err != nil {
		logger.Warn("counting habits for achievements failed", slog.String("error", err.Error()))
	} else {
		opts = append(opts, achievement.WithTotalHabits(count))
	}
	res, err := hs.evaluator.Evaluate(ctx, uid, opts...)
	if err != nil {
		logger.Error("evaluating achievements after habit creation failed", slog.String("error", err.Error()))
	}
	return &CreateHabitResult{
		Habit:           habit,
		NewAchievements: append(make([]achievement.Unlock, 0, len(res.Unlocked)), res.Unlocked...),
	}, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID, opts PaginationOpts) (*HabitsPage, error) {
	opts = opts.Normalized()
	user, err := hs.usersRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("users repository error: %w", err)
	}
	habits, err := hs.repo.GetByUserID(ctx, uid, opts.Limit, opts.Offset())
	if err != nil {
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	total, err := hs.repo.CountByUserID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	now := hs.clock.Now()
	page := &HabitsPage{
		Habits:     make([]entity.HabitWithStreak, 0, len(habits)),
		UserPoints: user.Points,
		Pagination: Pagination{
			Page:       opts.Page,
			Limit:      opts.Limit,
			TotalCount: total,
			TotalPages: (total + opts.Limit - 1) / opts.Limit,
		},
	}
	for _, h := range habits {
		dates, err := hs.logsRepo.GetDatesByHabitID(ctx, h.ID)
		if err != nil {
			return nil, fmt.Errorf("logs repository error: %w", err)
		}
		page.Habits = append(page.Habits, entity.HabitWithStreak{
			Habit:  *h,
			Streak: streak.Compute(dates, now),
		})
	}
	return page, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.HabitWithStreak, error) {
	habit, err := ownedHabit(ctx, hs.repo, habitID, uid)
	if err != nil {
		return nil, err
	}
	dates, err := hs.logsRepo.GetDatesByHabitID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("logs repository error: %w", err)
	}
	return &entity.HabitWithStreak{
		Habit:  *habit,
		Streak: streak.Compute(dates, hs.clock.Now()),
	}, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req *UpdateHabitRequest) (*entity.Habit, error) {
	if req.Title == nil && req.Description == nil && req.Frequency == nil {
		return nil, errorvalues.ErrNothingToUpdate
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		req.Description = &description
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	habit, err := ownedHabit(ctx, hs.repo, habitID, uid)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		habit.Title = *req.Title
	}
	if req.Description != nil {
		habit.Description = *req.Description
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if err = hs.repo.Update(ctx, habit); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	updated, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	return updated, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, uid uuid.UUID) error {
	if _, err := ownedHabit(ctx, hs.repo, habitID, uid); err != nil {
		return err
	}
	err := hs.repo.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return fmt.Errorf("habits repository error: %w", err)
	}
	return nil
}

// ownedHabit loads habitID and makes sure it belongs to uid.
func ownedHabit(ctx context.Context, repo repository.HabitsRepositoryI, habitID, uid uuid.UUID) (*entity.Habit, error) {
	habit, err := repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	if habit.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}
