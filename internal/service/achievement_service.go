package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Yassen717/HabitFlow/internal/achievement"
	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/pkg/entity"
	"github.com/Yassen717/HabitFlow/pkg/logging"
)

type AchievementService struct {
	repo      repository.AchievementsRepositoryI
	usersRepo repository.UsersRepositoryI
}

func NewAchievementService(achievementsRepo repository.AchievementsRepositoryI, usersRepo repository.UsersRepositoryI) *AchievementService {
	if achievementsRepo == nil || usersRepo == nil {
		log.Fatal("on achievement service provided nil repos")
	}
	return &AchievementService{
		repo:      achievementsRepo,
		usersRepo: usersRepo,
	}
}

func (as *AchievementService) Seed(ctx context.Context) error {
	entities := achievement.Entities()
	if err := as.repo.Upsert(ctx, entities); err != nil {
		return fmt.Errorf("seeding achievements error: %w", err)
	}
	logging.FromContext(ctx).Info("achievement catalog seeded", "count", len(entities))
	return nil
}

// Catalog lists stored achievements, seeding the table first when it is empty.
func (as *AchievementService) Catalog(ctx context.Context) ([]entity.Achievement, error) {
	list, err := as.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	if len(list) > 0 {
		return list, nil
	}
	if err = as.Seed(ctx); err != nil {
		return nil, err
	}
	list, err = as.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	return list, nil
}

func (as *AchievementService) UserAchievements(ctx context.Context, uid uuid.UUID) ([]entity.UnlockedAchievement, error) {
	if _, err := as.usersRepo.FindByID(ctx, uid); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("repository error: %w", err)
	}
	unlocked, err := as.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	return unlocked, nil
}
