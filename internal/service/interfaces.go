package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Yassen717/HabitFlow/internal/achievement"
	"github.com/Yassen717/HabitFlow/pkg/entity"
)

const (
	// Points granted for every completion log
	CheckInReward = 10

	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Nil fields are left untouched
type UpdateProfileRequest struct {
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Name  *string `json:"name" validate:"omitempty,notblank,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type CreateHabitRequest struct {
	Title       string           `json:"title" validate:"required,notblank,max=200"`
	Description string           `json:"description" validate:"max=500"`
	Frequency   entity.Frequency `json:"frequency" validate:"omitempty,frequency"`
}

// Nil fields are left untouched
type UpdateHabitRequest struct {
	Title       *string           `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string           `json:"description" validate:"omitempty,max=500"`
	Frequency   *entity.Frequency `json:"frequency" validate:"omitempty,frequency"`
}

type CheckInRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type PaginationOpts struct {
	Page  int
	Limit int
}

// Normalized returns opts with page >= 1 and limit in [1, MaxPageLimit].
func (p PaginationOpts) Normalized() PaginationOpts {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p PaginationOpts) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

type HabitsPage struct {
	Habits     []entity.HabitWithStreak `json:"habits"`
	UserPoints int                      `json:"userPoints"`
	Pagination Pagination               `json:"pagination"`
}

type CreateHabitResult struct {
	Habit           *entity.Habit        `json:"habit"`
	NewAchievements []achievement.Unlock `json:"newAchievements"`
}

type CheckInResult struct {
	Log             *entity.CompletionLog `json:"log"`
	UserPoints      int                   `json:"userPoints"`
	Message         string                `json:"message"`
	NewAchievements []achievement.Unlock  `json:"newAchievements"`
}

// Satisfied by *achievement.Engine
type AchievementEvaluator interface {
	Evaluate(ctx context.Context, userID uuid.UUID, opts ...achievement.Override) (achievement.Result, error)
}

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks . UserServiceI,HabitsServiceI,CheckInServiceI,AchievementServiceI

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, req *LoginRequest) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*entity.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req *ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type HabitsServiceI interface {
	// Creates habit and evaluates achievements for its owner
	CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*CreateHabitResult, error)
	// Lists a page of user's habits with their current streaks
	GetUserHabits(ctx context.Context, uid uuid.UUID, opts PaginationOpts) (*HabitsPage, error)
	GetHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.HabitWithStreak, error)
	UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req *UpdateHabitRequest) (*entity.Habit, error)
	DeleteHabit(ctx context.Context, habitID, uid uuid.UUID) error
}

type CheckInServiceI interface {
	// Logs today's completion, rewards points and evaluates achievements
	CheckIn(ctx context.Context, habitID, uid uuid.UUID, req *CheckInRequest) (*CheckInResult, error)
	GetHabitLogs(ctx context.Context, habitID, uid uuid.UUID, from, to time.Time) ([]entity.CompletionLog, error)
	GetHabitStats(ctx context.Context, habitID, uid uuid.UUID) (*entity.HabitStats, error)
}

type AchievementServiceI interface {
	// Upserts compiled-in catalog into storage
	Seed(ctx context.Context) error
	Catalog(ctx context.Context) ([]entity.Achievement, error)
	UserAchievements(ctx context.Context, uid uuid.UUID) ([]entity.UnlockedAchievement, error)
}
