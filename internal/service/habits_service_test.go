package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yassen717/HabitFlow/internal/achievement"
	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/internal/repository/mocks"
	"github.com/Yassen717/HabitFlow/internal/service"
	"github.com/Yassen717/HabitFlow/pkg/clock"
	"github.com/Yassen717/HabitFlow/pkg/entity"
)

// Variables for tests
var (
	now       = time.Date(2025, time.June, 10, 18, 30, 0, 0, time.UTC)
	today     = time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	userID    = uuid.New()
	habitID   = uuid.New()
	testHabit = entity.Habit{
		ID:          habitID,
		UserID:      userID,
		Title:       "read",
		Description: "20 pages",
		Frequency:   entity.FrequencyDaily,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	firstHabitUnlock = achievement.Unlock{
		Achievement:   entity.Achievement{Key: "first_habit", Name: "First Steps", Icon: "🌱", PointsReward: 50},
		PointsAwarded: 50,
	}
)

// evaluatorFunc adapts a function to service.AchievementEvaluator.
type evaluatorFunc func(ctx context.Context, uid uuid.UUID, opts ...achievement.Override) (achievement.Result, error)

func (f evaluatorFunc) Evaluate(ctx context.Context, uid uuid.UUID, opts ...achievement.Override) (achievement.Result, error) {
	return f(ctx, uid, opts...)
}

func noUnlocks() evaluatorFunc {
	return func(context.Context, uuid.UUID, ...achievement.Override) (achievement.Result, error) {
		return achievement.Result{}, nil
	}
}

type habitsDeps struct {
	habits *mocks.MockHabitsRepositoryI
	logs   *mocks.MockCompletionLogsRepositoryI
	users  *mocks.MockUsersRepositoryI
}

func newHabitsService(t *testing.T, eval service.AchievementEvaluator) (*service.HabitsService, habitsDeps) {
	ctrl := gomock.NewController(t)
	deps := habitsDeps{
		habits: mocks.NewMockHabitsRepositoryI(ctrl),
		logs:   mocks.NewMockCompletionLogsRepositoryI(ctrl),
		users:  mocks.NewMockUsersRepositoryI(ctrl),
	}
	return service.NewHabitsService(deps.habits, deps.logs, deps.users, eval, clock.NewFixed(now)), deps
}

func TestCreateHabit(t *testing.T) {
	ctx := context.Background()

	t.Run("success with unlocked achievement", func(t *testing.T) {
		eval := evaluatorFunc(func(_ context.Context, uid uuid.UUID, opts ...achievement.Override) (achievement.Result, error) {
			assert.Equal(t, userID, uid)
			// opts carry the counted habits
			assert.Len(t, opts, 1)
			return achievement.Result{Unlocked: []achievement.Unlock{firstHabitUnlock}}, nil
		})
		hs, deps := newHabitsService(t, eval)
		deps.habits.EXPECT().Create(gomock.Any(), &entity.Habit{
			UserID:    userID,
			Title:     "read",
			Frequency: entity.FrequencyDaily,
		}).Return(habitID, nil)
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&testHabit, nil)
		deps.habits.EXPECT().CountByUserID(gomock.Any(), userID).Return(1, nil)

		res, err := hs.CreateHabit(ctx, userID, &service.CreateHabitRequest{Title: "  read  "})
		require.NoError(t, err)
		assert.Equal(t, testHabit, *res.Habit)
		assert.Equal(t, []achievement.Unlock{firstHabitUnlock}, res.NewAchievements)
	})
	t.Run("evaluation failure keeps habit and committed unlocks", func(t *testing.T) {
		eval := evaluatorFunc(func(context.Context, uuid.UUID, ...achievement.Override) (achievement.Result, error) {
			return achievement.Result{Unlocked: []achievement.Unlock{firstHabitUnlock}}, errors.New("connection reset")
		})
		hs, deps := newHabitsService(t, eval)
		deps.habits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(habitID, nil)
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&testHabit, nil)
		deps.habits.EXPECT().CountByUserID(gomock.Any(), userID).Return(0, errors.New("db error"))

		res, err := hs.CreateHabit(ctx, userID, &service.CreateHabitRequest{Title: "read", Frequency: entity.FrequencyWeekly})
		require.NoError(t, err)
		assert.Equal(t, habitID, res.Habit.ID)
		assert.Len(t, res.NewAchievements, 1)
	})
	t.Run("nothing unlocked gives empty list", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		deps.habits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(habitID, nil)
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&testHabit, nil)
		deps.habits.EXPECT().CountByUserID(gomock.Any(), userID).Return(2, nil)

		res, err := hs.CreateHabit(ctx, userID, &service.CreateHabitRequest{Title: "read"})
		require.NoError(t, err)
		assert.NotNil(t, res.NewAchievements)
		assert.Empty(t, res.NewAchievements)
	})

	validationCases := []struct {
		Desc string
		Req  service.CreateHabitRequest
	}{
		{"blank title", service.CreateHabitRequest{Title: "   "}},
		{"title too long", service.CreateHabitRequest{Title: strings.Repeat("a", 201)}},
		{"unknown frequency", service.CreateHabitRequest{Title: "read", Frequency: "monthly"}},
	}
	for _, tc := range validationCases {
		t.Run(tc.Desc, func(t *testing.T) {
			hs, _ := newHabitsService(t, noUnlocks())
			_, err := hs.CreateHabit(ctx, userID, &tc.Req)
			assert.ErrorIs(t, err, errorvalues.ErrValidation)
		})
	}

	t.Run("owner not found", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		deps.habits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.Nil, errorvalues.ErrOwnerNotFound)
		_, err := hs.CreateHabit(ctx, userID, &service.CreateHabitRequest{Title: "read"})
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestGetUserHabits(t *testing.T) {
	ctx := context.Background()
	second := testHabit
	second.ID = uuid.New()
	second.Title = "run"

	t.Run("page with streaks", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		deps.users.EXPECT().FindByID(gomock.Any(), userID).Return(&entity.User{ID: userID, Points: 140}, nil)
		deps.habits.EXPECT().GetByUserID(gomock.Any(), userID, 2, 2).Return([]*entity.Habit{&testHabit, &second}, nil)
		deps.habits.EXPECT().CountByUserID(gomock.Any(), userID).Return(5, nil)
		deps.logs.EXPECT().GetDatesByHabitID(gomock.Any(), habitID).
			Return([]time.Time{today, today.AddDate(0, 0, -1), today.AddDate(0, 0, -2)}, nil)
		deps.logs.EXPECT().GetDatesByHabitID(gomock.Any(), second.ID).
			Return([]time.Time{today.AddDate(0, 0, -3)}, nil)

		page, err := hs.GetUserHabits(ctx, userID, service.PaginationOpts{Page: 2, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page.Habits, 2)
		assert.Equal(t, 3, page.Habits[0].Streak)
		assert.Equal(t, 0, page.Habits[1].Streak)
		assert.Equal(t, 140, page.UserPoints)
		assert.Equal(t, service.Pagination{Page: 2, Limit: 2, TotalCount: 5, TotalPages: 3}, page.Pagination)
	})
	t.Run("defaults applied", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		deps.users.EXPECT().FindByID(gomock.Any(), userID).Return(&entity.User{ID: userID}, nil)
		deps.habits.EXPECT().GetByUserID(gomock.Any(), userID, service.DefaultPageLimit, 0).Return([]*entity.Habit{}, nil)
		deps.habits.EXPECT().CountByUserID(gomock.Any(), userID).Return(0, nil)

		page, err := hs.GetUserHabits(ctx, userID, service.PaginationOpts{})
		require.NoError(t, err)
		assert.Empty(t, page.Habits)
		assert.Equal(t, 0, page.Pagination.TotalPages)
		assert.Equal(t, 1, page.Pagination.Page)
	})
	t.Run("unknown user", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		deps.users.EXPECT().FindByID(gomock.Any(), userID).Return(nil, errorvalues.ErrUserNotFound)
		_, err := hs.GetUserHabits(ctx, userID, service.PaginationOpts{})
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestGetHabit(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		Desc         string
		Error        error
		MockPrepFunc func(deps habitsDeps)
	}{
		{
			Desc: "success",
			MockPrepFunc: func(deps habitsDeps) {
				deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&testHabit, nil)
				deps.logs.EXPECT().GetDatesByHabitID(gomock.Any(), habitID).Return([]time.Time{today.AddDate(0, 0, -1)}, nil)
			},
		},
		{
			Desc:  "error wrong owner",
			Error: errorvalues.ErrWrongOwner,
			MockPrepFunc: func(deps habitsDeps) {
				other := testHabit
				other.UserID = uuid.New()
				deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&other, nil)
			},
		},
		{
			Desc:  "error habit not found",
			Error: errorvalues.ErrHabitNotFound,
			MockPrepFunc: func(deps habitsDeps) {
				deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(nil, errorvalues.ErrHabitNotFound)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			hs, deps := newHabitsService(t, noUnlocks())
			tc.MockPrepFunc(deps)
			h, err := hs.GetHabit(ctx, habitID, userID)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, h.Streak)
			assert.Equal(t, testHabit, h.Habit)
		})
	}
}

func TestUpdateHabit(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to update", func(t *testing.T) {
		hs, _ := newHabitsService(t, noUnlocks())
		_, err := hs.UpdateHabit(ctx, habitID, userID, &service.UpdateHabitRequest{})
		assert.ErrorIs(t, err, errorvalues.ErrNothingToUpdate)
	})
	t.Run("success", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		weekly := entity.FrequencyWeekly
		updated := testHabit
		updated.Title = "read more"
		updated.Frequency = weekly
		current := testHabit
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&current, nil)
		deps.habits.EXPECT().Update(gomock.Any(), &updated).Return(nil)
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&updated, nil)

		h, err := hs.UpdateHabit(ctx, habitID, userID, &service.UpdateHabitRequest{
			Title:     strPtr(" read more "),
			Frequency: &weekly,
		})
		require.NoError(t, err)
		assert.Equal(t, updated, *h)
	})
	t.Run("wrong owner", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		other := testHabit
		other.UserID = uuid.New()
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&other, nil)
		_, err := hs.UpdateHabit(ctx, habitID, userID, &service.UpdateHabitRequest{Title: strPtr("x")})
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}

func TestDeleteHabit(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&testHabit, nil)
		deps.habits.EXPECT().Delete(gomock.Any(), habitID).Return(nil)
		assert.NoError(t, hs.DeleteHabit(ctx, habitID, userID))
	})
	t.Run("wrong owner", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&testHabit, nil)
		assert.ErrorIs(t, hs.DeleteHabit(ctx, habitID, uuid.New()), errorvalues.ErrWrongOwner)
	})
	t.Run("db error", func(t *testing.T) {
		hs, deps := newHabitsService(t, noUnlocks())
		deps.habits.EXPECT().GetByID(gomock.Any(), habitID).Return(&testHabit, nil)
		deps.habits.EXPECT().Delete(gomock.Any(), habitID).Return(errors.New("db error"))
		assert.Error(t, hs.DeleteHabit(ctx, habitID, userID))
	})
}
