package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/internal/repository"
	"github.com/Yassen717/HabitFlow/pkg/entity"
)

var weekWarrior = entity.Achievement{
	Key:          "week_warrior",
	Name:         "Week Warrior",
	Description:  "Maintain a 7-day streak",
	Category:     entity.CategoryStreak,
	Tier:         entity.TierBronze,
	PointsReward: 50,
	Icon:         "🔥",
	Position:     0,
}

func TestUpsertAchievements(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAchievementsRepo(mock)
	query := regexp.QuoteMeta(`INSERT INTO achievements (key, name, description, category, tier, points_reward, icon, position)`)
	a := weekWarrior
	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(query).
			WithArgs(a.Key, a.Name, a.Description, "streak", "bronze", a.PointsReward, a.Icon, a.Position).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		assert.NoError(t, repo.Upsert(context.Background(), []entity.Achievement{a}))
	})
	t.Run("db error rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(query).
			WithArgs(a.Key, a.Name, a.Description, "streak", "bronze", a.PointsReward, a.Icon, a.Position).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()
		assert.Error(t, repo.Upsert(context.Background(), []entity.Achievement{a}))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAchievements(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAchievementsRepo(mock)
	a := weekWarrior
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, name, description, category, tier, points_reward, icon, position FROM achievements ORDER BY position;`)).
		WillReturnRows(pgxmock.NewRows([]string{"key", "name", "description", "category", "tier", "points_reward", "icon", "position"}).
			AddRow(a.Key, a.Name, a.Description, a.Category, a.Tier, a.PointsReward, a.Icon, a.Position))
	result, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []entity.Achievement{a}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAchievementByKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAchievementsRepo(mock)
	a := weekWarrior
	query := regexp.QuoteMeta(`SELECT name, description, category, tier, points_reward, icon, position FROM achievements WHERE key = $1;`)
	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(a.Key).
			WillReturnRows(pgxmock.NewRows([]string{"name", "description", "category", "tier", "points_reward", "icon", "position"}).
				AddRow(a.Name, a.Description, a.Category, a.Tier, a.PointsReward, a.Icon, a.Position))
		result, err := repo.GetByKey(context.Background(), a.Key)
		assert.NoError(t, err)
		assert.Equal(t, a, *result)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("nope").WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByKey(context.Background(), "nope")
		assert.ErrorIs(t, err, errorvalues.ErrAchievementNotFound)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockedKeys(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAchievementsRepo(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT achievement_key FROM user_achievements WHERE user_id = $1;`)).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"achievement_key"}).AddRow("first_habit").AddRow("week_warrior"))
	keys, err := repo.UnlockedKeys(context.Background(), userID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"first_habit", "week_warrior"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockAchievement(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAchievementsRepo(mock)
	ctx := context.Background()
	insert := regexp.QuoteMeta(`INSERT INTO user_achievements (user_id, achievement_key) VALUES ($1, $2) RETURNING unlocked_at;`)
	reward := regexp.QuoteMeta(`UPDATE users SET points = points + $1 WHERE id = $2;`)
	key := "week_warrior"

	t.Run("success", func(t *testing.T) {
		at := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(insert).WithArgs(userID, key).WillReturnRows(pgxmock.NewRows([]string{"unlocked_at"}).AddRow(at))
		mock.ExpectExec(reward).WithArgs(50, userID).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()
		ua, err := repo.Unlock(ctx, userID, key, 50)
		require.NoError(t, err)
		assert.Equal(t, entity.UserAchievement{UserID: userID, AchievementKey: key, UnlockedAt: at}, *ua)
	})

	cases := []struct {
		Desc  string
		PgErr *pgconn.PgError
		Error error
	}{
		{"already unlocked", &pgconn.PgError{Code: "23505"}, errorvalues.ErrAchievementUnlocked},
		{"unknown user", &pgconn.PgError{Code: "23503", ConstraintName: "user_achievements_user_id_fkey"}, errorvalues.ErrUserNotFound},
		{"unknown achievement", &pgconn.PgError{Code: "23503", ConstraintName: "user_achievements_achievement_key_fkey"}, errorvalues.ErrAchievementNotFound},
	}
	for _, c := range cases {
		t.Run(c.Desc, func(t *testing.T) {
			mock.ExpectBegin()
			mock.ExpectQuery(insert).WithArgs(userID, key).WillReturnError(c.PgErr)
			mock.ExpectRollback()
			_, err := repo.Unlock(ctx, userID, key, 50)
			assert.ErrorIs(t, err, c.Error)
		})
	}

	t.Run("user vanished before reward", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(insert).WithArgs(userID, key).WillReturnRows(pgxmock.NewRows([]string{"unlocked_at"}).AddRow(time.Now()))
		mock.ExpectExec(reward).WithArgs(50, userID).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()
		_, err := repo.Unlock(ctx, userID, key, 50)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserAchievements(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAchievementsRepo(mock)
	a := weekWarrior
	at := time.Now()
	query := regexp.QuoteMeta(`SELECT ua.achievement_key, ua.unlocked_at, a.name, a.description, a.category, a.tier, a.points_reward, a.icon, a.position
		FROM user_achievements ua JOIN achievements a ON a.key = ua.achievement_key
		WHERE ua.user_id = $1 ORDER BY ua.unlocked_at DESC;`)
	mock.ExpectQuery(query).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"achievement_key", "unlocked_at", "name", "description", "category", "tier", "points_reward", "icon", "position"}).
			AddRow(a.Key, at, a.Name, a.Description, a.Category, a.Tier, a.PointsReward, a.Icon, a.Position))
	result, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, entity.UnlockedAchievement{
		UserAchievement: entity.UserAchievement{UserID: userID, AchievementKey: a.Key, UnlockedAt: at},
		Achievement:     a,
	}, result[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
