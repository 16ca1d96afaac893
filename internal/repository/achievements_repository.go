package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/pkg/entity"
)

const userAchievementsUserFK = "user_achievements_user_id_fkey"

type AchievementsRepository struct {
	conn PgConnection
}

func NewAchievementsRepo(conn PgConnection) *AchievementsRepository {
	return &AchievementsRepository{
		conn: conn,
	}
}

func (ar *AchievementsRepository) Upsert(ctx context.Context, achievements []entity.Achievement) error {
	tx, err := ar.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting tx error: %w", err)
	}
	for _, a := range achievements {
		_, err = tx.Exec(ctx, `INSERT INTO achievements (key, name, description, category, tier, points_reward, icon, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category,
			tier = EXCLUDED.tier, points_reward = EXCLUDED.points_reward, icon = EXCLUDED.icon, position = EXCLUDED.position;`,
			a.Key, a.Name, a.Description, string(a.Category), string(a.Tier), a.PointsReward, a.Icon, a.Position,
		)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("upserting achievement %s error: %w", a.Key, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing achievements error: %w", err)
	}
	return nil
}

func (ar *AchievementsRepository) List(ctx context.Context) ([]entity.Achievement, error) {
	rows, err := ar.conn.Query(ctx, `SELECT key, name, description, category, tier, points_reward, icon, position FROM achievements ORDER BY position;`)
	if err != nil {
		return nil, fmt.Errorf("listing achievements error: %w", err)
	}
	defer rows.Close()
	achievements := make([]entity.Achievement, 0)
	for rows.Next() {
		var a entity.Achievement
		if err = rows.Scan(&a.Key, &a.Name, &a.Description, &a.Category, &a.Tier, &a.PointsReward, &a.Icon, &a.Position); err != nil {
			return nil, fmt.Errorf("unmarshalling achievement error: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected error after scanning: %w", err)
	}
	return achievements, nil
}

func (ar *AchievementsRepository) GetByKey(ctx context.Context, key string) (*entity.Achievement, error) {
	a := entity.Achievement{Key: key}
	row := ar.conn.QueryRow(ctx, `SELECT name, description, category, tier, points_reward, icon, position FROM achievements WHERE key = $1;`, key)
	if err := row.Scan(&a.Name, &a.Description, &a.Category, &a.Tier, &a.PointsReward, &a.Icon, &a.Position); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrAchievementNotFound
		}
		return nil, fmt.Errorf("getting achievement by key error: %w", err)
	}
	return &a, nil
}

func (ar *AchievementsRepository) UnlockedKeys(ctx context.Context, uid uuid.UUID) ([]string, error) {
	rows, err := ar.conn.Query(ctx, `SELECT achievement_key FROM user_achievements WHERE user_id = $1;`, uid)
	if err != nil {
		return nil, fmt.Errorf("getting unlocked keys error: %w", err)
	}
	defer rows.Close()
	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("unmarshalling unlocked key error: %w", err)
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected error after scanning: %w", err)
	}
	return keys, nil
}

func (ar *AchievementsRepository) Unlock(ctx context.Context, uid uuid.UUID, key string, reward int) (*entity.UserAchievement, error) {
	tx, err := ar.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting tx error: %w", err)
	}
	ua := entity.UserAchievement{UserID: uid, AchievementKey: key}
	row := tx.QueryRow(ctx, `INSERT INTO user_achievements (user_id, achievement_key) VALUES ($1, $2) RETURNING unlocked_at;`, uid, key)
	if err = row.Scan(&ua.UnlockedAt); err != nil {
		_ = tx.Rollback(ctx)
		code, constraint := pgCode(err)
		switch {
		case code == codeUniqueViolation:
			return nil, errorvalues.ErrAchievementUnlocked
		case code == codeFKViolation && constraint == userAchievementsUserFK:
			return nil, errorvalues.ErrUserNotFound
		case code == codeFKViolation:
			return nil, errorvalues.ErrAchievementNotFound
		}
		return nil, fmt.Errorf("unlocking achievement error: %w", err)
	}
	ct, err := tx.Exec(ctx, `UPDATE users SET points = points + $1 WHERE id = $2;`, reward, uid)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("rewarding achievement error: %w", err)
	}
	if ct.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return nil, errorvalues.ErrUserNotFound
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing unlock error: %w", err)
	}
	return &ua, nil
}

func (ar *AchievementsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.UnlockedAchievement, error) {
	rows, err := ar.conn.Query(ctx, `SELECT ua.achievement_key, ua.unlocked_at, a.name, a.description, a.category, a.tier, a.points_reward, a.icon, a.position
		FROM user_achievements ua JOIN achievements a ON a.key = ua.achievement_key
		WHERE ua.user_id = $1 ORDER BY ua.unlocked_at DESC;`, uid)
	if err != nil {
		return nil, fmt.Errorf("getting user achievements error: %w", err)
	}
	defer rows.Close()
	result := make([]entity.UnlockedAchievement, 0)
	for rows.Next() {
		ua := entity.UnlockedAchievement{UserAchievement: entity.UserAchievement{UserID: uid}}
		a := &ua.Achievement
		err = rows.Scan(&ua.AchievementKey, &ua.UnlockedAt, &a.Name, &a.Description, &a.Category, &a.Tier, &a.PointsReward, &a.Icon, &a.Position)
		if err != nil {
			return nil, fmt.Errorf("unmarshalling user achievement error: %w", err)
		}
		a.Key = ua.AchievementKey
		result = append(result, ua)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected error after scanning: %w", err)
	}
	return result, nil
}
