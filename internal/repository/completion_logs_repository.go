package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/pkg/entity"
)

type CompletionLogsRepository struct {
	conn PgConnection
}

func NewCompletionLogsRepo(conn PgConnection) *CompletionLogsRepository {
	return &CompletionLogsRepository{
		conn: conn,
	}
}

func (lr *CompletionLogsRepository) LogCompletion(ctx context.Context, userID uuid.UUID, log *entity.CompletionLog, reward int) (int, error) {
	tx, err := lr.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("starting tx error: %w", err)
	}
	row := tx.QueryRow(ctx, `INSERT INTO completion_logs (habit_id, logged_on, note) VALUES ($1, $2, $3) RETURNING id, completed, created_at;`,
		log.HabitID,
		log.LoggedOn,
		log.Note,
	)
	if err = row.Scan(&log.ID, &log.Completed, &log.CreatedAt); err != nil {
		_ = tx.Rollback(ctx)
		switch code, _ := pgCode(err); code {
		case codeUniqueViolation:
			return 0, errorvalues.ErrAlreadyLoggedToday
		case codeFKViolation:
			return 0, errorvalues.ErrHabitNotFound
		}
		return 0, fmt.Errorf("creating completion log error: %w", err)
	}

	var points int
	row = tx.QueryRow(ctx, `UPDATE users SET points = points + $1 WHERE id = $2 RETURNING points;`, reward, userID)
	if err = row.Scan(&points); err != nil {
		_ = tx.Rollback(ctx)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errorvalues.ErrUserNotFound
		}
		return 0, fmt.Errorf("rewarding check-in error: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing check-in error: %w", err)
	}
	return points, nil
}

func (lr *CompletionLogsRepository) ExistsOnDay(ctx context.Context, habitID uuid.UUID, day time.Time) (bool, error) {
	var exists bool
	row := lr.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM completion_logs WHERE habit_id = $1 AND logged_on = $2);`, habitID, day)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("checking log existence error: %w", err)
	}
	return exists, nil
}

func (lr *CompletionLogsRepository) GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.CompletionLog, error) {
	rows, err := lr.conn.Query(ctx, `SELECT id, habit_id, logged_on, note, completed, created_at FROM completion_logs
		WHERE habit_id = $1 AND logged_on BETWEEN $2 AND $3 ORDER BY logged_on DESC;`, habitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("getting logs by date range error: %w", err)
	}
	defer rows.Close()
	logs := make([]entity.CompletionLog, 0)
	for rows.Next() {
		var l entity.CompletionLog
		if err = rows.Scan(&l.ID, &l.HabitID, &l.LoggedOn, &l.Note, &l.Completed, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("unmarshalling completion log error: %w", err)
		}
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected error after scanning: %w", err)
	}
	return logs, nil
}

func (lr *CompletionLogsRepository) GetDatesByHabitID(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	rows, err := lr.conn.Query(ctx, `SELECT logged_on FROM completion_logs WHERE habit_id = $1 ORDER BY logged_on DESC;`, habitID)
	if err != nil {
		return nil, fmt.Errorf("getting log dates error: %w", err)
	}
	defer rows.Close()
	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err = rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("unmarshalling log date error: %w", err)
		}
		dates = append(dates, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected error after scanning: %w", err)
	}
	return dates, nil
}

func (lr *CompletionLogsRepository) GetDatesByUserID(ctx context.Context, uid uuid.UUID) ([]entity.HabitLogDates, error) {
	rows, err := lr.conn.Query(ctx, `SELECT h.id, l.logged_on FROM habits h LEFT JOIN completion_logs l ON l.habit_id = h.id
		WHERE h.user_id = $1 ORDER BY h.created_at, h.id, l.logged_on DESC;`, uid)
	if err != nil {
		return nil, fmt.Errorf("getting user log dates error: %w", err)
	}
	defer rows.Close()
	result := make([]entity.HabitLogDates, 0)
	for rows.Next() {
		var (
			habitID  uuid.UUID
			loggedOn *time.Time
		)
		if err = rows.Scan(&habitID, &loggedOn); err != nil {
			return nil, fmt.Errorf("unmarshalling user log date error: %w", err)
		}
		// rows of one habit are adjacent
		if len(result) == 0 || result[len(result)-1].HabitID != habitID {
			result = append(result, entity.HabitLogDates{HabitID: habitID, Dates: make([]time.Time, 0)})
		}
		if loggedOn != nil {
			last := &result[len(result)-1]
			last.Dates = append(last.Dates, *loggedOn)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected error after scanning: %w", err)
	}
	return result, nil
}

func (lr *CompletionLogsRepository) CountByHabitID(ctx context.Context, habitID uuid.UUID) (int, error) {
	var count int
	row := lr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM completion_logs WHERE habit_id = $1;`, habitID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting logs error: %w", err)
	}
	return count, nil
}
