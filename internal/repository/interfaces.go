package repository

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Yassen717/HabitFlow/pkg/entity"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks . UsersRepositoryI,HabitsRepositoryI,CompletionLogsRepositoryI,AchievementsRepositoryI

type UsersRepositoryI interface {
	// Creates new user in database. Email, Name and PasswordHash are used
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by email. Used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Used by authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's email and name
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, uid uuid.UUID, passwordHash string) error
	// Deletes user together with owned habits, logs and unlocks
	Delete(ctx context.Context, uid uuid.UUID) error
	// Atomically adds delta to user's points. Returns new total
	AddPoints(ctx context.Context, uid uuid.UUID, delta int) (int, error)
}

type HabitsRepositoryI interface {
	// Creates new habit in database. In habit only UserID, Title, Description, Frequency are necessary
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists habits owned by user with uid, newest first. Requires pagination params provided
	GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error)
	// Counts habits owned by user with uid
	CountByUserID(ctx context.Context, uid uuid.UUID) (int, error)
	// Updates habit by ID (ID in habit is necessary)
	Update(ctx context.Context, habit *entity.Habit) error
	// Deletes habit with id. Its logs are deleted by cascade
	Delete(ctx context.Context, id uuid.UUID) error
}

type CompletionLogsRepositoryI interface {
	// Inserts log and rewards habit owner with points in one transaction. Fills log's ID,
	// Completed and CreatedAt, returns owner's new points total
	LogCompletion(ctx context.Context, userID uuid.UUID, log *entity.CompletionLog, reward int) (int, error)
	// Inspects if habit has a log on given day
	ExistsOnDay(ctx context.Context, habitID uuid.UUID, day time.Time) (bool, error)
	// Provides logs of habitID for a period, both ends included
	GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]entity.CompletionLog, error)
	// Provides all check-in days of habitID, latest first
	GetDatesByHabitID(ctx context.Context, habitID uuid.UUID) ([]time.Time, error)
	// Provides check-in days of every habit of user uid
	GetDatesByUserID(ctx context.Context, uid uuid.UUID) ([]entity.HabitLogDates, error)
	// Returns count of logs for habitID
	CountByHabitID(ctx context.Context, habitID uuid.UUID) (int, error)
}

type AchievementsRepositoryI interface {
	// Inserts or refreshes catalog rows, keyed by achievement key
	Upsert(ctx context.Context, achievements []entity.Achievement) error
	// Lists catalog rows in catalog order
	List(ctx context.Context) ([]entity.Achievement, error)
	GetByKey(ctx context.Context, key string) (*entity.Achievement, error)
	// Returns keys of achievements unlocked by uid
	UnlockedKeys(ctx context.Context, uid uuid.UUID) ([]string, error)
	// Records unlock and adds reward to user's points in one transaction
	Unlock(ctx context.Context, uid uuid.UUID, key string, reward int) (*entity.UserAchievement, error)
	// Lists unlocked achievements of uid, latest first
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.UnlockedAchievement, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
	SSLMode  string
}

func (pgcfg *PGCfg) ConnString() string {
	connStr := fmt.Sprintf("postgresql://%s:%s@%s/%s",
		url.QueryEscape(pgcfg.Username),
		url.QueryEscape(pgcfg.Password),
		pgcfg.Address,
		pgcfg.DB,
	)
	if pgcfg.SSLMode != "" {
		connStr += "?sslmode=" + pgcfg.SSLMode
	}
	return connStr
}
