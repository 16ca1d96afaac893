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

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(conn PgConnection) *UsersRepository {
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	_, err := ur.conn.Exec(ctx, `INSERT INTO users (email, name, password_hash) VALUES ($1, $2, $3);`,
		user.Email,
		user.Name,
		user.PasswordHash,
	)
	if err != nil {
		if code, _ := pgCode(err); code == codeUniqueViolation {
			return errorvalues.ErrUserExists
		}
		return fmt.Errorf("creating user db error: %w", err)
	}
	return nil
}

func (ur *UsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT id, email, name, password_hash, points, created_at FROM users WHERE email = $1;`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, fmt.Errorf("searching user by email error: %w", err)
	}
	return user, nil
}

func (ur *UsersRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT id, email, name, password_hash, points, created_at FROM users WHERE id = $1;`, uid)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, fmt.Errorf("searching user by id error: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Points, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *UsersRepository) Update(ctx context.Context, user *entity.User) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET email = $1, name = $2 WHERE id = $3;`,
		user.Email,
		user.Name,
		user.ID,
	)
	if err != nil {
		if code, _ := pgCode(err); code == codeUniqueViolation {
			return errorvalues.ErrEmailInUse
		}
		return fmt.Errorf("updating user error: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) UpdatePassword(ctx context.Context, uid uuid.UUID, passwordHash string) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2;`, passwordHash, uid)
	if err != nil {
		return fmt.Errorf("updating password error: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	ct, err := ur.conn.Exec(ctx, `DELETE FROM users WHERE id = $1;`, uid)
	if err != nil {
		return fmt.Errorf("deleting user error: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) AddPoints(ctx context.Context, uid uuid.UUID, delta int) (int, error) {
	var points int
	row := ur.conn.QueryRow(ctx, `UPDATE users SET points = points + $1 WHERE id = $2 RETURNING points;`, delta, uid)
	if err := row.Scan(&points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errorvalues.ErrUserNotFound
		}
		return 0, fmt.Errorf("adding points error: %w", err)
	}
	return points, nil
}
