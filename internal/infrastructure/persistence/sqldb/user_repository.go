package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minsukang/kstock-tracker/internal/domain"
)

// UserRepository persists accounts in the users table.
type UserRepository struct {
	repository
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{repository{db: db}}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := r.rebind(`
		INSERT INTO users (user_id, email, password_hash, username, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Username, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := r.rebind(`
		SELECT user_id, email, password_hash, username, created_at, updated_at
		FROM users
		WHERE email = $1
	`)
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := r.rebind(`
		SELECT user_id, email, password_hash, username, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`)
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Username, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}
