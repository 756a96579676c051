package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/charerimana/agrisense/internal/domain"
)

// PostgresUsersRepository users Repository implementation.
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	user_id::text,
	account,
	COALESCE(email, '') as email,
	role,
	password_hash
`

func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1::uuid`
	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresUsersRepository) GetUserByAccount(ctx context.Context, account string) (*domain.User, error) {
	if account == "" {
		return nil, fmt.Errorf("account is required")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE account = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, account))
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, u *domain.User) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = domain.RoleFarmer
	}

	query := `
		INSERT INTO users (user_id, account, email, role, password_hash)
		VALUES ($1::uuid, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, u.UserID, u.Account, u.Email, u.Role, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.UserID, &u.Account, &u.Email, &u.Role, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
