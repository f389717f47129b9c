// Package repository provides data persistence implementations for user entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/accounts/internal/database"
	apperrors "github.com/allisson/accounts/internal/errors"
	"github.com/allisson/accounts/internal/user/domain"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

const pgUserColumns = `id, full_name, birth_date, email, password, role, is_blocked, created_at, updated_at`

// Create inserts a new user
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, full_name, birth_date, email, password, role, is_blocked, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		user.ID, user.FullName, user.BirthDate, user.Email, user.Password, user.Role, user.IsBlocked)
	if err != nil {
		// Check for unique constraint violation (duplicate email)
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgUserColumns + ` FROM users WHERE id = $1`

	return r.scanUser(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgUserColumns + ` FROM users WHERE email = $1`

	return r.scanUser(querier.QueryRowContext(ctx, query, email))
}

// List retrieves users ordered by creation time with pagination
func (r *PostgreSQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgUserColumns + ` FROM users ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.scanUsers(rows)
}

// Search retrieves users whose full name or email contains the query string
func (r *PostgreSQLUserRepository) Search(
	ctx context.Context,
	queryStr string,
	offset, limit int,
) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgUserColumns + ` FROM users
			  WHERE full_name ILIKE $1 OR email ILIKE $1
			  ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	pattern := "%" + queryStr + "%"
	rows, err := querier.QueryContext(ctx, query, pattern, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.scanUsers(rows)
}

// Update persists changes to an existing user
func (r *PostgreSQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users
			  SET full_name = $1, birth_date = $2, email = $3, role = $4, is_blocked = $5, updated_at = NOW()
			  WHERE id = $6`

	result, err := querier.ExecContext(ctx, query,
		user.FullName, user.BirthDate, user.Email, user.Role, user.IsBlocked, user.ID)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.requireRow(result)
}

// SetBlocked updates only the blocked flag of a user
func (r *PostgreSQLUserRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET is_blocked = $1, updated_at = NOW() WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, blocked, id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.requireRow(result)
}

// Delete removes a user
func (r *PostgreSQLUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM users WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.requireRow(result)
}

// Stats returns aggregate account counts
func (r *PostgreSQLUserRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT
				COUNT(*),
				COUNT(*) FILTER (WHERE role = 'ADMIN'),
				COUNT(*) FILTER (WHERE is_blocked),
				COUNT(*) FILTER (WHERE NOT is_blocked)
			  FROM users`

	var stats domain.Stats
	err := querier.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Admins, &stats.Blocked, &stats.Active)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return &stats, nil
}

// scanUser scans a single user row, mapping absence to ErrUserNotFound
func (r *PostgreSQLUserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.FullName, &user.BirthDate, &user.Email, &user.Password,
		&user.Role, &user.IsBlocked, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return &user, nil
}

// scanUsers scans a result set of user rows
func (r *PostgreSQLUserRepository) scanUsers(rows *sql.Rows) ([]*domain.User, error) {
	defer rows.Close() //nolint:errcheck

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID, &user.FullName, &user.BirthDate, &user.Email, &user.Password,
			&user.Role, &user.IsBlocked, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return users, nil
}

// requireRow maps zero affected rows to ErrUserNotFound
func (r *PostgreSQLUserRepository) requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
