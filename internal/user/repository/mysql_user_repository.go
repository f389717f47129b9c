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

// MySQLUserRepository handles user persistence for MySQL
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

const mysqlUserColumns = `id, full_name, birth_date, email, password, role, is_blocked, created_at, updated_at`

// Create inserts a new user
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, full_name, birth_date, email, password, role, is_blocked, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query,
		user.ID.String(), user.FullName, user.BirthDate, user.Email, user.Password, user.Role, user.IsBlocked)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE id = ?`

	return r.scanUser(querier.QueryRowContext(ctx, query, id.String()))
}

// GetByEmail retrieves a user by email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE email = ?`

	return r.scanUser(querier.QueryRowContext(ctx, query, email))
}

// List retrieves users ordered by creation time with pagination
func (r *MySQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.scanUsers(rows)
}

// Search retrieves users whose full name or email contains the query string
func (r *MySQLUserRepository) Search(
	ctx context.Context,
	queryStr string,
	offset, limit int,
) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users
			  WHERE full_name LIKE ? OR email LIKE ?
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	pattern := "%" + queryStr + "%"
	rows, err := querier.QueryContext(ctx, query, pattern, pattern, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.scanUsers(rows)
}

// Update persists changes to an existing user
func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users
			  SET full_name = ?, birth_date = ?, email = ?, role = ?, is_blocked = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query,
		user.FullName, user.BirthDate, user.Email, user.Role, user.IsBlocked, user.ID.String())
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.requireRow(result)
}

// SetBlocked updates only the blocked flag of a user
func (r *MySQLUserRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET is_blocked = ?, updated_at = NOW() WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, blocked, id.String())
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.requireRow(result)
}

// Delete removes a user
func (r *MySQLUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM users WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, id.String())
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return r.requireRow(result)
}

// Stats returns aggregate account counts
func (r *MySQLUserRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT
				COUNT(*),
				SUM(CASE WHEN role = 'ADMIN' THEN 1 ELSE 0 END),
				SUM(CASE WHEN is_blocked THEN 1 ELSE 0 END),
				SUM(CASE WHEN is_blocked THEN 0 ELSE 1 END)
			  FROM users`

	var stats domain.Stats
	err := querier.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Admins, &stats.Blocked, &stats.Active)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	return &stats, nil
}

// scanUser scans a single user row, mapping absence to ErrUserNotFound
func (r *MySQLUserRepository) scanUser(row *sql.Row) (*domain.User, error) {
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
func (r *MySQLUserRepository) scanUsers(rows *sql.Rows) ([]*domain.User, error) {
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
func (r *MySQLUserRepository) requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, err.Error())
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062 (23000): Duplicate entry ..."
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
