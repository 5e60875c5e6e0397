package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smart_channels/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of the interfaces at compile time.
var (
	_ Authorization = (*UserRepository)(nil)
	_ UserRepo      = (*UserRepository)(nil)
)

const userColumns = `id, username, password_hash, api_rate_limit,
	limit_aid, limit_channel_group, limit_channel_per_group, limit_direct_link,
	limit_loc, limit_oauth_client, limit_schedule`

const (
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	updateUserRateLimitSQL  = `UPDATE users SET api_rate_limit = ? WHERE id = ?`

	insertUserSQL = `
		INSERT INTO users (username, password_hash,
			limit_aid, limit_channel_group, limit_channel_per_group, limit_direct_link,
			limit_loc, limit_oauth_client, limit_schedule)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	updateUserLimitsSQL = `
		UPDATE users SET
			limit_aid = ?, limit_channel_group = ?, limit_channel_per_group = ?, limit_direct_link = ?,
			limit_loc = ?, limit_oauth_client = ?, limit_schedule = ?
		WHERE id = ?
	`
)

// Create inserts a new user with the given object limits and returns its ID.
func (r *UserRepository) Create(username, passwordHash string, limits models.Limits) (int, error) {
	res, err := r.db.Exec(insertUserSQL, username, passwordHash,
		limits.AccessID, limits.ChannelGroup, limits.ChannelPerGroup, limits.DirectLink,
		limits.Location, limits.OAuthClient, limits.Schedule)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) UpdateLimits(ctx context.Context, id int, l models.Limits) error {
	res, err := r.db.ExecContext(ctx, updateUserLimitsSQL,
		l.AccessID, l.ChannelGroup, l.ChannelPerGroup, l.DirectLink,
		l.Location, l.OAuthClient, l.Schedule, id)
	if err != nil {
		return fmt.Errorf("update limits of user %d: %w", id, err)
	}
	return expectOneRow(res, "user", id)
}

// UpdateAPIRateLimit stores the rule text; nil resets the user to the default rule.
func (r *UserRepository) UpdateAPIRateLimit(ctx context.Context, id int, rule *string) error {
	var v sql.NullString
	if rule != nil {
		v = sql.NullString{String: *rule, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, updateUserRateLimitSQL, v, id)
	if err != nil {
		return fmt.Errorf("update rate limit of user %d: %w", id, err)
	}
	return expectOneRow(res, "user", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u    models.User
		rule sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &rule,
		&u.Limits.AccessID, &u.Limits.ChannelGroup, &u.Limits.ChannelPerGroup, &u.Limits.DirectLink,
		&u.Limits.Location, &u.Limits.OAuthClient, &u.Limits.Schedule)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if rule.Valid {
		s := rule.String
		u.APIRateLimit = &s
	}
	return &u, nil
}

func expectOneRow(res sql.Result, what string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s %d: %w", what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
