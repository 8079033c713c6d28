package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func (a *Accessor) InsertUser(ctx context.Context, user User) (User, error) {
	if err := user.Validate(); err != nil {
		return User{}, fmt.Errorf("validate: %w", err)
	}

	id := uuid.New()

	query := `INSERT INTO users (id, name, username, preferred_timezone, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := a.db.ExecContext(ctx, query, id, user.Name, user.Username, nullString(user.Timezone), time.Now().UTC()); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("exec context: %w", err)
	}

	return User{
		ID:       id,
		Name:     user.Name,
		Username: user.Username,
		Timezone: user.Timezone,
	}, nil
}

func (a *Accessor) GetUsers(ctx context.Context) ([]User, error) {
	users := []User{}

	query := `SELECT id, name, username, COALESCE(preferred_timezone, '') FROM users ORDER BY name`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name, &user.Username, &user.Timezone); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return users, nil
}

// GetUser returns nil without an error when no user has the given id.
func (a *Accessor) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User

	query := `SELECT id, name, username, COALESCE(preferred_timezone, '') FROM users WHERE id = $1`
	row := a.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&user.ID, &user.Name, &user.Username, &user.Timezone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
