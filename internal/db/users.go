package db

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const userColumns = `
	id, username, name, grade, class, role, password_hash, last_login, last_login_ip,
	password_changed_at, force_password_change, meow_nickname, meow_bound_at,
	created_at, updated_at`

// CreateUser inserts a user and returns the stored row.
func (q *queries) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	var out model.User
	query := `
	INSERT INTO users (username, name, grade, class, role, password_hash, force_password_change, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	RETURNING` + userColumns + `;`
	if err := q.get(ctx, &out, query,
		u.Username, u.Name, u.Grade, u.Class, u.Role, u.PasswordHash, u.ForcePasswordChange,
	); err != nil {
		log.Error().Err(err).Str("username", u.Username).Msg("failed to create user")
		return model.User{}, err
	}
	return out, nil
}

// GetUserByID returns ErrNotFound when no such user exists.
func (q *queries) GetUserByID(ctx context.Context, id int) (model.User, error) {
	var u model.User
	err := q.get(ctx, &u, `SELECT`+userColumns+` FROM users WHERE id = $1;`, id)
	if err != nil {
		logUnlessNotFound(err, "failed to get user by id", "user_id", id)
		return model.User{}, err
	}
	return u, nil
}

func (q *queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := q.get(ctx, &u, `SELECT`+userColumns+` FROM users WHERE username = $1;`, username)
	if err != nil {
		logUnlessNotFound(err, "failed to get user by username", "username", username)
		return model.User{}, err
	}
	return u, nil
}

func (q *queries) TouchUserLogin(ctx context.Context, id int, ip string, at time.Time) error {
	return q.execOne(ctx, "TouchUserLogin", `
	UPDATE users
	   SET last_login = $2, last_login_ip = $3, updated_at = now()
	 WHERE id = $1;`, id, at, ip)
}

func (q *queries) LockUser(ctx context.Context, id int) error {
	_, err := q.ext.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2);`, lockNamespaceUser, id)
	if err != nil {
		log.Error().Err(err).Int("user_id", id).Msg("LockUser failed")
	}
	return translate(err)
}

// UpdateUserPassword also clears force_password_change.
func (q *queries) UpdateUserPassword(ctx context.Context, id int, passwordHash string, at time.Time) error {
	return q.execOne(ctx, "UpdateUserPassword", `
	UPDATE users
	   SET password_hash = $2, password_changed_at = $3, force_password_change = false, updated_at = now()
	 WHERE id = $1;`, id, passwordHash, at)
}

func (q *queries) ListUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []model.User{}
	err := q.selectAll(ctx, &out, `SELECT`+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("ListUsers failed")
		return nil, err
	}
	return out, nil
}
