package model

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole accepts only the known roles; unknown values are an error rather than stored.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID                  int        `db:"id"                    json:"id"`
	Username            string     `db:"username"              json:"username"`
	Name                *string    `db:"name"                  json:"name,omitempty"`
	Grade               *string    `db:"grade"                 json:"grade,omitempty"`
	Class               *string    `db:"class"                 json:"class,omitempty"`
	Role                Role       `db:"role"                  json:"role"`
	PasswordHash        string     `db:"password_hash"         json:"-"`
	LastLogin           *time.Time `db:"last_login"            json:"last_login,omitempty"`
	LastLoginIP         *string    `db:"last_login_ip"         json:"-"`
	PasswordChangedAt   *time.Time `db:"password_changed_at"   json:"password_changed_at,omitempty"`
	ForcePasswordChange bool       `db:"force_password_change" json:"force_password_change"`
	MeowNickname        *string    `db:"meow_nickname"         json:"meow_nickname,omitempty"`
	MeowBoundAt         *time.Time `db:"meow_bound_at"         json:"meow_bound_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at"            json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"            json:"updated_at"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
