package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// APIKey authenticates machine clients. Only the SHA-256 hash of the key is stored.
type APIKey struct {
	ID              uuid.UUID    `db:"id"                 json:"id"`
	Name            string       `db:"name"               json:"name"`
	Description     *string      `db:"description"        json:"description,omitempty"`
	KeyHash         string       `db:"key_hash"           json:"-"`
	KeyPrefix       string       `db:"key_prefix"         json:"key_prefix"`
	IsActive        bool         `db:"is_active"          json:"is_active"`
	ExpiresAt       *time.Time   `db:"expires_at"         json:"expires_at,omitempty"`
	CreatedAt       time.Time    `db:"created_at"         json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"         json:"updated_at"`
	LastUsedAt      *time.Time   `db:"last_used_at"       json:"last_used_at,omitempty"`
	CreatedByUserID int          `db:"created_by_user_id" json:"created_by_user_id"`
	UsageCount      int          `db:"usage_count"        json:"usage_count"`
	Permissions     []Permission `db:"-"                json:"permissions"`
}

func (k APIKey) Usable(now time.Time) bool {
	return k.IsActive && (k.ExpiresAt == nil || now.Before(*k.ExpiresAt))
}

func (k APIKey) Has(p Permission) bool {
	for _, have := range k.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

type Permission string

const (
	PermSongsRead     Permission = "songs:read"
	PermSchedulesRead Permission = "schedules:read"
)

func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermSongsRead, PermSchedulesRead:
		return p, nil
	}
	return "", fmt.Errorf("unknown permission %q", s)
}

type APIKeyPermission struct {
	ID         uuid.UUID  `db:"id"`
	APIKeyID   uuid.UUID  `db:"api_key_id"`
	Permission Permission `db:"permission"`
	CreatedAt  time.Time  `db:"created_at"`
}

// APILog records one API-key authenticated request.
type APILog struct {
	ID             uuid.UUID     `db:"id"`
	APIKeyID       uuid.NullUUID `db:"api_key_id"`
	Endpoint       string        `db:"endpoint"`
	Method         string        `db:"method"`
	IPAddress      string        `db:"ip_address"`
	UserAgent      *string       `db:"user_agent"`
	StatusCode     int           `db:"status_code"`
	ResponseTimeMs int           `db:"response_time_ms"`
	RequestBody    *string       `db:"request_body"`
	ResponseBody   *string       `db:"response_body"`
	CreatedAt      time.Time     `db:"created_at"`
	ErrorMessage   *string       `db:"error_message"`
}
