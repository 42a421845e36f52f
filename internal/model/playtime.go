package model

import "time"

// PlayTime is a named broadcast slot in the day. StartTime/EndTime are "HH:MM".
type PlayTime struct {
	ID          int       `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	StartTime   *string   `db:"start_time"  json:"start_time,omitempty"`
	EndTime     *string   `db:"end_time"    json:"end_time,omitempty"`
	Enabled     bool      `db:"enabled"     json:"enabled"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}
