package model

import (
	"fmt"
	"strings"
	"time"
)

type BlacklistType string

const (
	BlacklistSong    BlacklistType = "SONG"
	BlacklistKeyword BlacklistType = "KEYWORD"
)

func ParseBlacklistType(s string) (BlacklistType, error) {
	switch t := BlacklistType(strings.ToUpper(strings.TrimSpace(s))); t {
	case BlacklistSong, BlacklistKeyword:
		return t, nil
	}
	return "", fmt.Errorf("unknown blacklist type %q", s)
}

// BlacklistEntry rejects submissions. For SONG entries Value is "<title> - <artist>".
type BlacklistEntry struct {
	ID        int           `db:"id"         json:"id"`
	Type      BlacklistType `db:"type"       json:"type"`
	Value     string        `db:"value"      json:"value"`
	Reason    *string       `db:"reason"     json:"reason,omitempty"`
	IsActive  bool          `db:"is_active"  json:"is_active"`
	CreatedBy *int          `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
