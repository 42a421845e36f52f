package model

import (
	"fmt"
	"strings"
	"time"
)

type NotificationType string

const (
	NotificationSongRequest NotificationType = "SONG_REQUEST"
	NotificationSongVoted   NotificationType = "SONG_VOTED"
	NotificationSongPlayed  NotificationType = "SONG_PLAYED"
	NotificationSystem      NotificationType = "SYSTEM"
)

func ParseNotificationType(s string) (NotificationType, error) {
	switch t := NotificationType(strings.ToUpper(strings.TrimSpace(s))); t {
	case NotificationSongRequest, NotificationSongVoted, NotificationSongPlayed, NotificationSystem:
		return t, nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}

type Notification struct {
	ID        int              `db:"id"         json:"id"`
	Type      NotificationType `db:"type"       json:"type"`
	Message   string           `db:"message"    json:"message"`
	Read      bool             `db:"read"       json:"read"`
	UserID    int              `db:"user_id"    json:"user_id"`
	SongID    *int             `db:"song_id"    json:"song_id,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

type NotificationSettings struct {
	ID                 int       `db:"id"                   json:"id"`
	UserID             int       `db:"user_id"              json:"user_id"`
	Enabled            bool      `db:"enabled"              json:"enabled"`
	SongRequestEnabled bool      `db:"song_request_enabled" json:"song_request_enabled"`
	SongVotedEnabled   bool      `db:"song_voted_enabled"   json:"song_voted_enabled"`
	SongPlayedEnabled  bool      `db:"song_played_enabled"  json:"song_played_enabled"`
	RefreshInterval    int       `db:"refresh_interval"     json:"refresh_interval"`
	SongVotedThreshold int       `db:"song_voted_threshold" json:"song_voted_threshold"`
	CreatedAt          time.Time `db:"created_at"           json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"           json:"updated_at"`
}

func DefaultNotificationSettings(userID int) NotificationSettings {
	return NotificationSettings{
		UserID:             userID,
		Enabled:            true,
		SongRequestEnabled: true,
		SongVotedEnabled:   true,
		SongPlayedEnabled:  true,
		RefreshInterval:    60,
		SongVotedThreshold: 1,
	}
}

// Allows reports whether a notification of type t should be written.
func (s NotificationSettings) Allows(t NotificationType) bool {
	if !s.Enabled {
		return false
	}
	switch t {
	case NotificationSongRequest:
		return s.SongRequestEnabled
	case NotificationSongVoted:
		return s.SongVotedEnabled
	case NotificationSongPlayed:
		return s.SongPlayedEnabled
	}
	return true
}
