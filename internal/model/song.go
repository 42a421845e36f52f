package model

import (
	"fmt"
	"strings"
	"time"
)

type Song struct {
	ID                  int        `db:"id"                     json:"id"`
	Title               string     `db:"title"                  json:"title"`
	Artist              string     `db:"artist"                 json:"artist"`
	RequesterID         int        `db:"requester_id"           json:"requester_id"`
	Played              bool       `db:"played"                 json:"played"`
	PlayedAt            *time.Time `db:"played_at"              json:"played_at,omitempty"`
	Semester            *string    `db:"semester"               json:"semester,omitempty"`
	PreferredPlayTimeID *int       `db:"preferred_play_time_id" json:"preferred_play_time_id,omitempty"`
	Cover               *string    `db:"cover"                  json:"cover,omitempty"`
	MusicPlatform       *string    `db:"music_platform"         json:"music_platform,omitempty"`
	MusicID             *string    `db:"music_id"               json:"music_id,omitempty"`
	CreatedAt           time.Time  `db:"created_at"             json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"             json:"updated_at"`
}

type SongStatus string

const (
	SongPending   SongStatus = "PENDING"
	SongScheduled SongStatus = "SCHEDULED"
	SongPlayed    SongStatus = "PLAYED"
)

// SongDetail is a song with its current tally and pending schedule, if any.
type SongDetail struct {
	Song
	Tally             int        `db:"tally"`
	RequesterName     string     `db:"requester_name"`
	PendingScheduleID *int       `db:"pending_schedule_id"`
	PendingPlayDate   *time.Time `db:"pending_play_date"`
}

func (d SongDetail) Status() SongStatus {
	switch {
	case d.Played:
		return SongPlayed
	case d.PendingScheduleID != nil:
		return SongScheduled
	default:
		return SongPending
	}
}

// SongFilter narrows song listings. Zero value lists everything, newest first.
type SongFilter struct {
	RequesterID *int
	Played      *bool
	Semester    *string
	Limit       int
	Offset      int
}

type MusicPlatform string

const (
	PlatformNetease  MusicPlatform = "netease"
	PlatformTencent  MusicPlatform = "tencent"
	PlatformBilibili MusicPlatform = "bilibili"
)

func ParseMusicPlatform(s string) (MusicPlatform, error) {
	switch p := MusicPlatform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformNetease, PlatformTencent, PlatformBilibili:
		return p, nil
	}
	return "", fmt.Errorf("unknown music platform %q", s)
}

type Vote struct {
	ID        int       `db:"id"         json:"id"`
	SongID    int       `db:"song_id"    json:"song_id"`
	UserID    int       `db:"user_id"    json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Semester struct {
	ID        int       `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	IsActive  bool      `db:"is_active"  json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
