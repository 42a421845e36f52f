package model

import (
	"fmt"
	"time"
)

// Schedule places one song at a position (Sequence, from 1) inside a bucket.
type Schedule struct {
	ID         int       `db:"id"           json:"id"`
	SongID     int       `db:"song_id"      json:"song_id"`
	PlayDate   time.Time `db:"play_date"    json:"play_date"`
	Played     bool      `db:"played"       json:"played"`
	Sequence   int       `db:"sequence"     json:"sequence"`
	PlayTimeID *int      `db:"play_time_id" json:"play_time_id"`
	CreatedAt  time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"   json:"updated_at"`
}

// Bucket returns the (play date, play time) group the row belongs to.
func (s Schedule) Bucket() Bucket {
	b := Bucket{PlayDate: DateOf(s.PlayDate)}
	if s.PlayTimeID != nil {
		b.PlayTimeID = *s.PlayTimeID
	}
	return b
}

// ScheduleEntry is a schedule row joined with what a display needs.
type ScheduleEntry struct {
	Schedule
	SongTitle    string  `db:"song_title"     json:"song_title"`
	SongArtist   string  `db:"song_artist"    json:"song_artist"`
	RequesterID  int     `db:"requester_id"   json:"requester_id"`
	PlayTimeName *string `db:"play_time_name" json:"play_time_name,omitempty"`
}

// Bucket is the set of schedule rows sharing one play date and play time.
type Bucket struct {
	PlayDate   time.Time
	PlayTimeID int
}

func NewBucket(playDate time.Time, playTimeID int) Bucket {
	return Bucket{PlayDate: DateOf(playDate), PlayTimeID: playTimeID}
}

func (b Bucket) String() string {
	return fmt.Sprintf("%s/%d", b.PlayDate.Format(time.DateOnly), b.PlayTimeID)
}

// DateOf truncates t to midnight of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Candidate is the scheduling view of a song.
type Candidate struct {
	SongID            int        `db:"id"`
	CreatedAt         time.Time  `db:"created_at"`
	Played            bool       `db:"played"`
	Tally             int        `db:"tally"`
	PendingScheduleID *int       `db:"pending_schedule_id"`
	PendingPlayDate   *time.Time `db:"pending_play_date"`
	PendingPlayTimeID *int       `db:"pending_play_time_id"`
}

// PendingIn reports whether the candidate already has its pending row in b.
func (c Candidate) PendingIn(b Bucket) bool {
	if c.PendingScheduleID == nil || c.PendingPlayDate == nil || c.PendingPlayTimeID == nil {
		return false
	}
	return DateOf(*c.PendingPlayDate).Equal(b.PlayDate) && *c.PendingPlayTimeID == b.PlayTimeID
}
