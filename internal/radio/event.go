package radio

import "time"

type EventType string

const (
	EventSongSubmitted EventType = "song_submitted"
	EventSongVoted     EventType = "song_voted"
	EventSongPlayed    EventType = "song_played"
)

// Event describes a committed lifecycle change. ActorID is the user who caused it.
type Event struct {
	Type        EventType `json:"type"`
	SongID      int       `json:"song_id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	RequesterID int       `json:"requester_id"`
	ActorID     int       `json:"actor_id"`
	Tally       int       `json:"tally"`
	At          time.Time `json:"at"`
}

// Notifier receives events after their transaction commits. Emit must not block.
type Notifier interface {
	Emit(e Event)
}

type nopNotifier struct{}

func (nopNotifier) Emit(Event) {}
