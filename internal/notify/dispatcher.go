package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/metrics"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

// TopicPrefix is followed by the event type, e.g. radio/events/song_played.
const TopicPrefix = "radio/events/"

const handleTimeout = 10 * time.Second

// Store is the slice of db.Queries the dispatcher writes through.
type Store interface {
	GetNotificationSettings(ctx context.Context, userID int) (model.NotificationSettings, error)
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	ListVoterIDs(ctx context.Context, songID int) ([]int, error)
}

type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Dispatcher turns radio events into notification rows and MQTT messages on one
// background goroutine. Emit never blocks; a full queue drops the event.
type Dispatcher struct {
	store  Store
	pub    Publisher
	events chan radio.Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ radio.Notifier = (*Dispatcher)(nil)

// NewDispatcher starts the worker. pub may be nil.
func NewDispatcher(store Store, pub Publisher, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	d := &Dispatcher{
		store:  store,
		pub:    pub,
		events: make(chan radio.Event, buffer),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Emit(e radio.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.events <- e:
	default:
		metrics.EventsDropped.Inc()
		log.Warn().Str("type", string(e.Type)).Int("song_id", e.SongID).Msg("notification queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.events {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		d.handle(ctx, e)
		cancel()
	}
}

func (d *Dispatcher) handle(ctx context.Context, e radio.Event) {
	d.publish(e)

	switch e.Type {
	case radio.EventSongSubmitted:
		d.notify(ctx, e.RequesterID, model.NotificationSongRequest, e.SongID,
			fmt.Sprintf("Your request %q by %s was received", e.Title, e.Artist))

	case radio.EventSongVoted:
		if e.ActorID == e.RequesterID {
			return
		}
		settings, err := d.store.GetNotificationSettings(ctx, e.RequesterID)
		if err != nil {
			log.Error().Err(err).Int("user_id", e.RequesterID).Msg("load notification settings failed")
			return
		}
		if settings.SongVotedThreshold > 0 && e.Tally%settings.SongVotedThreshold != 0 {
			return
		}
		d.notifyWith(ctx, settings, model.NotificationSongVoted, e.SongID,
			fmt.Sprintf("Your request %q now has %d votes", e.Title, e.Tally))

	case radio.EventSongPlayed:
		voters, err := d.store.ListVoterIDs(ctx, e.SongID)
		if err != nil {
			log.Error().Err(err).Int("song_id", e.SongID).Msg("list voters failed")
		}
		msg := fmt.Sprintf("%q by %s is on air", e.Title, e.Artist)
		for _, userID := range lo.Uniq(append([]int{e.RequesterID}, voters...)) {
			d.notify(ctx, userID, model.NotificationSongPlayed, e.SongID, msg)
		}
	}
}

func (d *Dispatcher) notify(ctx context.Context, userID int, t model.NotificationType, songID int, msg string) {
	settings, err := d.store.GetNotificationSettings(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("load notification settings failed")
		return
	}
	d.notifyWith(ctx, settings, t, songID, msg)
}

func (d *Dispatcher) notifyWith(ctx context.Context, settings model.NotificationSettings, t model.NotificationType, songID int, msg string) {
	if !settings.Allows(t) {
		return
	}
	_, err := d.store.CreateNotification(ctx, model.Notification{
		Type:    t,
		Message: msg,
		UserID:  settings.UserID,
		SongID:  &songID,
	})
	if err != nil {
		log.Error().Err(err).
			Str("type", string(t)).
			Int("song_id", songID).
			Int("user_id", settings.UserID).
			Msg("create notification failed")
		return
	}
	metrics.NotificationsSent.WithLabelValues(string(t)).Inc()
}

func (d *Dispatcher) publish(e radio.Event) {
	if d.pub == nil {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Msg("marshal event failed")
		return
	}
	if err := d.pub.Publish(TopicPrefix+string(e.Type), payload); err != nil {
		log.Warn().Err(err).Str("type", string(e.Type)).Msg("publish event failed")
	}
}
