package radio

import (
	"time"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
)

// Service runs the submission, voting and scheduling workflow. Each operation is one
// store transaction; events are emitted only after commit.
type Service struct {
	store    db.Store
	settings SettingsSource
	notifier Notifier
	now      func() time.Time
}

type Option func(*Service)

func WithSettings(src SettingsSource) Option {
	return func(s *Service) { s.settings = src }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store db.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: nopNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.settings == nil {
		s.settings = NewCachedSettings(store, nil, 0)
	}
	return s
}

func (s *Service) Settings() SettingsSource { return s.settings }
