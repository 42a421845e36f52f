package radio

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const (
	settingsCacheKey  = "radio:settings"
	blacklistCacheKey = "radio:blacklist:active"

	// invalidateSettle is how long after an invalidation the keys are dropped again, to
	// catch fills by readers on other replicas that loaded before the write.
	invalidateSettle = 2 * time.Second
)

// Cache is a JSON key/value cache. Misses report false with a nil error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SettingsSource hands out the per-request settings snapshot and the active blacklist.
type SettingsSource interface {
	Settings(ctx context.Context) (model.SystemSettings, error)
	Blacklist(ctx context.Context) ([]model.BlacklistEntry, error)
	Invalidate(ctx context.Context)
}

// CachedSettings reads through an optional cache. Cache failures fall back to the store.
// A value loaded before an Invalidate is never written back to the cache.
type CachedSettings struct {
	store  db.Queries
	cache  Cache
	ttl    time.Duration
	settle time.Duration

	// gen counts invalidations.
	gen atomic.Uint64
}

// NewCachedSettings returns a source backed by store. cache may be nil.
func NewCachedSettings(store db.Queries, cache Cache, ttl time.Duration) *CachedSettings {
	return &CachedSettings{store: store, cache: cache, ttl: ttl, settle: invalidateSettle}
}

func (s *CachedSettings) Settings(ctx context.Context) (model.SystemSettings, error) {
	var out model.SystemSettings
	if s.lookup(ctx, settingsCacheKey, &out) {
		return out, nil
	}
	gen := s.gen.Load()
	out, err := s.store.GetSystemSettings(ctx)
	if err != nil {
		return model.SystemSettings{}, err
	}
	s.fill(ctx, gen, settingsCacheKey, out)
	return out, nil
}

func (s *CachedSettings) Blacklist(ctx context.Context) ([]model.BlacklistEntry, error) {
	var out []model.BlacklistEntry
	if s.lookup(ctx, blacklistCacheKey, &out) {
		return out, nil
	}
	gen := s.gen.Load()
	out, err := s.store.ListBlacklist(ctx, true)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, gen, blacklistCacheKey, out)
	return out, nil
}

// Invalidate drops both cached values; call it after admin writes. The keys are dropped
// a second time once the settle delay has passed.
func (s *CachedSettings) Invalidate(ctx context.Context) {
	s.gen.Add(1)
	if s.cache == nil {
		return
	}
	s.drop(ctx)
	if s.settle > 0 {
		time.AfterFunc(s.settle, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.drop(ctx)
		})
	}
}

func (s *CachedSettings) drop(ctx context.Context) {
	if err := s.cache.Delete(ctx, settingsCacheKey, blacklistCacheKey); err != nil {
		log.Warn().Err(err).Msg("settings cache invalidation failed")
	}
}

func (s *CachedSettings) lookup(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings cache read failed")
		return false
	}
	return ok
}

func (s *CachedSettings) fill(ctx context.Context, gen uint64, key string, v any) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if s.gen.Load() != gen {
		log.Debug().Str("key", key).Msg("settings changed while loading, not caching")
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings cache write failed")
	}
}
