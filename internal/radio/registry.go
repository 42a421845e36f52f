package radio

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/metrics"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const maxFieldLen = 200

type SubmitRequest struct {
	RequesterID         int
	Title               string
	Artist              string
	Platform            *string
	MusicID             *string
	PreferredPlayTimeID *int
	Cover               *string
}

func (r *SubmitRequest) normalize() *Error {
	r.Title = strings.TrimSpace(r.Title)
	r.Artist = strings.TrimSpace(r.Artist)
	if n := utf8.RuneCountInString(r.Title); n == 0 || n > maxFieldLen {
		return validationf("title must be 1 to %d characters", maxFieldLen)
	}
	if n := utf8.RuneCountInString(r.Artist); n == 0 || n > maxFieldLen {
		return validationf("artist must be 1 to %d characters", maxFieldLen)
	}
	if r.Platform != nil {
		p, err := model.ParseMusicPlatform(*r.Platform)
		if err != nil {
			return validationf("%v", err)
		}
		v := string(p)
		r.Platform = &v
	}
	if r.MusicID != nil && r.Platform == nil {
		return validationf("music id requires a platform")
	}
	return nil
}

// Submit runs the blacklist, then the submission limiter, and creates the song.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (model.Song, error) {
	if rej := req.normalize(); rej != nil {
		return model.Song{}, s.rejected(rej)
	}

	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return model.Song{}, fromStore(err, "settings", 0)
	}
	if req.PreferredPlayTimeID != nil && !settings.EnablePlayTimeSelection {
		return model.Song{}, s.rejected(validationf("play time selection is disabled"))
	}

	entries, err := s.settings.Blacklist(ctx)
	if err != nil {
		return model.Song{}, fromStore(err, "blacklist", 0)
	}
	if rej := Check(entries, Candidate{Title: req.Title, Artist: req.Artist}); rej != nil {
		return model.Song{}, s.rejected(rej)
	}

	now := s.now()
	var song model.Song
	err = s.store.InTx(ctx, func(q db.Queries) error {
		if err := q.LockUser(ctx, req.RequesterID); err != nil {
			return fromStore(err, "user", req.RequesterID)
		}
		if _, err := q.GetUserByID(ctx, req.RequesterID); err != nil {
			return fromStore(err, "user", req.RequesterID)
		}
		if err := checkLimit(ctx, q, settings, req.RequesterID, now); err != nil {
			return err
		}
		if req.PreferredPlayTimeID != nil {
			pt, err := q.GetPlayTime(ctx, *req.PreferredPlayTimeID)
			if err != nil {
				return fromStore(err, "play time", *req.PreferredPlayTimeID)
			}
			if !pt.Enabled {
				return validationf("play time %d is disabled", pt.ID)
			}
		}

		var semester *string
		active, err := q.GetActiveSemester(ctx)
		switch {
		case err == nil:
			semester = &active.Name
		case !errors.Is(err, db.ErrNotFound):
			return fromStore(err, "semester", 0)
		}

		song, err = q.CreateSong(ctx, model.Song{
			Title:               req.Title,
			Artist:              req.Artist,
			RequesterID:         req.RequesterID,
			Semester:            semester,
			PreferredPlayTimeID: req.PreferredPlayTimeID,
			Cover:               req.Cover,
			MusicPlatform:       req.Platform,
			MusicID:             req.MusicID,
			CreatedAt:           now,
		})
		return fromStore(err, "song", 0)
	})
	if err != nil {
		return model.Song{}, s.rejected(err)
	}

	metrics.SongsSubmitted.Inc()
	log.Info().Int("song_id", song.ID).Int("requester_id", song.RequesterID).Msg("song submitted")
	s.notifier.Emit(Event{
		Type:        EventSongSubmitted,
		SongID:      song.ID,
		Title:       song.Title,
		Artist:      song.Artist,
		RequesterID: song.RequesterID,
		ActorID:     song.RequesterID,
		At:          now,
	})
	return song, nil
}

func (s *Service) rejected(err error) error {
	if kind := KindOf(err); kind != "" {
		metrics.SubmissionsRejected.WithLabelValues(string(kind)).Inc()
	}
	return err
}

// MarkPlayed finishes a song. The song needs a pending schedule on at's UTC date.
func (s *Service) MarkPlayed(ctx context.Context, songID int, at time.Time) (model.Song, error) {
	var song model.Song
	err := s.store.InTx(ctx, func(q db.Queries) error {
		var err error
		song, err = q.GetSongForUpdate(ctx, songID)
		if err != nil {
			return fromStore(err, "song", songID)
		}
		if song.Played {
			return invalidState("song %d was already played", songID)
		}

		sched, err := q.GetPendingScheduleForSong(ctx, songID)
		if errors.Is(err, db.ErrNotFound) {
			return invalidState("song %d is not scheduled", songID)
		}
		if err != nil {
			return fromStore(err, "schedule", 0)
		}
		if !model.DateOf(sched.PlayDate).Equal(model.DateOf(at)) {
			return invalidState("song %d is scheduled for %s", songID, sched.PlayDate.Format(time.DateOnly))
		}

		if err := q.MarkSongPlayed(ctx, songID, at); err != nil {
			return fromStore(err, "song", songID)
		}
		if err := q.MarkSchedulePlayed(ctx, sched.ID); err != nil {
			return fromStore(err, "schedule", sched.ID)
		}
		song.Played = true
		song.PlayedAt = &at
		return nil
	})
	if err != nil {
		return model.Song{}, err
	}

	metrics.SongsPlayed.Inc()
	log.Info().Int("song_id", songID).Time("played_at", at).Msg("song played")
	s.notifier.Emit(Event{
		Type:        EventSongPlayed,
		SongID:      song.ID,
		Title:       song.Title,
		Artist:      song.Artist,
		RequesterID: song.RequesterID,
		At:          at,
	})
	return song, nil
}

// DeleteSong removes a song; its votes and schedule rows go with it.
func (s *Service) DeleteSong(ctx context.Context, songID int) error {
	return fromStore(s.store.DeleteSong(ctx, songID), "song", songID)
}

func (s *Service) GetSong(ctx context.Context, songID int) (model.SongDetail, error) {
	d, err := s.store.GetSongDetail(ctx, songID)
	if err != nil {
		return model.SongDetail{}, fromStore(err, "song", songID)
	}
	return d, nil
}

func (s *Service) ListSongs(ctx context.Context, f model.SongFilter) ([]model.SongDetail, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, validationf("limit and offset must not be negative")
	}
	list, err := s.store.ListSongDetails(ctx, f)
	if err != nil {
		return nil, fromStore(err, "song", 0)
	}
	return list, nil
}

func (s *Service) SetCover(ctx context.Context, songID int, cover string) error {
	return fromStore(s.store.UpdateSongCover(ctx, songID, cover), "song", songID)
}
