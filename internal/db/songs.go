package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const songColumns = `
	s.id, s.title, s.artist, s.requester_id, s.played, s.played_at, s.semester,
	s.preferred_play_time_id, s.cover, s.music_platform, s.music_id, s.created_at, s.updated_at`

// songDetailSelect joins the live tally, requester name and the pending schedule row.
const songDetailSelect = `
	SELECT` + songColumns + `,
	       (SELECT count(*) FROM votes v WHERE v.song_id = s.id) AS tally,
	       COALESCE(u.name, u.username) AS requester_name,
	       p.id AS pending_schedule_id,
	       p.play_date AS pending_play_date
	  FROM songs s
	  JOIN users u ON u.id = s.requester_id
	  LEFT JOIN schedules p ON p.song_id = s.id AND p.played = false`

func (q *queries) CreateSong(ctx context.Context, s model.Song) (model.Song, error) {
	var out model.Song
	query := `
	INSERT INTO songs AS s
	  (title, artist, requester_id, played, semester, preferred_play_time_id, cover, music_platform, music_id, created_at, updated_at)
	VALUES
	  ($1, $2, $3, false, $4, $5, $6, $7, $8, $9, $9)
	RETURNING` + songColumns + `;`
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if err := q.get(ctx, &out, query,
		s.Title, s.Artist, s.RequesterID, s.Semester, s.PreferredPlayTimeID, s.Cover, s.MusicPlatform, s.MusicID, createdAt,
	); err != nil {
		log.Error().Err(err).Int("requester_id", s.RequesterID).Msg("CreateSong failed")
		return model.Song{}, err
	}
	return out, nil
}

func (q *queries) GetSong(ctx context.Context, id int) (model.Song, error) {
	var s model.Song
	if err := q.get(ctx, &s, `SELECT`+songColumns+` FROM songs s WHERE s.id = $1;`, id); err != nil {
		logUnlessNotFound(err, "GetSong failed", "song_id", id)
		return model.Song{}, err
	}
	return s, nil
}

// GetSongForUpdate row-locks the song until the surrounding transaction ends.
func (q *queries) GetSongForUpdate(ctx context.Context, id int) (model.Song, error) {
	var s model.Song
	if err := q.get(ctx, &s, `SELECT`+songColumns+` FROM songs s WHERE s.id = $1 FOR UPDATE;`, id); err != nil {
		logUnlessNotFound(err, "GetSongForUpdate failed", "song_id", id)
		return model.Song{}, err
	}
	return s, nil
}

func (q *queries) GetSongDetail(ctx context.Context, id int) (model.SongDetail, error) {
	var d model.SongDetail
	if err := q.get(ctx, &d, songDetailSelect+` WHERE s.id = $1;`, id); err != nil {
		logUnlessNotFound(err, "GetSongDetail failed", "song_id", id)
		return model.SongDetail{}, err
	}
	return d, nil
}

func (q *queries) ListSongDetails(ctx context.Context, f model.SongFilter) ([]model.SongDetail, error) {
	var (
		where []string
		args  []any
	)
	if f.RequesterID != nil {
		args = append(args, *f.RequesterID)
		where = append(where, fmt.Sprintf("s.requester_id = $%d", len(args)))
	}
	if f.Played != nil {
		args = append(args, *f.Played)
		where = append(where, fmt.Sprintf("s.played = $%d", len(args)))
	}
	if f.Semester != nil {
		args = append(args, *f.Semester)
		where = append(where, fmt.Sprintf("s.semester = $%d", len(args)))
	}

	query := songDetailSelect
	if len(where) > 0 {
		query += "\n WHERE " + strings.Join(where, " AND ")
	}
	query += "\n ORDER BY s.created_at DESC, s.id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	out := []model.SongDetail{}
	if err := q.selectAll(ctx, &out, query+";", args...); err != nil {
		log.Error().Err(err).Msg("ListSongDetails failed")
		return nil, err
	}
	return out, nil
}

// CountSongsByRequesterSince counts the requester's songs created at or after since.
func (q *queries) CountSongsByRequesterSince(ctx context.Context, requesterID int, since time.Time) (int, error) {
	var n int
	err := q.get(ctx, &n, `
	SELECT count(*) FROM songs
	 WHERE requester_id = $1 AND created_at >= $2;`, requesterID, since)
	if err != nil {
		log.Error().Err(err).Int("requester_id", requesterID).Msg("CountSongsByRequesterSince failed")
		return 0, err
	}
	return n, nil
}

// MarkSongPlayed only transitions unplayed songs; an already played song is ErrNotFound.
func (q *queries) MarkSongPlayed(ctx context.Context, id int, at time.Time) error {
	return q.execOne(ctx, "MarkSongPlayed", `
	UPDATE songs
	   SET played = true, played_at = $2, updated_at = now()
	 WHERE id = $1 AND played = false;`, id, at)
}

func (q *queries) UpdateSongCover(ctx context.Context, id int, cover string) error {
	return q.execOne(ctx, "UpdateSongCover", `
	UPDATE songs SET cover = $2, updated_at = now() WHERE id = $1;`, id, cover)
}

// DeleteSong removes the song; votes and schedule rows go with it through ON DELETE CASCADE.
func (q *queries) DeleteSong(ctx context.Context, id int) error {
	return q.execOne(ctx, "DeleteSong", `DELETE FROM songs WHERE id = $1;`, id)
}
