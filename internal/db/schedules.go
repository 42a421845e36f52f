package db

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

// dateParam renders the UTC calendar day for DATE columns.
func dateParam(t time.Time) string {
	return model.DateOf(t).Format(time.DateOnly)
}

const scheduleColumns = `id, song_id, play_date, played, sequence, play_time_id, created_at, updated_at`

func (q *queries) LockBucket(ctx context.Context, b model.Bucket) error {
	_, err := q.ext.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock($1, hashtext($2));`, lockNamespaceBucket, b.String())
	if err != nil {
		log.Error().Err(err).Str("bucket", b.String()).Msg("LockBucket failed")
	}
	return translate(err)
}

// ListCandidates returns the scheduling view of the given songs. Unknown ids are
// simply absent from the result.
func (q *queries) ListCandidates(ctx context.Context, songIDs []int) ([]model.Candidate, error) {
	out := []model.Candidate{}
	const query = `
	SELECT s.id, s.created_at, s.played,
	       (SELECT count(*) FROM votes v WHERE v.song_id = s.id) AS tally,
	       p.id           AS pending_schedule_id,
	       p.play_date    AS pending_play_date,
	       p.play_time_id AS pending_play_time_id
	  FROM songs s
	  LEFT JOIN schedules p ON p.song_id = s.id AND p.played = false
	 WHERE s.id = ANY($1)
	 ORDER BY s.id;`
	if err := q.selectAll(ctx, &out, query, pq.Array(songIDs)); err != nil {
		log.Error().Err(err).Ints("song_ids", songIDs).Msg("ListCandidates failed")
		return nil, err
	}
	return out, nil
}

// MaxBucketSequence covers played rows too, so new rows never reuse a sequence
// that is still visible in the day's history.
func (q *queries) MaxBucketSequence(ctx context.Context, b model.Bucket) (int, error) {
	var n int
	err := q.get(ctx, &n, `
	SELECT COALESCE(max(sequence), 0) FROM schedules
	 WHERE play_date = $1 AND play_time_id = $2;`, dateParam(b.PlayDate), b.PlayTimeID)
	if err != nil {
		log.Error().Err(err).Str("bucket", b.String()).Msg("MaxBucketSequence failed")
		return 0, err
	}
	return n, nil
}

func (q *queries) CreateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	err := q.get(ctx, &out, `
	INSERT INTO schedules (song_id, play_date, played, sequence, play_time_id, created_at, updated_at)
	VALUES ($1, $2, false, $3, $4, now(), now())
	RETURNING `+scheduleColumns+`;`, s.SongID, dateParam(s.PlayDate), s.Sequence, s.PlayTimeID)
	if err != nil {
		if !errors.Is(err, ErrUniqueViolation) {
			log.Error().Err(err).Int("song_id", s.SongID).Msg("CreateSchedule failed")
		}
		return model.Schedule{}, err
	}
	return out, nil
}

func (q *queries) GetSchedule(ctx context.Context, id int) (model.Schedule, error) {
	var s model.Schedule
	if err := q.get(ctx, &s, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1;`, id); err != nil {
		logUnlessNotFound(err, "GetSchedule failed", "schedule_id", id)
		return model.Schedule{}, err
	}
	return s, nil
}

func (q *queries) GetScheduleForUpdate(ctx context.Context, id int) (model.Schedule, error) {
	var s model.Schedule
	if err := q.get(ctx, &s, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1 FOR UPDATE;`, id); err != nil {
		logUnlessNotFound(err, "GetScheduleForUpdate failed", "schedule_id", id)
		return model.Schedule{}, err
	}
	return s, nil
}

func (q *queries) GetPendingScheduleForSong(ctx context.Context, songID int) (model.Schedule, error) {
	var s model.Schedule
	err := q.get(ctx, &s, `
	SELECT `+scheduleColumns+` FROM schedules
	 WHERE song_id = $1 AND played = false;`, songID)
	if err != nil {
		logUnlessNotFound(err, "GetPendingScheduleForSong failed", "song_id", songID)
		return model.Schedule{}, err
	}
	return s, nil
}

func (q *queries) ListPendingInBucket(ctx context.Context, b model.Bucket) ([]model.Schedule, error) {
	out := []model.Schedule{}
	err := q.selectAll(ctx, &out, `
	SELECT `+scheduleColumns+` FROM schedules
	 WHERE play_date = $1 AND play_time_id = $2 AND played = false
	 ORDER BY sequence, id;`, dateParam(b.PlayDate), b.PlayTimeID)
	if err != nil {
		log.Error().Err(err).Str("bucket", b.String()).Msg("ListPendingInBucket failed")
		return nil, err
	}
	return out, nil
}

func (q *queries) UpdateScheduleSequence(ctx context.Context, id, sequence int) error {
	return q.execOne(ctx, "UpdateScheduleSequence", `
	UPDATE schedules SET sequence = $2, updated_at = now()
	 WHERE id = $1 AND played = false;`, id, sequence)
}

func (q *queries) MarkSchedulePlayed(ctx context.Context, id int) error {
	return q.execOne(ctx, "MarkSchedulePlayed", `
	UPDATE schedules SET played = true, updated_at = now()
	 WHERE id = $1 AND played = false;`, id)
}

func (q *queries) DeleteSchedule(ctx context.Context, id int) error {
	return q.execOne(ctx, "DeleteSchedule", `DELETE FROM schedules WHERE id = $1;`, id)
}

// ListScheduleEntries lists a day's rows, optionally one play time only, in play order.
func (q *queries) ListScheduleEntries(ctx context.Context, playDate time.Time, playTimeID *int) ([]model.ScheduleEntry, error) {
	out := []model.ScheduleEntry{}
	const query = `
	SELECT sc.id, sc.song_id, sc.play_date, sc.played, sc.sequence, sc.play_time_id, sc.created_at, sc.updated_at,
	       s.title AS song_title, s.artist AS song_artist, s.requester_id,
	       pt.name AS play_time_name
	  FROM schedules sc
	  JOIN songs s ON s.id = sc.song_id
	  LEFT JOIN play_times pt ON pt.id = sc.play_time_id
	 WHERE sc.play_date = $1
	   AND ($2::int IS NULL OR sc.play_time_id = $2)
	 ORDER BY pt.start_time NULLS LAST, sc.play_time_id, sc.sequence, sc.id;`
	if err := q.selectAll(ctx, &out, query, dateParam(playDate), playTimeID); err != nil {
		log.Error().Err(err).Time("play_date", playDate).Msg("ListScheduleEntries failed")
		return nil, err
	}
	return out, nil
}
