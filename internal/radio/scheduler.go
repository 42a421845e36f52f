package radio

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/metrics"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

// RankCandidates orders by tally descending, then submission time, then id.
func RankCandidates(cs []model.Candidate) []model.Candidate {
	out := slices.Clone(cs)
	slices.SortFunc(out, func(a, b model.Candidate) int {
		if c := cmp.Compare(b.Tally, a.Tally); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.SongID, b.SongID)
	})
	return out
}

func isSequenceConflict(err error) bool {
	return db.IsUniqueViolation(err, db.ConstraintBucketSequence) ||
		db.IsUniqueViolation(err, db.ConstraintPendingSongSchedule)
}

// AssignSlots appends the eligible candidates to the (playDate, playTimeID) bucket in
// ranked order and returns the candidates' pending rows there, ordered by sequence.
// Candidates already pending in the bucket keep their rows, so repeating a call is a no-op.
// Played songs and songs pending in another bucket are skipped.
func (s *Service) AssignSlots(ctx context.Context, playDate time.Time, playTimeID int, songIDs []int) ([]model.Schedule, error) {
	if len(songIDs) == 0 {
		return nil, validationf("no candidate songs given")
	}
	if playTimeID <= 0 {
		return nil, validationf("play time id must be positive")
	}
	date := model.DateOf(playDate)
	if date.Before(model.DateOf(s.now())) {
		return nil, validationf("play date %s is in the past", date.Format(time.DateOnly))
	}
	ids := lo.Uniq(songIDs)
	if lo.SomeBy(ids, func(id int) bool { return id <= 0 }) {
		return nil, validationf("song ids must be positive")
	}
	bucket := model.NewBucket(date, playTimeID)

	var out []model.Schedule
	attempt := func() error {
		return s.store.InTx(ctx, func(q db.Queries) error {
			var err error
			out, err = assignInBucket(ctx, q, bucket, ids)
			return err
		})
	}

	err := attempt()
	if isSequenceConflict(err) {
		metrics.ScheduleConflicts.Inc()
		log.Warn().Err(err).Str("bucket", bucket.String()).Msg("sequence conflict, retrying slot assignment")
		err = attempt()
	}
	if err != nil {
		if isSequenceConflict(err) {
			return nil, &Error{Kind: KindConflict, Message: "bucket " + bucket.String() + " changed concurrently", Err: err}
		}
		return nil, fromStore(err, "schedule", 0)
	}
	return out, nil
}

func assignInBucket(ctx context.Context, q db.Queries, b model.Bucket, ids []int) ([]model.Schedule, error) {
	if err := q.LockBucket(ctx, b); err != nil {
		return nil, fromStore(err, "schedule", 0)
	}
	pt, err := q.GetPlayTime(ctx, b.PlayTimeID)
	if err != nil {
		return nil, fromStore(err, "play time", b.PlayTimeID)
	}
	if !pt.Enabled {
		return nil, validationf("play time %d is disabled", pt.ID)
	}

	cands, err := q.ListCandidates(ctx, ids)
	if err != nil {
		return nil, fromStore(err, "song", 0)
	}
	found := lo.Map(cands, func(c model.Candidate, _ int) int { return c.SongID })
	if missing := lo.Without(ids, found...); len(missing) > 0 {
		return nil, notFound("song", missing[0])
	}

	fresh := lo.Filter(cands, func(c model.Candidate, _ int) bool {
		return !c.Played && c.PendingScheduleID == nil
	})
	elsewhere := lo.FilterMap(cands, func(c model.Candidate, _ int) (int, bool) {
		return c.SongID, c.PendingScheduleID != nil && !c.PendingIn(b)
	})
	if len(elsewhere) > 0 {
		log.Debug().Str("bucket", b.String()).Ints("song_ids", elsewhere).Msg("skipping songs pending in another bucket")
	}

	next, err := q.MaxBucketSequence(ctx, b)
	if err != nil {
		return nil, fromStore(err, "schedule", 0)
	}
	playTimeID := b.PlayTimeID
	for _, c := range RankCandidates(fresh) {
		next++
		if _, err := q.CreateSchedule(ctx, model.Schedule{
			SongID:     c.SongID,
			PlayDate:   b.PlayDate,
			Sequence:   next,
			PlayTimeID: &playTimeID,
		}); err != nil {
			return nil, err
		}
	}
	metrics.SchedulesAssigned.Add(float64(len(fresh)))

	pending, err := q.ListPendingInBucket(ctx, b)
	if err != nil {
		return nil, fromStore(err, "schedule", 0)
	}
	return lo.Filter(pending, func(sc model.Schedule, _ int) bool {
		return lo.Contains(ids, sc.SongID)
	}), nil
}

// Requeue moves a pending row to the end of its bucket. A row that is already last is
// returned unchanged.
func (s *Service) Requeue(ctx context.Context, scheduleID int) (model.Schedule, error) {
	current, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return model.Schedule{}, fromStore(err, "schedule", scheduleID)
	}
	bucket := current.Bucket()

	var out model.Schedule
	err = s.store.InTx(ctx, func(q db.Queries) error {
		if err := q.LockBucket(ctx, bucket); err != nil {
			return fromStore(err, "schedule", scheduleID)
		}
		sc, err := q.GetScheduleForUpdate(ctx, scheduleID)
		if err != nil {
			return fromStore(err, "schedule", scheduleID)
		}
		if sc.Played {
			return invalidState("schedule %d was already played", scheduleID)
		}
		last, err := q.MaxBucketSequence(ctx, bucket)
		if err != nil {
			return fromStore(err, "schedule", scheduleID)
		}
		if sc.Sequence < last {
			if err := q.UpdateScheduleSequence(ctx, sc.ID, last+1); err != nil {
				return err
			}
			sc.Sequence = last + 1
		}
		out = sc
		return nil
	})
	if isSequenceConflict(err) {
		return model.Schedule{}, &Error{Kind: KindConflict, Message: "bucket " + bucket.String() + " changed concurrently", Err: err}
	}
	if err != nil {
		return model.Schedule{}, fromStore(err, "schedule", scheduleID)
	}
	return out, nil
}

// Unschedule deletes a pending row; the song goes back to PENDING.
func (s *Service) Unschedule(ctx context.Context, scheduleID int) error {
	return s.store.InTx(ctx, func(q db.Queries) error {
		sc, err := q.GetScheduleForUpdate(ctx, scheduleID)
		if err != nil {
			return fromStore(err, "schedule", scheduleID)
		}
		if sc.Played {
			return invalidState("schedule %d was already played", scheduleID)
		}
		return fromStore(q.DeleteSchedule(ctx, scheduleID), "schedule", scheduleID)
	})
}

func (s *Service) ListBucket(ctx context.Context, playDate time.Time, playTimeID int) ([]model.ScheduleEntry, error) {
	list, err := s.store.ListScheduleEntries(ctx, model.DateOf(playDate), &playTimeID)
	if err != nil {
		return nil, fromStore(err, "schedule", 0)
	}
	return list, nil
}

// ListDay returns every row of the day, grouped by play time then sequence.
func (s *Service) ListDay(ctx context.Context, playDate time.Time) ([]model.ScheduleEntry, error) {
	list, err := s.store.ListScheduleEntries(ctx, model.DateOf(playDate), nil)
	if err != nil {
		return nil, fromStore(err, "schedule", 0)
	}
	return list, nil
}
