package radio

import (
	"context"
	"fmt"
	"time"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

// dayStart is midnight UTC of now's calendar day.
func dayStart(now time.Time) time.Time {
	return model.DateOf(now)
}

// weekStart is Monday 00:00 UTC of now's ISO week.
func weekStart(now time.Time) time.Time {
	d := model.DateOf(now)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// EvaluateLimit decides a submission given the user's counts in the current day and week.
// A nil limit means that window is uncapped.
func EvaluateLimit(s model.SystemSettings, daily, weekly int) *Error {
	if !s.EnableSubmissionLimit {
		return nil
	}
	if s.DailySubmissionLimit != nil && daily >= *s.DailySubmissionLimit {
		return &Error{
			Kind:    KindDailyLimit,
			Message: fmt.Sprintf("daily submission limit of %d reached", *s.DailySubmissionLimit),
		}
	}
	if s.WeeklySubmissionLimit != nil && weekly >= *s.WeeklySubmissionLimit {
		return &Error{
			Kind:    KindWeeklyLimit,
			Message: fmt.Sprintf("weekly submission limit of %d reached", *s.WeeklySubmissionLimit),
		}
	}
	return nil
}

// CheckLimit reports whether userID may submit at now. It does not lock; Submit re-checks
// under the per-user lock.
func (s *Service) CheckLimit(ctx context.Context, userID int, now time.Time) error {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return fromStore(err, "settings", 0)
	}
	return checkLimit(ctx, s.store, settings, userID, now)
}

func checkLimit(ctx context.Context, q db.Queries, settings model.SystemSettings, userID int, now time.Time) error {
	if !settings.EnableSubmissionLimit {
		return nil
	}
	daily, err := q.CountSongsByRequesterSince(ctx, userID, dayStart(now))
	if err != nil {
		return fromStore(err, "user", userID)
	}
	weekly, err := q.CountSongsByRequesterSince(ctx, userID, weekStart(now))
	if err != nil {
		return fromStore(err, "user", userID)
	}
	if rej := EvaluateLimit(settings, daily, weekly); rej != nil {
		return rej
	}
	return nil
}
