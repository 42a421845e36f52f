package db

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const notificationColumns = `id, type, message, read, user_id, song_id, created_at, updated_at`

func (q *queries) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	var out model.Notification
	err := q.get(ctx, &out, `
	INSERT INTO notifications (type, message, read, user_id, song_id, created_at, updated_at)
	VALUES ($1, $2, false, $3, $4, now(), now())
	RETURNING `+notificationColumns+`;`, n.Type, n.Message, n.UserID, n.SongID)
	if err != nil {
		log.Error().Err(err).Int("user_id", n.UserID).Str("type", string(n.Type)).Msg("CreateNotification failed")
		return model.Notification{}, err
	}
	return out, nil
}

func (q *queries) ListNotifications(ctx context.Context, userID int, unreadOnly bool, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	out := []model.Notification{}
	err := q.selectAll(ctx, &out, `
	SELECT `+notificationColumns+` FROM notifications
	 WHERE user_id = $1 AND ($2 = false OR read = false)
	 ORDER BY created_at DESC, id DESC
	 LIMIT $3;`, userID, unreadOnly, limit)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("ListNotifications failed")
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead only touches notifications owned by userID.
func (q *queries) MarkNotificationRead(ctx context.Context, userID, id int) error {
	return q.execOne(ctx, "MarkNotificationRead", `
	UPDATE notifications SET read = true, updated_at = now()
	 WHERE id = $1 AND user_id = $2;`, id, userID)
}

func (q *queries) MarkAllNotificationsRead(ctx context.Context, userID int) (int64, error) {
	return q.exec(ctx, "MarkAllNotificationsRead", `
	UPDATE notifications SET read = true, updated_at = now()
	 WHERE user_id = $1 AND read = false;`, userID)
}

const notificationSettingsColumns = `
	id, user_id, enabled, song_request_enabled, song_voted_enabled, song_played_enabled,
	refresh_interval, song_voted_threshold, created_at, updated_at`

// GetNotificationSettings falls back to the defaults for users without a row.
func (q *queries) GetNotificationSettings(ctx context.Context, userID int) (model.NotificationSettings, error) {
	var s model.NotificationSettings
	err := q.get(ctx, &s, `SELECT`+notificationSettingsColumns+` FROM notification_settings WHERE user_id = $1;`, userID)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("GetNotificationSettings failed")
		return model.NotificationSettings{}, err
	}
	return s, nil
}

func (q *queries) UpsertNotificationSettings(ctx context.Context, s model.NotificationSettings) (model.NotificationSettings, error) {
	var out model.NotificationSettings
	err := q.get(ctx, &out, `
	INSERT INTO notification_settings
	  (user_id, enabled, song_request_enabled, song_voted_enabled, song_played_enabled,
	   refresh_interval, song_voted_threshold, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	ON CONFLICT (user_id) DO UPDATE SET
	  enabled              = EXCLUDED.enabled,
	  song_request_enabled = EXCLUDED.song_request_enabled,
	  song_voted_enabled   = EXCLUDED.song_voted_enabled,
	  song_played_enabled  = EXCLUDED.song_played_enabled,
	  refresh_interval     = EXCLUDED.refresh_interval,
	  song_voted_threshold = EXCLUDED.song_voted_threshold,
	  updated_at           = now()
	RETURNING`+notificationSettingsColumns+`;`,
		s.UserID, s.Enabled, s.SongRequestEnabled, s.SongVotedEnabled, s.SongPlayedEnabled,
		s.RefreshInterval, s.SongVotedThreshold,
	)
	if err != nil {
		log.Error().Err(err).Int("user_id", s.UserID).Msg("UpsertNotificationSettings failed")
		return model.NotificationSettings{}, err
	}
	return out, nil
}
