package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const blacklistColumns = `id, type, value, reason, is_active, created_by, created_at, updated_at`

// ListBlacklist returns entries in id order, which is the order the filter evaluates them.
func (q *queries) ListBlacklist(ctx context.Context, activeOnly bool) ([]model.BlacklistEntry, error) {
	out := []model.BlacklistEntry{}
	err := q.selectAll(ctx, &out, `
	SELECT `+blacklistColumns+` FROM song_blacklist
	 WHERE ($1 = false OR is_active = true)
	 ORDER BY id;`, activeOnly)
	if err != nil {
		log.Error().Err(err).Msg("ListBlacklist failed")
		return nil, err
	}
	return out, nil
}

func (q *queries) CreateBlacklistEntry(ctx context.Context, e model.BlacklistEntry) (model.BlacklistEntry, error) {
	var out model.BlacklistEntry
	err := q.get(ctx, &out, `
	INSERT INTO song_blacklist (type, value, reason, is_active, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, now(), now())
	RETURNING `+blacklistColumns+`;`, e.Type, e.Value, e.Reason, e.IsActive, e.CreatedBy)
	if err != nil {
		log.Error().Err(err).Str("type", string(e.Type)).Msg("CreateBlacklistEntry failed")
		return model.BlacklistEntry{}, err
	}
	return out, nil
}

func (q *queries) SetBlacklistEntryActive(ctx context.Context, id int, active bool) error {
	return q.execOne(ctx, "SetBlacklistEntryActive", `
	UPDATE song_blacklist SET is_active = $2, updated_at = now() WHERE id = $1;`, id, active)
}

func (q *queries) DeleteBlacklistEntry(ctx context.Context, id int) error {
	return q.execOne(ctx, "DeleteBlacklistEntry", `DELETE FROM song_blacklist WHERE id = $1;`, id)
}
