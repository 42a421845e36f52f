package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const playTimeColumns = `id, name, start_time, end_time, enabled, description, created_at, updated_at`

func (q *queries) ListPlayTimes(ctx context.Context, enabledOnly bool) ([]model.PlayTime, error) {
	out := []model.PlayTime{}
	err := q.selectAll(ctx, &out, `
	SELECT `+playTimeColumns+` FROM play_times
	 WHERE ($1 = false OR enabled = true)
	 ORDER BY start_time NULLS LAST, id;`, enabledOnly)
	if err != nil {
		log.Error().Err(err).Msg("ListPlayTimes failed")
		return nil, err
	}
	return out, nil
}

func (q *queries) GetPlayTime(ctx context.Context, id int) (model.PlayTime, error) {
	var p model.PlayTime
	if err := q.get(ctx, &p, `SELECT `+playTimeColumns+` FROM play_times WHERE id = $1;`, id); err != nil {
		logUnlessNotFound(err, "GetPlayTime failed", "play_time_id", id)
		return model.PlayTime{}, err
	}
	return p, nil
}

func (q *queries) CreatePlayTime(ctx context.Context, p model.PlayTime) (model.PlayTime, error) {
	var out model.PlayTime
	err := q.get(ctx, &out, `
	INSERT INTO play_times (name, start_time, end_time, enabled, description, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, now(), now())
	RETURNING `+playTimeColumns+`;`, p.Name, p.StartTime, p.EndTime, p.Enabled, p.Description)
	if err != nil {
		log.Error().Err(err).Str("name", p.Name).Msg("CreatePlayTime failed")
		return model.PlayTime{}, err
	}
	return out, nil
}

func (q *queries) UpdatePlayTime(ctx context.Context, p model.PlayTime) error {
	return q.execOne(ctx, "UpdatePlayTime", `
	UPDATE play_times
	   SET name = $2, start_time = $3, end_time = $4, enabled = $5, description = $6, updated_at = now()
	 WHERE id = $1;`, p.ID, p.Name, p.StartTime, p.EndTime, p.Enabled, p.Description)
}

// DeletePlayTime fails with a foreign key error while schedule rows still use the slot.
func (q *queries) DeletePlayTime(ctx context.Context, id int) error {
	return q.execOne(ctx, "DeletePlayTime", `DELETE FROM play_times WHERE id = $1;`, id)
}
