package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

func (q *queries) HasVote(ctx context.Context, songID, userID int) (bool, error) {
	var exists bool
	err := q.get(ctx, &exists, `
	SELECT EXISTS(SELECT 1 FROM votes WHERE song_id = $1 AND user_id = $2);`, songID, userID)
	if err != nil {
		log.Error().Err(err).Int("song_id", songID).Int("user_id", userID).Msg("HasVote failed")
		return false, err
	}
	return exists, nil
}

// CreateVote relies on votes_song_user_key; a duplicate comes back as *UniqueViolation.
func (q *queries) CreateVote(ctx context.Context, songID, userID int) (model.Vote, error) {
	var v model.Vote
	err := q.get(ctx, &v, `
	INSERT INTO votes (song_id, user_id, created_at)
	VALUES ($1, $2, now())
	RETURNING id, song_id, user_id, created_at;`, songID, userID)
	if err != nil {
		if !IsUniqueViolation(err, ConstraintVoteUnique) {
			log.Error().Err(err).Int("song_id", songID).Int("user_id", userID).Msg("CreateVote failed")
		}
		return model.Vote{}, err
	}
	return v, nil
}

// DeleteVote reports whether a row was removed.
func (q *queries) DeleteVote(ctx context.Context, songID, userID int) (bool, error) {
	n, err := q.exec(ctx, "DeleteVote", `DELETE FROM votes WHERE song_id = $1 AND user_id = $2;`, songID, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (q *queries) CountVotes(ctx context.Context, songID int) (int, error) {
	var n int
	if err := q.get(ctx, &n, `SELECT count(*) FROM votes WHERE song_id = $1;`, songID); err != nil {
		log.Error().Err(err).Int("song_id", songID).Msg("CountVotes failed")
		return 0, err
	}
	return n, nil
}

func (q *queries) ListVoterIDs(ctx context.Context, songID int) ([]int, error) {
	ids := []int{}
	if err := q.selectAll(ctx, &ids, `SELECT user_id FROM votes WHERE song_id = $1 ORDER BY id;`, songID); err != nil {
		log.Error().Err(err).Int("song_id", songID).Msg("ListVoterIDs failed")
		return nil, err
	}
	return ids, nil
}
