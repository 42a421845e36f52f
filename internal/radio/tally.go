package radio

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/metrics"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

func alreadyVoted(songID int) *Error {
	return &Error{Kind: KindAlreadyVoted, Message: "already voted for this song", Entity: "song", ID: songID}
}

func alreadyPlayed(songID int) *Error {
	return &Error{Kind: KindAlreadyPlayed, Message: "song was already played", Entity: "song", ID: songID}
}

// CastVote records one vote of userID for songID. Scheduled songs still accept votes;
// played songs do not. A duplicate surfaces as ALREADY_VOTED and is not retried.
func (s *Service) CastVote(ctx context.Context, userID, songID int) (model.Vote, error) {
	var (
		vote  model.Vote
		song  model.Song
		tally int
	)
	err := s.store.InTx(ctx, func(q db.Queries) error {
		if _, err := q.GetUserByID(ctx, userID); err != nil {
			return fromStore(err, "user", userID)
		}
		var err error
		song, err = q.GetSong(ctx, songID)
		if err != nil {
			return fromStore(err, "song", songID)
		}
		if song.Played {
			return alreadyPlayed(songID)
		}

		voted, err := q.HasVote(ctx, songID, userID)
		if err != nil {
			return fromStore(err, "vote", 0)
		}
		if voted {
			return alreadyVoted(songID)
		}

		vote, err = q.CreateVote(ctx, songID, userID)
		if db.IsUniqueViolation(err, db.ConstraintVoteUnique) {
			return alreadyVoted(songID)
		}
		if err != nil {
			return fromStore(err, "vote", 0)
		}

		tally, err = q.CountVotes(ctx, songID)
		return fromStore(err, "song", songID)
	})
	if err != nil {
		return model.Vote{}, err
	}

	metrics.VotesCast.Inc()
	log.Debug().Int("song_id", songID).Int("user_id", userID).Int("tally", tally).Msg("vote cast")
	s.notifier.Emit(Event{
		Type:        EventSongVoted,
		SongID:      song.ID,
		Title:       song.Title,
		Artist:      song.Artist,
		RequesterID: song.RequesterID,
		ActorID:     userID,
		Tally:       tally,
		At:          vote.CreatedAt,
	})
	return vote, nil
}

// RetractVote removes userID's vote if there is one. Played songs keep their votes.
func (s *Service) RetractVote(ctx context.Context, userID, songID int) error {
	return s.store.InTx(ctx, func(q db.Queries) error {
		song, err := q.GetSong(ctx, songID)
		if err != nil {
			return fromStore(err, "song", songID)
		}
		if song.Played {
			return alreadyPlayed(songID)
		}
		if _, err := q.DeleteVote(ctx, songID, userID); err != nil {
			return fromStore(err, "vote", 0)
		}
		return nil
	})
}

// Tally is the current vote count. It never mutates anything.
func (s *Service) Tally(ctx context.Context, songID int) (int, error) {
	if _, err := s.store.GetSong(ctx, songID); err != nil {
		return 0, fromStore(err, "song", songID)
	}
	n, err := s.store.CountVotes(ctx, songID)
	if err != nil {
		return 0, fromStore(err, "song", songID)
	}
	return n, nil
}
