// exposes a Store interface that is passed to services and API controllers
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

// Queries is every statement the service runs. The same set is available on the
// pool and inside a transaction.
type Queries interface {
	// users
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUserByID(ctx context.Context, id int) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	TouchUserLogin(ctx context.Context, id int, ip string, at time.Time) error
	UpdateUserPassword(ctx context.Context, id int, passwordHash string, at time.Time) error
	ListUsers(ctx context.Context, limit, offset int) ([]model.User, error)
	// LockUser takes a transaction-scoped advisory lock keyed by user id.
	LockUser(ctx context.Context, id int) error

	// settings and semesters
	GetSystemSettings(ctx context.Context) (model.SystemSettings, error)
	UpdateSystemSettings(ctx context.Context, s model.SystemSettings) (model.SystemSettings, error)
	GetActiveSemester(ctx context.Context) (model.Semester, error)
	ListSemesters(ctx context.Context) ([]model.Semester, error)
	CreateSemester(ctx context.Context, name string) (model.Semester, error)
	ActivateSemester(ctx context.Context, id int) error

	// blacklist
	ListBlacklist(ctx context.Context, activeOnly bool) ([]model.BlacklistEntry, error)
	CreateBlacklistEntry(ctx context.Context, e model.BlacklistEntry) (model.BlacklistEntry, error)
	SetBlacklistEntryActive(ctx context.Context, id int, active bool) error
	DeleteBlacklistEntry(ctx context.Context, id int) error

	// play times
	ListPlayTimes(ctx context.Context, enabledOnly bool) ([]model.PlayTime, error)
	GetPlayTime(ctx context.Context, id int) (model.PlayTime, error)
	CreatePlayTime(ctx context.Context, p model.PlayTime) (model.PlayTime, error)
	UpdatePlayTime(ctx context.Context, p model.PlayTime) error
	DeletePlayTime(ctx context.Context, id int) error

	// songs
	CreateSong(ctx context.Context, s model.Song) (model.Song, error)
	GetSong(ctx context.Context, id int) (model.Song, error)
	GetSongForUpdate(ctx context.Context, id int) (model.Song, error)
	GetSongDetail(ctx context.Context, id int) (model.SongDetail, error)
	ListSongDetails(ctx context.Context, f model.SongFilter) ([]model.SongDetail, error)
	CountSongsByRequesterSince(ctx context.Context, requesterID int, since time.Time) (int, error)
	MarkSongPlayed(ctx context.Context, id int, at time.Time) error
	UpdateSongCover(ctx context.Context, id int, cover string) error
	DeleteSong(ctx context.Context, id int) error

	// votes
	HasVote(ctx context.Context, songID, userID int) (bool, error)
	CreateVote(ctx context.Context, songID, userID int) (model.Vote, error)
	DeleteVote(ctx context.Context, songID, userID int) (bool, error)
	CountVotes(ctx context.Context, songID int) (int, error)
	ListVoterIDs(ctx context.Context, songID int) ([]int, error)

	// schedules
	// LockBucket takes a transaction-scoped advisory lock keyed by bucket.
	LockBucket(ctx context.Context, b model.Bucket) error
	ListCandidates(ctx context.Context, songIDs []int) ([]model.Candidate, error)
	MaxBucketSequence(ctx context.Context, b model.Bucket) (int, error)
	CreateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error)
	GetSchedule(ctx context.Context, id int) (model.Schedule, error)
	GetScheduleForUpdate(ctx context.Context, id int) (model.Schedule, error)
	GetPendingScheduleForSong(ctx context.Context, songID int) (model.Schedule, error)
	ListPendingInBucket(ctx context.Context, b model.Bucket) ([]model.Schedule, error)
	UpdateScheduleSequence(ctx context.Context, id, sequence int) error
	MarkSchedulePlayed(ctx context.Context, id int) error
	DeleteSchedule(ctx context.Context, id int) error
	ListScheduleEntries(ctx context.Context, playDate time.Time, playTimeID *int) ([]model.ScheduleEntry, error)

	// notifications
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	ListNotifications(ctx context.Context, userID int, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id int) error
	MarkAllNotificationsRead(ctx context.Context, userID int) (int64, error)
	GetNotificationSettings(ctx context.Context, userID int) (model.NotificationSettings, error)
	UpsertNotificationSettings(ctx context.Context, s model.NotificationSettings) (model.NotificationSettings, error)

	// api keys
	CreateAPIKey(ctx context.Context, k model.APIKey) (model.APIKey, error)
	GetAPIKeyByHash(ctx context.Context, keyHash string) (model.APIKey, error)
	ListAPIKeys(ctx context.Context) ([]model.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID) error
	TouchAPIKey(ctx context.Context, id uuid.UUID, at time.Time) error
	CreateAPILog(ctx context.Context, l model.APILog) error
}

type Store interface {
	Queries
	// InTx runs fn in one READ COMMITTED transaction. An error from fn rolls it back.
	InTx(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
}

// queries runs statements against either the pool or a transaction.
type queries struct {
	ext sqlx.ExtContext
}

type pgStore struct {
	*queries
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{queries: &queries{ext: conn}, db: conn}
}

func (s *pgStore) InTx(ctx context.Context, fn func(q Queries) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		log.Error().Err(err).Msg("begin transaction failed")
		return translate(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&queries{ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("commit failed")
		return translate(err)
	}
	return nil
}

func (s *pgStore) Ping(ctx context.Context) error {
	return translate(s.db.PingContext(ctx))
}

// advisory lock namespaces, first key of pg_advisory_xact_lock(int, int)
const (
	lockNamespaceUser   = 7101
	lockNamespaceBucket = 7102
)
