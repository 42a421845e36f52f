package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

var (
	ErrNotFound        = errors.New("db: not found")
	ErrUniqueViolation = errors.New("db: unique violation")
	ErrUnavailable     = errors.New("db: store unavailable")
	ErrInUse           = errors.New("db: row is still referenced")
)

// Constraint and index names the service layer reacts to.
const (
	ConstraintVoteUnique          = "votes_song_user_key"
	ConstraintBucketSequence      = "schedules_pending_bucket_sequence_key"
	ConstraintPendingSongSchedule = "schedules_pending_song_key"
	ConstraintUsername            = "users_username_key"
)

// UniqueViolation matches ErrUniqueViolation and names the violated constraint.
type UniqueViolation struct {
	Constraint string
	Err        error
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("db: unique violation on %s", e.Constraint)
}

func (e *UniqueViolation) Is(target error) bool { return target == ErrUniqueViolation }

func (e *UniqueViolation) Unwrap() error { return e.Err }

// IsUniqueViolation reports whether err violated the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var uv *UniqueViolation
	return errors.As(err, &uv) && uv.Constraint == constraint
}

// translate maps driver errors onto the package sentinels at the store boundary.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return &UniqueViolation{Constraint: pqErr.Constraint, Err: err}
		case pqErr.Code == "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrInUse, pqErr.Constraint)
		case pqErr.Code.Class() == "08",
			pqErr.Code == "57P01", // admin_shutdown
			pqErr.Code == "57P03", // cannot_connect_now
			pqErr.Code == "53300": // too_many_connections
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
