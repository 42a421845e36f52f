package radio

import (
	"errors"
	"fmt"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

// Kind is the stable machine-readable category of a rejection.
type Kind string

const (
	KindValidation       Kind = "VALIDATION_ERROR"
	KindBlacklisted      Kind = "BLACKLISTED"
	KindDailyLimit       Kind = "DAILY_LIMIT_EXCEEDED"
	KindWeeklyLimit      Kind = "WEEKLY_LIMIT_EXCEEDED"
	KindAlreadyVoted     Kind = "ALREADY_VOTED"
	KindAlreadyPlayed    Kind = "ALREADY_PLAYED"
	KindInvalidState     Kind = "INVALID_STATE"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
)

// Error is a typed rejection. Entity and ID are set for NOT_FOUND, Entry for BLACKLISTED.
type Error struct {
	Kind    Kind
	Message string
	Entity  string
	ID      int
	Entry   *model.BlacklistEntry
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or "" for untyped errors.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string, id int) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

func invalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// fromStore turns store sentinels into typed rejections. Errors already typed pass through.
func fromStore(err error, entity string, id int) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	switch {
	case errors.Is(err, db.ErrNotFound):
		e := notFound(entity, id)
		e.Err = err
		return e
	case errors.Is(err, db.ErrUniqueViolation):
		return &Error{Kind: KindConflict, Message: "conflicting " + entity, Err: err}
	case errors.Is(err, db.ErrUnavailable):
		return &Error{Kind: KindStoreUnavailable, Message: "store unavailable", Err: err}
	}
	return err
}
