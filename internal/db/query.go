package db

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

func (q *queries) get(ctx context.Context, dest any, query string, args ...any) error {
	return translate(sqlx.GetContext(ctx, q.ext, dest, query, args...))
}

func (q *queries) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return translate(sqlx.SelectContext(ctx, q.ext, dest, query, args...))
}

// execOne runs a statement that must touch exactly one row; zero rows is ErrNotFound.
func (q *queries) execOne(ctx context.Context, op, query string, args ...any) error {
	n, err := q.exec(ctx, op, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *queries) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := q.ext.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("exec failed")
		return 0, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func logUnlessNotFound(err error, msg, key string, val any) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	log.Error().Err(err).Interface(key, val).Msg(msg)
}
