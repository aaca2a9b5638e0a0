package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"babylog/internal/model"
)

// OpenSleep records start as the open session, replacing any earlier one.
func (s *Postgres) OpenSleep(ctx context.Context, userID int64, start time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, sleep_start) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET sleep_start = EXCLUDED.sleep_start`,
		userID, encodeStart(start),
	)
	if err != nil {
		return unavailable("open sleep", err)
	}
	return nil
}

// CloseSleep reads the open start under a row lock, stores the interval
// built from it and clears the session in one transaction.
func (s *Postgres) CloseSleep(ctx context.Context, userID int64, build BuildInterval) (model.SleepInterval, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.SleepInterval{}, unavailable("begin close sleep", err)
	}
	defer tx.Rollback(ctx)

	var raw *string
	err = tx.QueryRow(ctx,
		`SELECT sleep_start FROM users WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && raw == nil) {
		return model.SleepInterval{}, ErrNoSession
	}
	if err != nil {
		return model.SleepInterval{}, unavailable("select sleep start", err)
	}
	start, err := decodeStart(*raw)
	if err != nil {
		return model.SleepInterval{}, err
	}

	iv := build(start)
	_, err = tx.Exec(ctx,
		`INSERT INTO sleep (id, user_id, sleep_start, sleep_end, duration, tz, date)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		iv.ID, iv.UserID, iv.Start, iv.End, iv.Duration, iv.Timezone, iv.Date,
	)
	if err != nil {
		return model.SleepInterval{}, unavailable("insert sleep", err)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE users SET sleep_start = NULL WHERE user_id = $1`, userID,
	); err != nil {
		return model.SleepInterval{}, unavailable("clear sleep start", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.SleepInterval{}, unavailable("commit close sleep", err)
	}
	return iv, nil
}

func (s *Postgres) SleepOn(ctx context.Context, userID int64, date string) ([]model.SleepInterval, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, sleep_start, sleep_end, duration, tz, date
		 FROM sleep
		 WHERE user_id = $1 AND date = $2
		 ORDER BY seq`, userID, date,
	)
	if err != nil {
		return nil, unavailable("query sleep", err)
	}
	defer rows.Close()

	var out []model.SleepInterval
	for rows.Next() {
		var iv model.SleepInterval
		if err := rows.Scan(
			&iv.ID, &iv.UserID, &iv.Start, &iv.End, &iv.Duration, &iv.Timezone, &iv.Date,
		); err != nil {
			return nil, unavailable("scan sleep", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate sleep", err)
	}
	return out, nil
}
