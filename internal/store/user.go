package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"babylog/internal/model"
)

func (s *Postgres) Timezone(ctx context.Context, userID int64) (string, bool, error) {
	var tz *string
	err := s.pool.QueryRow(ctx,
		`SELECT timezone FROM users WHERE user_id = $1`, userID,
	).Scan(&tz)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("select timezone", err)
	}
	if tz == nil || *tz == "" {
		return "", false, nil
	}
	return *tz, true, nil
}

// SetTimezone also drops any open sleep session and pending prompt; the
// session start was local to the old zone.
func (s *Postgres) SetTimezone(ctx context.Context, userID int64, name string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, timezone, sleep_start) VALUES ($1, $2, NULL)
		 ON CONFLICT (user_id) DO UPDATE SET timezone = EXCLUDED.timezone, sleep_start = NULL, awaiting = ''`,
		userID, name,
	)
	if err != nil {
		return unavailable("upsert timezone", err)
	}
	return nil
}

func (s *Postgres) SleepState(ctx context.Context, userID int64) (model.SleepState, error) {
	var raw *string
	err := s.pool.QueryRow(ctx,
		`SELECT sleep_start FROM users WHERE user_id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && raw == nil) {
		return model.Awake(), nil
	}
	if err != nil {
		return model.SleepState{}, unavailable("select sleep state", err)
	}
	start, err := decodeStart(*raw)
	if err != nil {
		return model.SleepState{}, err
	}
	return model.Asleep(start), nil
}

func (s *Postgres) Prompt(ctx context.Context, userID int64) (model.Prompt, error) {
	var p string
	err := s.pool.QueryRow(ctx,
		`SELECT awaiting FROM users WHERE user_id = $1`, userID,
	).Scan(&p)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PromptNone, nil
	}
	if err != nil {
		return model.PromptNone, unavailable("select prompt", err)
	}
	return model.Prompt(p), nil
}

func (s *Postgres) SetPrompt(ctx context.Context, userID int64, p model.Prompt) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, awaiting) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET awaiting = EXCLUDED.awaiting`,
		userID, string(p),
	)
	if err != nil {
		return unavailable("upsert prompt", err)
	}
	return nil
}
