package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"babylog/internal/model"
)

// SQLite keeps everything in a single database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, unavailable("open sqlite", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, unavailable("ping sqlite", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Migrate(ctx context.Context) error {
	ddl, err := schema("sqlite")
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return unavailable("migrate", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Timezone(ctx context.Context, userID int64) (string, bool, error) {
	var tz sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT timezone FROM users WHERE user_id = ?`, userID,
	).Scan(&tz)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("select timezone", err)
	}
	if !tz.Valid || tz.String == "" {
		return "", false, nil
	}
	return tz.String, true, nil
}

func (s *SQLite) SetTimezone(ctx context.Context, userID int64, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, timezone, sleep_start) VALUES (?, ?, NULL)
		 ON CONFLICT (user_id) DO UPDATE SET timezone = excluded.timezone, sleep_start = NULL, awaiting = ''`,
		userID, name,
	)
	if err != nil {
		return unavailable("upsert timezone", err)
	}
	return nil
}

func (s *SQLite) SleepState(ctx context.Context, userID int64) (model.SleepState, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT sleep_start FROM users WHERE user_id = ?`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !raw.Valid) {
		return model.Awake(), nil
	}
	if err != nil {
		return model.SleepState{}, unavailable("select sleep state", err)
	}
	start, err := decodeStart(raw.String)
	if err != nil {
		return model.SleepState{}, err
	}
	return model.Asleep(start), nil
}

func (s *SQLite) Prompt(ctx context.Context, userID int64) (model.Prompt, error) {
	var p string
	err := s.db.QueryRowContext(ctx,
		`SELECT awaiting FROM users WHERE user_id = ?`, userID,
	).Scan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PromptNone, nil
	}
	if err != nil {
		return model.PromptNone, unavailable("select prompt", err)
	}
	return model.Prompt(p), nil
}

func (s *SQLite) SetPrompt(ctx context.Context, userID int64, p model.Prompt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, awaiting) VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET awaiting = excluded.awaiting`,
		userID, string(p),
	)
	if err != nil {
		return unavailable("upsert prompt", err)
	}
	return nil
}

func (s *SQLite) OpenSleep(ctx context.Context, userID int64, start time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, sleep_start) VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET sleep_start = excluded.sleep_start`,
		userID, encodeStart(start),
	)
	if err != nil {
		return unavailable("open sleep", err)
	}
	return nil
}

// CloseSleep runs in an immediate transaction (see _txlock) so the
// read-insert-clear sequence cannot interleave with another writer.
func (s *SQLite) CloseSleep(ctx context.Context, userID int64, build BuildInterval) (model.SleepInterval, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.SleepInterval{}, unavailable("begin close sleep", err)
	}
	defer tx.Rollback()

	var raw sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT sleep_start FROM users WHERE user_id = ?`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !raw.Valid) {
		return model.SleepInterval{}, ErrNoSession
	}
	if err != nil {
		return model.SleepInterval{}, unavailable("select sleep start", err)
	}
	start, err := decodeStart(raw.String)
	if err != nil {
		return model.SleepInterval{}, err
	}

	iv := build(start)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sleep (id, user_id, sleep_start, sleep_end, duration, tz, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		iv.ID, iv.UserID, iv.Start, iv.End, iv.Duration, iv.Timezone, iv.Date,
	); err != nil {
		return model.SleepInterval{}, unavailable("insert sleep", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET sleep_start = NULL WHERE user_id = ?`, userID,
	); err != nil {
		return model.SleepInterval{}, unavailable("clear sleep start", err)
	}
	if err := tx.Commit(); err != nil {
		return model.SleepInterval{}, unavailable("commit close sleep", err)
	}
	return iv, nil
}

func (s *SQLite) SleepOn(ctx context.Context, userID int64, date string) ([]model.SleepInterval, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, sleep_start, sleep_end, duration, tz, date
		 FROM sleep
		 WHERE user_id = ? AND date = ?
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

func (s *SQLite) AddFeeding(ctx context.Context, f *model.FeedingEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin add feeding", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO feeding (id, user_id, time, amount, tz, date) VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.UserID, f.Time, f.Amount, f.Timezone, f.Date,
	); err != nil {
		return unavailable("insert feeding", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET awaiting = '' WHERE user_id = ?`, f.UserID,
	); err != nil {
		return unavailable("clear prompt", err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit add feeding", err)
	}
	return nil
}

func (s *SQLite) FeedingOn(ctx context.Context, userID int64, date string) ([]model.FeedingEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, time, amount, tz, date
		 FROM feeding
		 WHERE user_id = ? AND date = ?
		 ORDER BY seq`, userID, date,
	)
	if err != nil {
		return nil, unavailable("query feeding", err)
	}
	defer rows.Close()

	var out []model.FeedingEvent
	for rows.Next() {
		var f model.FeedingEvent
		if err := rows.Scan(&f.ID, &f.UserID, &f.Time, &f.Amount, &f.Timezone, &f.Date); err != nil {
			return nil, unavailable("scan feeding", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate feeding", err)
	}
	return out, nil
}
