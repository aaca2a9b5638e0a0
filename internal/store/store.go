// Package store persists users, their sleep session state and the
// append-only sleep and feeding logs. Two backends share one contract:
// Postgres (pgxpool) and SQLite (modernc).
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"babylog/internal/model"
)

var (
	// ErrUnavailable marks failures of the storage engine itself.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrNoSession is returned by CloseSleep when nothing is open.
	ErrNoSession = errors.New("no open sleep session")
)

//go:embed migrations/*.sql
var migrations embed.FS

// BuildInterval turns the recorded start of an open session into the
// completed interval that CloseSleep persists.
type BuildInterval func(start time.Time) model.SleepInterval

type Backend interface {
	Timezone(ctx context.Context, userID int64) (string, bool, error)
	SetTimezone(ctx context.Context, userID int64, name string) error
	SleepState(ctx context.Context, userID int64) (model.SleepState, error)
	OpenSleep(ctx context.Context, userID int64, start time.Time) error
	CloseSleep(ctx context.Context, userID int64, build BuildInterval) (model.SleepInterval, error)
	Prompt(ctx context.Context, userID int64) (model.Prompt, error)
	SetPrompt(ctx context.Context, userID int64, p model.Prompt) error
	// AddFeeding also clears the user's pending prompt in the same write.
	AddFeeding(ctx context.Context, f *model.FeedingEvent) error
	SleepOn(ctx context.Context, userID int64, date string) ([]model.SleepInterval, error)
	FeedingOn(ctx context.Context, userID int64, date string) ([]model.FeedingEvent, error)
	Migrate(ctx context.Context) error
	Close() error
}

var (
	_ Backend = (*Postgres)(nil)
	_ Backend = (*SQLite)(nil)
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}

// open sleep starts keep their offset so the start clock time survives a reload
func encodeStart(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func decodeStart(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse sleep start %q: %w", raw, err)
	}
	return t, nil
}

func schema(name string) (string, error) {
	b, err := migrations.ReadFile("migrations/" + name + ".sql")
	if err != nil {
		return "", fmt.Errorf("read %s schema: %w", name, err)
	}
	return string(b), nil
}
