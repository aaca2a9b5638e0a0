// Package tracker drives the per-user sleep session state machine and
// records feedings.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"babylog/internal/lock"
	"babylog/internal/model"
	"babylog/internal/store"
)

var (
	ErrNoOpenSession = errors.New("no open sleep session")
	ErrInvalidAmount = errors.New("invalid feeding amount")
)

// Clock returns the current instant. Tests swap it for a fixed one.
type Clock func() time.Time

// Localizer converts an instant to the user's local time.
type Localizer interface {
	Local(ctx context.Context, userID int64, at time.Time) (time.Time, string, error)
}

type SessionStore interface {
	SleepState(ctx context.Context, userID int64) (model.SleepState, error)
	OpenSleep(ctx context.Context, userID int64, start time.Time) error
	CloseSleep(ctx context.Context, userID int64, build store.BuildInterval) (model.SleepInterval, error)
}

// Started is what StartSleep reports back for display.
type Started struct {
	At       time.Time
	Timezone string
}

type SleepTracker struct {
	zones  Localizer
	store  SessionStore
	locker lock.Locker
	now    Clock
	log    *zap.Logger
}

func NewSleepTracker(zones Localizer, st SessionStore, locker lock.Locker, now Clock, log *zap.Logger) *SleepTracker {
	if now == nil {
		now = time.Now
	}
	return &SleepTracker{zones: zones, store: st, locker: locker, now: now, log: log}
}

// StartSleep opens a session at the current local time. Pressing it
// again while asleep moves the start to now.
func (t *SleepTracker) StartSleep(ctx context.Context, userID int64) (Started, error) {
	unlock, err := t.locker.Lock(ctx, lock.UserKey(userID))
	if err != nil {
		return Started{}, fmt.Errorf("lock user %d: %w", userID, err)
	}
	defer unlock()

	now, name, err := t.zones.Local(ctx, userID, t.now())
	if err != nil {
		return Started{}, err
	}
	if err := t.store.OpenSleep(ctx, userID, now); err != nil {
		return Started{}, err
	}

	t.log.Info("sleep started",
		zap.Int64("user_id", userID),
		zap.String("tz", name),
		zap.Time("at", now))
	return Started{At: now, Timezone: name}, nil
}

// EndSleep closes the open session and stores the completed interval,
// dated by the local date of the end. Negative or overnight durations
// are stored as computed.
func (t *SleepTracker) EndSleep(ctx context.Context, userID int64) (model.SleepInterval, error) {
	unlock, err := t.locker.Lock(ctx, lock.UserKey(userID))
	if err != nil {
		return model.SleepInterval{}, fmt.Errorf("lock user %d: %w", userID, err)
	}
	defer unlock()

	now, name, err := t.zones.Local(ctx, userID, t.now())
	if err != nil {
		return model.SleepInterval{}, err
	}

	iv, err := t.store.CloseSleep(ctx, userID, func(start time.Time) model.SleepInterval {
		return model.SleepInterval{
			ID:       uuid.NewString(),
			UserID:   userID,
			Start:    start.Format(model.TimeLayout),
			End:      now.Format(model.TimeLayout),
			Duration: model.Minutes(start, now),
			Timezone: name,
			Date:     now.Format(model.DateLayout),
		}
	})
	if errors.Is(err, store.ErrNoSession) {
		return model.SleepInterval{}, ErrNoOpenSession
	}
	if err != nil {
		return model.SleepInterval{}, err
	}

	t.log.Info("sleep ended",
		zap.Int64("user_id", userID),
		zap.String("tz", name),
		zap.Int("duration_min", iv.Duration))
	return iv, nil
}

func (t *SleepTracker) State(ctx context.Context, userID int64) (model.SleepState, error) {
	return t.store.SleepState(ctx, userID)
}
