package store_test

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babylog/internal/model"
	"babylog/internal/store"
)

type opener func(t *testing.T) store.Backend

func openSQLite(t *testing.T) store.Backend {
	t.Helper()
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "baby.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func openPostgres(t *testing.T) store.Backend {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	st, err := store.ConnectPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite(t *testing.T)   { runSuite(t, openSQLite) }
func TestPostgres(t *testing.T) { runSuite(t, openPostgres) }

// shared postgres databases keep rows between runs, so every case gets a fresh user
func newUserID() int64 {
	return rand.Int63n(1<<40) + 1
}

func runSuite(t *testing.T, open opener) {
	t.Run("timezone defaults to unset", func(t *testing.T) {
		st := open(t)
		tz, ok, err := st.Timezone(context.Background(), newUserID())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, tz)
	})

	t.Run("set timezone upserts", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		require.NoError(t, st.SetTimezone(ctx, uid, "Europe/Moscow"))
		require.NoError(t, st.SetTimezone(ctx, uid, "Asia/Tokyo"))
		tz, ok, err := st.Timezone(ctx, uid)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Asia/Tokyo", tz)
	})

	t.Run("open sleep without timezone keeps it unset", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		start := time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC)
		require.NoError(t, st.OpenSleep(ctx, uid, start))

		_, ok, err := st.Timezone(ctx, uid)
		require.NoError(t, err)
		assert.False(t, ok)

		state, err := st.SleepState(ctx, uid)
		require.NoError(t, err)
		assert.True(t, state.Asleep())
		assert.True(t, start.Equal(state.Start))
	})

	t.Run("open sleep keeps offset", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		msk := time.FixedZone("MSK", 3*3600)
		start := time.Date(2025, 3, 1, 22, 0, 0, 0, msk)
		require.NoError(t, st.OpenSleep(ctx, uid, start))

		state, err := st.SleepState(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "22:00", state.Start.Format(model.TimeLayout))
	})

	t.Run("set timezone clears open session", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		require.NoError(t, st.OpenSleep(ctx, uid, time.Now()))
		require.NoError(t, st.SetTimezone(ctx, uid, "Europe/Berlin"))

		state, err := st.SleepState(ctx, uid)
		require.NoError(t, err)
		assert.False(t, state.Asleep())
	})

	t.Run("close sleep without session", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		called := false
		_, err := st.CloseSleep(ctx, uid, func(time.Time) model.SleepInterval {
			called = true
			return model.SleepInterval{}
		})
		assert.True(t, errors.Is(err, store.ErrNoSession))
		assert.False(t, called)

		rows, err := st.SleepOn(ctx, uid, "2025-03-02")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("close sleep stores interval and clears session", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		start := time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC)
		require.NoError(t, st.OpenSleep(ctx, uid, start))

		var seen time.Time
		iv, err := st.CloseSleep(ctx, uid, func(s time.Time) model.SleepInterval {
			seen = s
			return model.SleepInterval{
				ID: uuid.NewString(), UserID: uid,
				Start: "22:00", End: "06:30", Duration: 510,
				Timezone: "UTC", Date: "2025-03-02",
			}
		})
		require.NoError(t, err)
		assert.True(t, start.Equal(seen))
		assert.Equal(t, 510, iv.Duration)

		state, err := st.SleepState(ctx, uid)
		require.NoError(t, err)
		assert.False(t, state.Asleep())

		rows, err := st.SleepOn(ctx, uid, "2025-03-02")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, iv, rows[0])

		_, err = st.CloseSleep(ctx, uid, func(time.Time) model.SleepInterval { return model.SleepInterval{} })
		assert.True(t, errors.Is(err, store.ErrNoSession))
	})

	t.Run("negative durations are stored", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		require.NoError(t, st.OpenSleep(ctx, uid, time.Now()))
		_, err := st.CloseSleep(ctx, uid, func(time.Time) model.SleepInterval {
			return model.SleepInterval{ID: uuid.NewString(), UserID: uid, Start: "10:00", End: "09:00", Duration: -60, Timezone: "UTC", Date: "2025-03-02"}
		})
		require.NoError(t, err)
		rows, err := st.SleepOn(ctx, uid, "2025-03-02")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, -60, rows[0].Duration)
	})

	t.Run("feeding kept in insertion order per date", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		for i, amt := range []int{120, 90, 150} {
			f := &model.FeedingEvent{
				ID: uuid.NewString(), UserID: uid, Time: time.Date(2025, 3, 2, 9-i, 0, 0, 0, time.UTC).Format(model.TimeLayout),
				Amount: amt, Timezone: "UTC", Date: "2025-03-02",
			}
			require.NoError(t, st.AddFeeding(ctx, f))
		}
		require.NoError(t, st.AddFeeding(ctx, &model.FeedingEvent{
			ID: uuid.NewString(), UserID: uid, Time: "23:00", Amount: 60, Timezone: "UTC", Date: "2025-03-03",
		}))
		require.NoError(t, st.AddFeeding(ctx, &model.FeedingEvent{
			ID: uuid.NewString(), UserID: uid + 1, Time: "10:00", Amount: 70, Timezone: "UTC", Date: "2025-03-02",
		}))

		rows, err := st.FeedingOn(ctx, uid, "2025-03-02")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, 120, rows[0].Amount)
		assert.Equal(t, 90, rows[1].Amount)
		assert.Equal(t, 150, rows[2].Amount)
		assert.Equal(t, "09:00", rows[0].Time)
	})

	t.Run("prompt round trip", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		p, err := st.Prompt(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, model.PromptNone, p)

		require.NoError(t, st.SetPrompt(ctx, uid, model.PromptFeedingAmount))
		p, err = st.Prompt(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, model.PromptFeedingAmount, p)

		require.NoError(t, st.SetPrompt(ctx, uid, model.PromptNone))
		p, err = st.Prompt(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, model.PromptNone, p)
	})

	t.Run("set timezone clears prompt", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		require.NoError(t, st.SetPrompt(ctx, uid, model.PromptFeedingAmount))
		require.NoError(t, st.SetTimezone(ctx, uid, "Europe/Moscow"))

		p, err := st.Prompt(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, model.PromptNone, p)
	})

	t.Run("add feeding clears prompt", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		require.NoError(t, st.SetPrompt(ctx, uid, model.PromptFeedingAmount))

		ev := model.FeedingEvent{ID: uuid.NewString(), UserID: uid, Time: "09:00", Amount: 90, Timezone: "UTC", Date: "2025-03-01"}
		require.NoError(t, st.AddFeeding(ctx, &ev))

		p, err := st.Prompt(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, model.PromptNone, p)
	})

	t.Run("failed feeding keeps prompt", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		ev := model.FeedingEvent{ID: uuid.NewString(), UserID: uid, Time: "09:00", Amount: 90, Timezone: "UTC", Date: "2025-03-01"}
		require.NoError(t, st.AddFeeding(ctx, &ev))
		require.NoError(t, st.SetPrompt(ctx, uid, model.PromptFeedingAmount))

		// same id again: the insert fails and nothing else may change
		err := st.AddFeeding(ctx, &ev)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrUnavailable)

		p, err := st.Prompt(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, model.PromptFeedingAmount, p)
		rows, err := st.FeedingOn(ctx, uid, "2025-03-01")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("largest amount fits", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		uid := newUserID()
		ev := model.FeedingEvent{ID: uuid.NewString(), UserID: uid, Time: "09:00", Amount: 2147483647, Timezone: "UTC", Date: "2025-03-01"}
		require.NoError(t, st.AddFeeding(ctx, &ev))

		rows, err := st.FeedingOn(ctx, uid, "2025-03-01")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 2147483647, rows[0].Amount)
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		st := open(t)
		require.NoError(t, st.Migrate(context.Background()))
	})
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := store.OpenSQLite("  ")
	assert.Error(t, err)
}
