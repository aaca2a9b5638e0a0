package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"babylog/internal/model"
)

type memEvents struct {
	sleeps map[string][]model.SleepInterval
	feeds  map[string][]model.FeedingEvent
	err    error
}

func newMemEvents() *memEvents {
	return &memEvents{
		sleeps: map[string][]model.SleepInterval{},
		feeds:  map[string][]model.FeedingEvent{},
	}
}

func (m *memEvents) sleep(date, start, end string, d int) {
	m.sleeps[date] = append(m.sleeps[date], model.SleepInterval{Start: start, End: end, Duration: d, Date: date})
}

func (m *memEvents) feed(date, at string, ml int) {
	m.feeds[date] = append(m.feeds[date], model.FeedingEvent{Time: at, Amount: ml, Date: date})
}

func (m *memEvents) SleepOn(_ context.Context, _ int64, date string) ([]model.SleepInterval, error) {
	return m.sleeps[date], m.err
}

func (m *memEvents) FeedingOn(_ context.Context, _ int64, date string) ([]model.FeedingEvent, error) {
	return m.feeds[date], m.err
}

type fixedZone struct {
	name string
}

func (z fixedZone) Local(_ context.Context, _ int64, at time.Time) (time.Time, string, error) {
	loc, err := time.LoadLocation(z.name)
	if err != nil {
		return time.Time{}, "", err
	}
	return at.In(loc), z.name, nil
}

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDailyTotals(t *testing.T) {
	ev := newMemEvents()
	ev.sleep("2025-03-02", "22:00", "06:30", 510)
	ev.sleep("2025-03-02", "10:00", "11:15", 75)
	ev.feed("2025-03-02", "07:00", 120)
	ev.feed("2025-03-02", "10:30", 90)
	ev.feed("2025-03-01", "23:00", 60)

	b := NewBuilder(ev, fixedZone{"UTC"}, nil)
	day, err := b.Daily(context.Background(), 1, "2025-03-02")
	require.NoError(t, err)

	assert.Equal(t, 585, day.TotalSleepMin)
	assert.Equal(t, 210, day.TotalFeedML)
	require.Len(t, day.Sleeps, 2)
	assert.Equal(t, "22:00", day.Sleeps[0].Start)
	assert.Equal(t, "10:00", day.Sleeps[1].Start)
	h, m := day.SleepTotal()
	assert.Equal(t, 9, h)
	assert.Equal(t, 45, m)
	assert.False(t, day.Empty())
}

func TestDailyEmpty(t *testing.T) {
	b := NewBuilder(newMemEvents(), fixedZone{"UTC"}, nil)
	day, err := b.Daily(context.Background(), 1, "2025-03-02")
	require.NoError(t, err)

	assert.True(t, day.Empty())
	assert.True(t, day.NoSleep())
	assert.True(t, day.NoFeeding())
	assert.Zero(t, day.TotalSleepMin)
	assert.Zero(t, day.TotalFeedML)
	assert.NotNil(t, day.Sleeps)
}

func TestDailyNegativeDuration(t *testing.T) {
	ev := newMemEvents()
	ev.sleep("2025-03-02", "10:00", "09:45", -15)
	b := NewBuilder(ev, fixedZone{"UTC"}, nil)

	day, err := b.Daily(context.Background(), 1, "2025-03-02")
	require.NoError(t, err)
	h, m := day.SleepTotal()
	assert.Equal(t, -1, h)
	assert.Equal(t, 45, m)
}

func TestRangeAscending(t *testing.T) {
	ev := newMemEvents()
	ev.feed("2025-02-28", "08:00", 100)
	ev.sleep("2025-03-01", "13:00", "14:00", 60)

	b := NewBuilder(ev, fixedZone{"UTC"}, nil)
	days, err := b.Range(context.Background(), 1, "2025-03-01", 3)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "2025-02-27", days[0].Date)
	assert.Equal(t, "2025-02-28", days[1].Date)
	assert.Equal(t, "2025-03-01", days[2].Date)
	assert.True(t, days[0].Empty())
	assert.Equal(t, 100, days[1].TotalFeedML)
	assert.Equal(t, 60, days[2].TotalSleepMin)

	for _, d := range days {
		single, err := b.Daily(context.Background(), 1, d.Date)
		require.NoError(t, err)
		assert.Equal(t, single, d)
	}
}

func TestRangeRejectsBadInput(t *testing.T) {
	b := NewBuilder(newMemEvents(), fixedZone{"UTC"}, nil)
	ctx := context.Background()

	_, err := b.Range(ctx, 1, "2025-03-01", 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = b.Range(ctx, 1, "01.03.2025", 3)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestStorageErrorPropagates(t *testing.T) {
	ev := newMemEvents()
	ev.err = errors.New("db down")
	b := NewBuilder(ev, fixedZone{"UTC"}, nil)

	_, err := b.Daily(context.Background(), 1, "2025-03-01")
	assert.EqualError(t, err, "db down")
}

func TestTodayUsesLocalDate(t *testing.T) {
	ev := newMemEvents()
	ev.feed("2025-03-02", "01:30", 90)

	// 22:30 UTC is already the next day in Moscow
	b := NewBuilder(ev, fixedZone{"Europe/Moscow"}, clockAt(time.Date(2025, 3, 1, 22, 30, 0, 0, time.UTC)))
	r, err := b.Today(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Europe/Moscow", r.Timezone)
	require.Len(t, r.Days, 1)
	assert.Equal(t, "2025-03-02", r.Days[0].Date)
	assert.Equal(t, 90, r.Days[0].TotalFeedML)
}

func TestHistory(t *testing.T) {
	b := NewBuilder(newMemEvents(), fixedZone{"UTC"}, clockAt(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)))
	r, err := b.History(context.Background(), 1, HistoryDays)
	require.NoError(t, err)

	require.Len(t, r.Days, 3)
	assert.Equal(t, "2024-12-30", r.Days[0].Date)
	assert.Equal(t, "2025-01-01", r.Days[2].Date)
}

func TestRenderDailyRussian(t *testing.T) {
	r := Report{
		Timezone: "Europe/Moscow",
		Days: []Day{{
			Date:          "2025-03-02",
			Sleeps:        []SleepRow{{Start: "22:00", End: "06:30", Duration: 510}},
			Feedings:      []FeedRow{{Time: "07:00", Amount: 120}},
			TotalSleepMin: 510,
			TotalFeedML:   120,
		}},
	}

	want := "📅 *Отчёт за 2025-03-02* (Europe/Moscow)\n\n" +
		"🛌 *Сон:*\n" +
		"• 22:00 → 06:30 (8ч 30м)\n" +
		"\n" +
		"🍼 *Кормления:*\n" +
		"• 07:00 — 120 мл\n" +
		"\n📊 *Итого за день:*\n🕐 Сон: 8 ч 30 мин\n🍼 Молока: 120 мл"
	assert.Equal(t, want, NewRenderer(language.Russian).Daily(r))
}

func TestRenderDailyEmpty(t *testing.T) {
	r := Report{Timezone: "America/New_York", Days: []Day{{Date: "2025-03-02"}}}

	want := "📅 *Отчёт за 2025-03-02* (America/New\\_York)\n\n" +
		"🛌 Сон: нет записей\n" +
		"\n" +
		"🍼 Кормлений нет\n" +
		"\n📊 *Итого за день:*\n🕐 Сон: 0 ч 0 мин\n🍼 Молока: 0 мл"
	assert.Equal(t, want, NewRenderer(language.Russian).Daily(r))
}

func TestRenderHistory(t *testing.T) {
	r := Report{
		Timezone: "UTC",
		Days: []Day{
			{Date: "2025-02-28"},
			{Date: "2025-03-01", Sleeps: []SleepRow{{Start: "13:00", End: "14:00", Duration: 60}}, TotalSleepMin: 60},
			{Date: "2025-03-02", Feedings: []FeedRow{{Time: "07:00", Amount: 120}}, TotalFeedML: 120},
		},
	}

	want := "📅 *История за последние 3 дня* (UTC)\n\n" +
		"📆 2025-02-28\n— Нет записей\n\n" +
		"📆 2025-03-01\n💤 Сон:\n  • 13:00 → 14:00 (1ч 0м)\n\n" +
		"📆 2025-03-02\n🍼 Кормления:\n  • 07:00 — 120 мл\n\n"
	assert.Equal(t, want, NewRenderer(language.Russian).History(r))
}

func TestRenderDailyEnglish(t *testing.T) {
	r := Report{Timezone: "UTC", Days: []Day{{
		Date:          "2025-03-02",
		Sleeps:        []SleepRow{{Start: "13:00", End: "14:30", Duration: 90}},
		TotalSleepMin: 90,
	}}}

	out := NewRenderer(language.English).Daily(r)
	assert.Contains(t, out, "• 13:00 → 14:30 (1h 30m)\n")
	assert.Contains(t, out, "🍼 No feedings\n")
	assert.Contains(t, out, "🕐 Sleep: 1 h 30 min")
}
