// Package report aggregates stored sleep and feeding events per local
// calendar day.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"babylog/internal/model"
)

// HistoryDays is the span of the history report.
const HistoryDays = 3

var ErrInvalidRange = errors.New("invalid report range")

type EventReader interface {
	SleepOn(ctx context.Context, userID int64, date string) ([]model.SleepInterval, error)
	FeedingOn(ctx context.Context, userID int64, date string) ([]model.FeedingEvent, error)
}

type Localizer interface {
	Local(ctx context.Context, userID int64, at time.Time) (time.Time, string, error)
}

type SleepRow struct {
	Start    string
	End      string
	Duration int
}

func (r SleepRow) Split() (hours, minutes int) {
	return model.DivMod(r.Duration, 60)
}

type FeedRow struct {
	Time   string
	Amount int
}

// Day holds one calendar date's events in storage order plus totals.
type Day struct {
	Date          string
	Sleeps        []SleepRow
	Feedings      []FeedRow
	TotalSleepMin int
	TotalFeedML   int
}

func (d Day) NoSleep() bool   { return len(d.Sleeps) == 0 }
func (d Day) NoFeeding() bool { return len(d.Feedings) == 0 }
func (d Day) Empty() bool     { return d.NoSleep() && d.NoFeeding() }

// SleepTotal splits TotalSleepMin into hours and minutes.
func (d Day) SleepTotal() (hours, minutes int) {
	return model.DivMod(d.TotalSleepMin, 60)
}

// Report is one or more days in ascending date order, as seen from Timezone.
type Report struct {
	Timezone string
	Days     []Day
}

type Builder struct {
	events EventReader
	zones  Localizer
	now    func() time.Time
}

func NewBuilder(events EventReader, zones Localizer, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{events: events, zones: zones, now: now}
}

// Daily aggregates every event stored for (userID, date).
func (b *Builder) Daily(ctx context.Context, userID int64, date string) (Day, error) {
	sleeps, err := b.events.SleepOn(ctx, userID, date)
	if err != nil {
		return Day{}, err
	}
	feeds, err := b.events.FeedingOn(ctx, userID, date)
	if err != nil {
		return Day{}, err
	}

	day := Day{
		Date:     date,
		Sleeps:   make([]SleepRow, 0, len(sleeps)),
		Feedings: make([]FeedRow, 0, len(feeds)),
	}
	for _, s := range sleeps {
		day.Sleeps = append(day.Sleeps, SleepRow{Start: s.Start, End: s.End, Duration: s.Duration})
		day.TotalSleepMin += s.Duration
	}
	for _, f := range feeds {
		day.Feedings = append(day.Feedings, FeedRow{Time: f.Time, Amount: f.Amount})
		day.TotalFeedML += f.Amount
	}
	return day, nil
}

// Range returns n consecutive days ending at end inclusive, oldest first.
// Days without events are kept.
func (b *Builder) Range(ctx context.Context, userID int64, end string, n int) ([]Day, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidRange, n)
	}
	last, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q", ErrInvalidRange, end)
	}

	days := make([]Day, 0, n)
	for offset := n - 1; offset >= 0; offset-- {
		date := last.AddDate(0, 0, -offset).Format(model.DateLayout)
		day, err := b.Daily(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// Today is the daily report for the user's current local date.
func (b *Builder) Today(ctx context.Context, userID int64) (Report, error) {
	now, name, err := b.zones.Local(ctx, userID, b.now())
	if err != nil {
		return Report{}, err
	}
	day, err := b.Daily(ctx, userID, now.Format(model.DateLayout))
	if err != nil {
		return Report{}, err
	}
	return Report{Timezone: name, Days: []Day{day}}, nil
}

// History covers the last n local days up to and including today.
func (b *Builder) History(ctx context.Context, userID int64, n int) (Report, error) {
	now, name, err := b.zones.Local(ctx, userID, b.now())
	if err != nil {
		return Report{}, err
	}
	days, err := b.Range(ctx, userID, now.Format(model.DateLayout), n)
	if err != nil {
		return Report{}, err
	}
	return Report{Timezone: name, Days: days}, nil
}
