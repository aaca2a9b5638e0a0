package model

import "time"

const (
	// TimeLayout is how local clock times are stored and shown.
	TimeLayout = "15:04"
	// DateLayout is the calendar date key events are grouped by.
	DateLayout = "2006-01-02"
)

// SleepState is either Awake (zero value) or Asleep since Start.
type SleepState struct {
	Start time.Time
}

func Awake() SleepState { return SleepState{} }

func Asleep(start time.Time) SleepState { return SleepState{Start: start} }

func (s SleepState) Asleep() bool { return !s.Start.IsZero() }

// Prompt is what the bot is waiting for from the user, if anything.
type Prompt string

const (
	PromptNone          Prompt = ""
	PromptFeedingAmount Prompt = "feeding_amount"
)

type SleepInterval struct {
	ID       string
	UserID   int64
	Start    string // local HH:MM at start
	End      string // local HH:MM at end
	Duration int    // whole minutes, may be negative
	Timezone string
	Date     string // local date of the end event
}

// Split returns the duration as hours and minutes.
func (s SleepInterval) Split() (hours, minutes int) {
	return DivMod(s.Duration, 60)
}

type FeedingEvent struct {
	ID       string
	UserID   int64
	Time     string
	Amount   int // ml
	Timezone string
	Date     string
}

// DivMod is floored division: the remainder takes the sign of b.
func DivMod(a, b int) (q, r int) {
	q, r = a/b, a%b
	if r != 0 && (r < 0) != (b < 0) {
		q--
		r += b
	}
	return q, r
}

// Minutes is the elapsed whole minutes from start to end, truncated toward zero.
func Minutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
