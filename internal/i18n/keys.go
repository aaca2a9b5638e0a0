package i18n

// Message keys shared by every catalog.
const (
	Greeting         = "start.greeting"
	TimezoneUsage    = "timezone.usage"
	TimezoneInvalid  = "timezone.invalid"
	TimezoneSet      = "timezone.set"
	SleepStarted     = "sleep.started"
	SleepEnded       = "sleep.ended"
	NoOpenSession    = "sleep.no_open_session"
	FeedingPrompt    = "feeding.prompt"
	FeedingRecorded  = "feeding.recorded"
	InvalidAmount    = "feeding.invalid_amount"
	DigitsWhileIdle  = "feeding.not_awaiting"
	Unknown          = "chat.unknown"
	Failure          = "chat.failure"
	Throttled        = "chat.throttled"
	DailyTitle       = "report.daily.title"
	DailySleepHead   = "report.daily.sleep_head"
	DailySleepRow    = "report.daily.sleep_row"
	DailySleepNone   = "report.daily.sleep_none"
	DailyFeedHead    = "report.daily.feed_head"
	DailyFeedRow     = "report.daily.feed_row"
	DailyFeedNone    = "report.daily.feed_none"
	DailyTotals      = "report.daily.totals"
	HistoryTitle     = "report.history.title"
	HistoryDay       = "report.history.day"
	HistoryEmpty     = "report.history.empty"
	HistorySleepHead = "report.history.sleep_head"
	HistorySleepRow  = "report.history.sleep_row"
	HistoryFeedHead  = "report.history.feed_head"
	HistoryFeedRow   = "report.history.feed_row"
)
