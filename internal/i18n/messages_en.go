package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	// Keyboard
	message.SetString(lang, "button.sleep", "🛌 Fell asleep")
	message.SetString(lang, "button.wake", "🌞 Woke up")
	message.SetString(lang, "button.feeding", "Feeding 🍼")
	message.SetString(lang, "button.report", "Report 📊")
	message.SetString(lang, "button.history", "📅 History")

	// Commands
	message.SetString(lang, Greeting, "👶 Hi! I will help you track your baby's sleep and feedings.\n\n"+
		"First set your timezone with:\n"+
		"`/timezone Europe/Moscow`\n\n"+
		"Then use the buttons below:")
	message.SetString(lang, TimezoneUsage, "Give a timezone, for example: `/timezone Europe/Moscow`")
	message.SetString(lang, TimezoneInvalid, "There is no such timezone 😅\n"+
		"See the list here: https://en.wikipedia.org/wiki/List_of_tz_database_time_zones")
	message.SetString(lang, TimezoneSet, "✅ Timezone set: *%s*")

	// Sleep
	message.SetString(lang, SleepStarted, "🛌 Fell asleep at %s (%s)")
	message.SetString(lang, SleepEnded, "🌞 Woke up at %s (%s)\n🕐 Slept for %d h %d min")
	message.SetString(lang, NoOpenSession, "⚠️ No sleep start found.\nPress “🛌 Fell asleep” first.")

	// Feeding
	message.SetString(lang, FeedingPrompt, "Enter the amount of milk in ml, for example: `120`")
	message.SetString(lang, FeedingRecorded, "Recorded 🍼 %d ml at %s (%s)")
	message.SetString(lang, InvalidAmount, "Please send a whole number of millilitres, for example: `120`")
	message.SetString(lang, DigitsWhileIdle, "To record a feeding, press “Feeding 🍼” first.")

	// Chat
	message.SetString(lang, Unknown, "I don't understand 🤔 Use the buttons below.")
	message.SetString(lang, Failure, "Something went wrong 😔 Please try again a bit later.")
	message.SetString(lang, Throttled, "Too many messages in a row ⏳ Please wait a moment.")

	// Daily report
	message.SetString(lang, DailyTitle, "📅 *Report for %s* (%s)\n\n")
	message.SetString(lang, DailySleepHead, "🛌 *Sleep:*\n")
	message.SetString(lang, DailySleepRow, "• %s → %s (%dh %dm)\n")
	message.SetString(lang, DailySleepNone, "🛌 Sleep: no records\n")
	message.SetString(lang, DailyFeedHead, "🍼 *Feedings:*\n")
	message.SetString(lang, DailyFeedRow, "• %s — %d ml\n")
	message.SetString(lang, DailyFeedNone, "🍼 No feedings\n")
	message.SetString(lang, DailyTotals, "\n📊 *Day totals:*\n🕐 Sleep: %d h %d min\n🍼 Milk: %d ml")

	// History
	message.Set(lang, HistoryTitle, plural.Selectf(1, "%d",
		plural.One, "📅 *History for the last %[1]d day* (%[2]s)\n\n",
		plural.Other, "📅 *History for the last %[1]d days* (%[2]s)\n\n",
	))
	message.SetString(lang, HistoryDay, "📆 %s\n")
	message.SetString(lang, HistoryEmpty, "— No records\n\n")
	message.SetString(lang, HistorySleepHead, "💤 Sleep:\n")
	message.SetString(lang, HistorySleepRow, "  • %s → %s (%dh %dm)\n")
	message.SetString(lang, HistoryFeedHead, "🍼 Feedings:\n")
	message.SetString(lang, HistoryFeedRow, "  • %s — %d ml\n")
}
