package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Russian

	// Keyboard
	message.SetString(lang, "button.sleep", "🛌 Уснул")
	message.SetString(lang, "button.wake", "🌞 Проснулся")
	message.SetString(lang, "button.feeding", "Кормление 🍼")
	message.SetString(lang, "button.report", "Отчёт 📊")
	message.SetString(lang, "button.history", "📅 История")

	// Commands
	message.SetString(lang, Greeting, "👶 Привет! Я помогу отслеживать сон и кормления ребёнка.\n\n"+
		"Перед началом установи свой часовой пояс командой:\n"+
		"`/timezone Europe/Moscow`\n\n"+
		"Потом используй кнопки ниже:")
	message.SetString(lang, TimezoneUsage, "Укажи часовой пояс, например: `/timezone Europe/Moscow`")
	message.SetString(lang, TimezoneInvalid, "Такого часового пояса не существует 😅\n"+
		"Посмотри список здесь: https://en.wikipedia.org/wiki/List_of_tz_database_time_zones")
	message.SetString(lang, TimezoneSet, "✅ Часовой пояс установлен: *%s*")

	// Sleep
	message.SetString(lang, SleepStarted, "🛌 Заснул в %s (%s)")
	message.SetString(lang, SleepEnded, "🌞 Проснулся в %s (%s)\n🕐 Сон длился %d ч %d мин")
	message.SetString(lang, NoOpenSession, "⚠️ Не найдено время, когда ребёнок уснул.\nСначала нажми “🛌 Уснул”.")

	// Feeding
	message.SetString(lang, FeedingPrompt, "Введи объём молока в мл, например: `120`")
	message.SetString(lang, FeedingRecorded, "Записано 🍼 %d мл в %s (%s)")
	message.SetString(lang, InvalidAmount, "Нужно целое число миллилитров, например: `120`")
	message.SetString(lang, DigitsWhileIdle, "Чтобы записать кормление, сначала нажми «Кормление 🍼».")

	// Chat
	message.SetString(lang, Unknown, "Не понимаю 🤔 Используй кнопки ниже.")
	message.SetString(lang, Failure, "Что-то пошло не так 😔 Попробуй ещё раз чуть позже.")
	message.SetString(lang, Throttled, "Слишком много сообщений подряд ⏳ Подожди немного.")

	// Daily report
	message.SetString(lang, DailyTitle, "📅 *Отчёт за %s* (%s)\n\n")
	message.SetString(lang, DailySleepHead, "🛌 *Сон:*\n")
	message.SetString(lang, DailySleepRow, "• %s → %s (%dч %dм)\n")
	message.SetString(lang, DailySleepNone, "🛌 Сон: нет записей\n")
	message.SetString(lang, DailyFeedHead, "🍼 *Кормления:*\n")
	message.SetString(lang, DailyFeedRow, "• %s — %d мл\n")
	message.SetString(lang, DailyFeedNone, "🍼 Кормлений нет\n")
	message.SetString(lang, DailyTotals, "\n📊 *Итого за день:*\n🕐 Сон: %d ч %d мин\n🍼 Молока: %d мл")

	// History
	message.Set(lang, HistoryTitle, plural.Selectf(1, "%d",
		plural.One, "📅 *История за последний %[1]d день* (%[2]s)\n\n",
		plural.Few, "📅 *История за последние %[1]d дня* (%[2]s)\n\n",
		plural.Other, "📅 *История за последние %[1]d дней* (%[2]s)\n\n",
	))
	message.SetString(lang, HistoryDay, "📆 %s\n")
	message.SetString(lang, HistoryEmpty, "— Нет записей\n\n")
	message.SetString(lang, HistorySleepHead, "💤 Сон:\n")
	message.SetString(lang, HistorySleepRow, "  • %s → %s (%dч %dм)\n")
	message.SetString(lang, HistoryFeedHead, "🍼 Кормления:\n")
	message.SetString(lang, HistoryFeedRow, "  • %s — %d мл\n")
}
