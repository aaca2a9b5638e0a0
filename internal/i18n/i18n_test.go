package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
		err  bool
	}{
		{"ru", language.Russian, false},
		{"ru-RU", language.Russian, false},
		{"en", language.English, false},
		{"en-GB", language.English, false},
		{"", language.Und, true},
		{"not a tag", language.Und, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelsRoundTrip(t *testing.T) {
	for _, tag := range supportedTags {
		p := Printer(tag)
		for _, row := range Layout {
			for _, b := range row {
				label := Label(p, b)
				got, ok := MatchButton(label)
				require.True(t, ok, label)
				assert.Equal(t, b, got)
			}
		}
	}

	_, ok := MatchButton("120")
	assert.False(t, ok)
}

func TestRussianLabelsMatchKeyboard(t *testing.T) {
	p := Printer(language.Russian)
	assert.Equal(t, "🛌 Уснул", Label(p, ButtonSleep))
	assert.Equal(t, "🌞 Проснулся", Label(p, ButtonWake))
	assert.Equal(t, "Кормление 🍼", Label(p, ButtonFeeding))
	assert.Equal(t, "Отчёт 📊", Label(p, ButtonReport))
	assert.Equal(t, "📅 История", Label(p, ButtonHistory))
}

func TestHistoryTitlePlural(t *testing.T) {
	ru := Printer(language.Russian)
	assert.Equal(t, "📅 *История за последние 3 дня* (UTC)\n\n", ru.Sprintf(HistoryTitle, 3, "UTC"))
	assert.Equal(t, "📅 *История за последние 7 дней* (UTC)\n\n", ru.Sprintf(HistoryTitle, 7, "UTC"))
	assert.Equal(t, "📅 *История за последний 1 день* (UTC)\n\n", ru.Sprintf(HistoryTitle, 1, "UTC"))

	en := Printer(language.English)
	assert.Equal(t, "📅 *History for the last 3 days* (UTC)\n\n", en.Sprintf(HistoryTitle, 3, "UTC"))
	assert.Equal(t, "📅 *History for the last 1 day* (UTC)\n\n", en.Sprintf(HistoryTitle, 1, "UTC"))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `America/New\_York`, EscapeMarkdown("America/New_York"))
	assert.Equal(t, `a\*b\[c\`+"`", EscapeMarkdown("a*b[c`"))
	assert.Equal(t, "Europe/Moscow", EscapeMarkdown("Europe/Moscow"))
}
