// Package i18n holds the reply catalogs and the keyboard labels for the
// supported chat locales.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supportedTags = []language.Tag{
	language.Russian,
	language.English,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Parse maps a configured locale such as "ru" or "en-US" onto a
// supported tag.
func Parse(locale string) (language.Tag, error) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	_, idx, conf := tagMatcher.Match(tag)
	if conf == language.No {
		return language.Und, fmt.Errorf("unsupported locale %q", locale)
	}
	return supportedTags[idx], nil
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Keyboard button actions.
type Button int

const (
	ButtonSleep Button = iota
	ButtonWake
	ButtonFeeding
	ButtonReport
	ButtonHistory
)

var buttonKeys = map[Button]string{
	ButtonSleep:   "button.sleep",
	ButtonWake:    "button.wake",
	ButtonFeeding: "button.feeding",
	ButtonReport:  "button.report",
	ButtonHistory: "button.history",
}

// Layout is the keyboard grid, row by row.
var Layout = [][]Button{
	{ButtonSleep, ButtonWake},
	{ButtonFeeding, ButtonReport},
	{ButtonHistory},
}

// Label returns the button text in the printer's language.
func Label(p *message.Printer, b Button) string {
	return p.Sprintf(buttonKeys[b])
}

// MatchButton recognises a button label in any supported language, so a
// keyboard sent before a locale switch keeps working.
func MatchButton(text string) (Button, bool) {
	for _, tag := range supportedTags {
		p := Printer(tag)
		for b, key := range buttonKeys {
			if p.Sprintf(key) == text {
				return b, true
			}
		}
	}
	return 0, false
}

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// EscapeMarkdown escapes user-controlled text placed outside entities in
// a legacy Markdown reply.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
