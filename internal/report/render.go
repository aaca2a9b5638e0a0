package report

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"babylog/internal/i18n"
)

// Renderer turns reports into Markdown chat text.
type Renderer struct {
	p *message.Printer
}

func NewRenderer(tag language.Tag) *Renderer {
	return &Renderer{p: i18n.Printer(tag)}
}

// Daily renders the first day of r with both category blocks and totals.
func (rn *Renderer) Daily(r Report) string {
	var day Day
	if len(r.Days) > 0 {
		day = r.Days[0]
	}

	var b strings.Builder
	b.WriteString(rn.p.Sprintf(i18n.DailyTitle, day.Date, i18n.EscapeMarkdown(r.Timezone)))

	if day.NoSleep() {
		b.WriteString(rn.p.Sprintf(i18n.DailySleepNone))
	} else {
		b.WriteString(rn.p.Sprintf(i18n.DailySleepHead))
		for _, s := range day.Sleeps {
			h, m := s.Split()
			b.WriteString(rn.p.Sprintf(i18n.DailySleepRow, s.Start, s.End, h, m))
		}
	}

	b.WriteString("\n")

	if day.NoFeeding() {
		b.WriteString(rn.p.Sprintf(i18n.DailyFeedNone))
	} else {
		b.WriteString(rn.p.Sprintf(i18n.DailyFeedHead))
		for _, f := range day.Feedings {
			b.WriteString(rn.p.Sprintf(i18n.DailyFeedRow, f.Time, f.Amount))
		}
	}

	h, m := day.SleepTotal()
	b.WriteString(rn.p.Sprintf(i18n.DailyTotals, h, m, day.TotalFeedML))
	return b.String()
}

// History renders every day of r; empty days get a "no records" line.
func (rn *Renderer) History(r Report) string {
	var b strings.Builder
	b.WriteString(rn.p.Sprintf(i18n.HistoryTitle, len(r.Days), i18n.EscapeMarkdown(r.Timezone)))

	for _, day := range r.Days {
		b.WriteString(rn.p.Sprintf(i18n.HistoryDay, day.Date))
		if day.Empty() {
			b.WriteString(rn.p.Sprintf(i18n.HistoryEmpty))
			continue
		}
		if !day.NoSleep() {
			b.WriteString(rn.p.Sprintf(i18n.HistorySleepHead))
			for _, s := range day.Sleeps {
				h, m := s.Split()
				b.WriteString(rn.p.Sprintf(i18n.HistorySleepRow, s.Start, s.End, h, m))
			}
		}
		if !day.NoFeeding() {
			b.WriteString(rn.p.Sprintf(i18n.HistoryFeedHead))
			for _, f := range day.Feedings {
				b.WriteString(rn.p.Sprintf(i18n.HistoryFeedRow, f.Time, f.Amount))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
