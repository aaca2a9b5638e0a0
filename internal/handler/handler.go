// Package handler is the chat command surface: it routes text and button
// presses to the trackers and report builder and produces localized replies.
package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"babylog/internal/i18n"
	"babylog/internal/model"
	"babylog/internal/report"
	"babylog/internal/tracker"
)

// Reply is one outgoing chat message.
type Reply struct {
	Text     string
	Markdown bool
	// Keyboard asks the transport to attach the reply keyboard.
	Keyboard bool
}

type Zones interface {
	Set(ctx context.Context, userID int64, candidate string) error
}

type Sleep interface {
	StartSleep(ctx context.Context, userID int64) (tracker.Started, error)
	EndSleep(ctx context.Context, userID int64) (model.SleepInterval, error)
}

type Feeding interface {
	Record(ctx context.Context, userID int64, raw string) (model.FeedingEvent, error)
}

type Reports interface {
	Today(ctx context.Context, userID int64) (report.Report, error)
	History(ctx context.Context, userID int64, n int) (report.Report, error)
}

// Prompts persists the per-user dialog state.
type Prompts interface {
	Prompt(ctx context.Context, userID int64) (model.Prompt, error)
	SetPrompt(ctx context.Context, userID int64, p model.Prompt) error
}

type Deps struct {
	Zones   Zones
	Sleep   Sleep
	Feeding Feeding
	Reports Reports
	Prompts Prompts
	Locale  language.Tag
	Log     *zap.Logger
}

type Handler struct {
	zones   Zones
	sleep   Sleep
	feeding Feeding
	reports Reports
	prompts Prompts
	p       *message.Printer
	render  *report.Renderer
	log     *zap.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		zones:   d.Zones,
		sleep:   d.Sleep,
		feeding: d.Feeding,
		reports: d.Reports,
		prompts: d.Prompts,
		p:       i18n.Printer(d.Locale),
		render:  report.NewRenderer(d.Locale),
		log:     log,
	}
}

func (h *Handler) text(key string, args ...any) Reply {
	return Reply{Text: h.p.Sprintf(key, args...)}
}

func (h *Handler) markdown(key string, args ...any) Reply {
	return Reply{Text: h.p.Sprintf(key, args...), Markdown: true}
}

// Keyboard returns the button labels row by row.
func (h *Handler) Keyboard() [][]string {
	rows := make([][]string, 0, len(i18n.Layout))
	for _, row := range i18n.Layout {
		labels := make([]string, 0, len(row))
		for _, b := range row {
			labels = append(labels, i18n.Label(h.p, b))
		}
		rows = append(rows, labels)
	}
	return rows
}

// Failure is sent when a command failed for reasons the user cannot fix.
func (h *Handler) Failure() Reply {
	return h.text(i18n.Failure)
}

func (h *Handler) Throttled() Reply {
	return h.text(i18n.Throttled)
}

func (h *Handler) Start(ctx context.Context, userID int64) (Reply, error) {
	r := h.markdown(i18n.Greeting)
	r.Keyboard = true
	return r, nil
}

func clock(t time.Time) string {
	return t.Format(model.TimeLayout)
}
