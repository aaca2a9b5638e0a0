package handler

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"babylog/internal/i18n"
	"babylog/internal/model"
	"babylog/internal/report"
	"babylog/internal/tracker"
	"babylog/internal/tz"
)

// SetTimezone handles "/timezone <name>". An empty name gets the usage hint.
func (h *Handler) SetTimezone(ctx context.Context, userID int64, name string) (Reply, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return h.markdown(i18n.TimezoneUsage), nil
	}

	err := h.zones.Set(ctx, userID, name)
	if errors.Is(err, tz.ErrInvalidTimezone) {
		h.log.Info("invalid timezone", zap.Int64("user_id", userID), zap.String("tz", name))
		return h.text(i18n.TimezoneInvalid), nil
	}
	if err != nil {
		return Reply{}, err
	}
	return h.markdown(i18n.TimezoneSet, name), nil
}

func (h *Handler) StartSleep(ctx context.Context, userID int64) (Reply, error) {
	s, err := h.sleep.StartSleep(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	return h.text(i18n.SleepStarted, clock(s.At), s.Timezone), nil
}

func (h *Handler) EndSleep(ctx context.Context, userID int64) (Reply, error) {
	iv, err := h.sleep.EndSleep(ctx, userID)
	if errors.Is(err, tracker.ErrNoOpenSession) {
		return h.text(i18n.NoOpenSession), nil
	}
	if err != nil {
		return Reply{}, err
	}
	hours, minutes := iv.Split()
	return h.text(i18n.SleepEnded, iv.End, iv.Timezone, hours, minutes), nil
}

// PromptFeeding moves the user into the awaiting-amount state.
func (h *Handler) PromptFeeding(ctx context.Context, userID int64) (Reply, error) {
	if err := h.prompts.SetPrompt(ctx, userID, model.PromptFeedingAmount); err != nil {
		return Reply{}, err
	}
	return h.markdown(i18n.FeedingPrompt), nil
}

// RecordFeeding stores raw as the amount. The store ends the prompt in
// the same write; invalid input keeps the user awaiting so the next
// message is tried again.
func (h *Handler) RecordFeeding(ctx context.Context, userID int64, raw string) (Reply, error) {
	ev, err := h.feeding.Record(ctx, userID, raw)
	if errors.Is(err, tracker.ErrInvalidAmount) {
		return h.markdown(i18n.InvalidAmount), nil
	}
	if err != nil {
		return Reply{}, err
	}
	return h.text(i18n.FeedingRecorded, ev.Amount, ev.Time, ev.Timezone), nil
}

func (h *Handler) DailyReport(ctx context.Context, userID int64) (Reply, error) {
	r, err := h.reports.Today(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: h.render.Daily(r), Markdown: true}, nil
}

func (h *Handler) HistoryReport(ctx context.Context, userID int64) (Reply, error) {
	r, err := h.reports.History(ctx, userID, report.HistoryDays)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: h.render.History(r), Markdown: true}, nil
}
