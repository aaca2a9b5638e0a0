package handler

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"babylog/internal/i18n"
	"babylog/internal/model"
)

// command splits "/name@bot arg..." into its bare name and argument.
func command(text string) (name, arg string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	name = text
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		name, arg = text[:i], text[i+1:]
	}
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(arg), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Dispatch routes one chat message. Free text counts as a feeding amount
// only while the user is awaiting one; any command or button leaves that
// state. Storage failures are logged and answered with Failure.
func (h *Handler) Dispatch(ctx context.Context, userID int64, text string) Reply {
	reply, err := h.dispatch(ctx, userID, text)
	if err != nil {
		h.log.Error("command failed", zap.Int64("user_id", userID), zap.Error(err))
		return h.Failure()
	}
	return reply
}

func (h *Handler) dispatch(ctx context.Context, userID int64, text string) (Reply, error) {
	prompt, err := h.prompts.Prompt(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	if name, arg, ok := command(text); ok {
		h.log.Debug("command", zap.Int64("user_id", userID), zap.String("command", name))
		if err := h.leave(ctx, userID, prompt); err != nil {
			return Reply{}, err
		}
		switch name {
		case "/start", "/help":
			return h.Start(ctx, userID)
		case "/timezone":
			return h.SetTimezone(ctx, userID, arg)
		case "/report":
			return h.DailyReport(ctx, userID)
		case "/history":
			return h.HistoryReport(ctx, userID)
		default:
			return h.text(i18n.Unknown), nil
		}
	}

	if b, ok := i18n.MatchButton(strings.TrimSpace(text)); ok {
		h.log.Debug("button", zap.Int64("user_id", userID), zap.Int("button", int(b)))
		if b == i18n.ButtonFeeding {
			return h.PromptFeeding(ctx, userID)
		}
		if err := h.leave(ctx, userID, prompt); err != nil {
			return Reply{}, err
		}
		switch b {
		case i18n.ButtonSleep:
			return h.StartSleep(ctx, userID)
		case i18n.ButtonWake:
			return h.EndSleep(ctx, userID)
		case i18n.ButtonReport:
			return h.DailyReport(ctx, userID)
		case i18n.ButtonHistory:
			return h.HistoryReport(ctx, userID)
		}
	}

	if prompt == model.PromptFeedingAmount {
		return h.RecordFeeding(ctx, userID, text)
	}
	if isDigits(strings.TrimSpace(text)) {
		return h.text(i18n.DigitsWhileIdle), nil
	}
	return h.text(i18n.Unknown), nil
}

// leave resets a pending prompt back to idle.
func (h *Handler) leave(ctx context.Context, userID int64, prompt model.Prompt) error {
	if prompt == model.PromptNone {
		return nil
	}
	return h.prompts.SetPrompt(ctx, userID, model.PromptNone)
}
