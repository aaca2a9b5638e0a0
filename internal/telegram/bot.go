// Package telegram runs the long-polling chat loop.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"babylog/internal/handler"
)

// API is the subset of *tgbotapi.BotAPI the loop needs.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, userID int64, text string) handler.Reply
	Keyboard() [][]string
	Throttled() handler.Reply
}

type Limiter interface {
	Allow(userID int64) bool
}

type Bot struct {
	api     API
	h       Dispatcher
	limiter Limiter
	log     *zap.Logger
	timeout int
}

func New(api API, h Dispatcher, limiter Limiter, log *zap.Logger) *Bot {
	return &Bot{api: api, h: h, limiter: limiter, log: log, timeout: 30}
}

// Connect authorizes token against the Bot API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return api, nil
}

// Run polls for updates until ctx is done. Updates are handled one at a
// time so each user's messages apply in order.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.log.Info("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			b.log.Info("telegram polling stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, upd)
		}
	}
}

func (b *Bot) handle(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	uid := msg.From.ID

	if b.limiter != nil && !b.limiter.Allow(uid) {
		b.log.Debug("throttled", zap.Int64("user_id", uid))
		b.send(msg.Chat.ID, b.h.Throttled())
		return
	}
	b.send(msg.Chat.ID, b.h.Dispatch(ctx, uid, msg.Text))
}

func (b *Bot) keyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, 3)
	for _, labels := range b.h.Keyboard() {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, l := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(l))
		}
		rows = append(rows, row)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) send(chatID int64, r handler.Reply) {
	out := tgbotapi.NewMessage(chatID, r.Text)
	if r.Markdown {
		out.ParseMode = tgbotapi.ModeMarkdown
	}
	if r.Keyboard {
		out.ReplyMarkup = b.keyboard()
	}
	if _, err := b.api.Send(out); err != nil {
		b.log.Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
