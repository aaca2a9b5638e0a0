package tracker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"babylog/internal/model"
)

var validate = validator.New()

type amountInput struct {
	Raw string `validate:"required,number"`
}

// ParseAmount accepts only plain ASCII digit strings: no sign, no
// decimal point, no surrounding whitespace. Amounts must fit the 32-bit
// amount column of every backend.
func ParseAmount(raw string) (int, error) {
	if err := validate.Struct(amountInput{Raw: raw}); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return int(n), nil
}

type FeedingStore interface {
	AddFeeding(ctx context.Context, f *model.FeedingEvent) error
}

type FeedingRecorder struct {
	zones Localizer
	store FeedingStore
	now   Clock
	log   *zap.Logger
}

func NewFeedingRecorder(zones Localizer, st FeedingStore, now Clock, log *zap.Logger) *FeedingRecorder {
	if now == nil {
		now = time.Now
	}
	return &FeedingRecorder{zones: zones, store: st, now: now, log: log}
}

// Record stores raw as a feeding in ml at the current local time.
// Nothing is written when raw is not a digit string.
func (r *FeedingRecorder) Record(ctx context.Context, userID int64, raw string) (model.FeedingEvent, error) {
	amount, err := ParseAmount(raw)
	if err != nil {
		return model.FeedingEvent{}, err
	}

	now, name, err := r.zones.Local(ctx, userID, r.now())
	if err != nil {
		return model.FeedingEvent{}, err
	}

	ev := model.FeedingEvent{
		ID:       uuid.NewString(),
		UserID:   userID,
		Time:     now.Format(model.TimeLayout),
		Amount:   amount,
		Timezone: name,
		Date:     now.Format(model.DateLayout),
	}
	if err := r.store.AddFeeding(ctx, &ev); err != nil {
		return model.FeedingEvent{}, err
	}

	r.log.Info("feeding recorded",
		zap.Int64("user_id", userID),
		zap.String("tz", name),
		zap.Int("amount_ml", amount))
	return ev, nil
}
