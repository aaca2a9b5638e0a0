package rpc

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"babylog/internal/lock"
	"babylog/internal/middleware"
	"babylog/internal/model"
	"babylog/internal/report"
	"babylog/internal/store"
	"babylog/internal/tracker"
	"babylog/internal/tz"
)

type Zones interface {
	Resolve(ctx context.Context, userID int64) (string, error)
	Set(ctx context.Context, userID int64, candidate string) error
}

type Sleep interface {
	StartSleep(ctx context.Context, userID int64) (tracker.Started, error)
	EndSleep(ctx context.Context, userID int64) (model.SleepInterval, error)
	State(ctx context.Context, userID int64) (model.SleepState, error)
}

type Feeding interface {
	Record(ctx context.Context, userID int64, raw string) (model.FeedingEvent, error)
}

type Reports interface {
	Daily(ctx context.Context, userID int64, date string) (report.Day, error)
	Today(ctx context.Context, userID int64) (report.Report, error)
	History(ctx context.Context, userID int64, n int) (report.Report, error)
}

type Service struct {
	zones   Zones
	sleep   Sleep
	feeding Feeding
	reports Reports
	log     *zap.Logger
}

func NewService(zones Zones, sleep Sleep, feeding Feeding, reports Reports, log *zap.Logger) *Service {
	return &Service{zones: zones, sleep: sleep, feeding: feeding, reports: reports, log: log}
}

var _ TrackerServer = (*Service)(nil)

// toStatus maps domain errors onto grpc codes. Unknown errors are logged
// and hidden behind Internal.
func (s *Service) toStatus(err error) error {
	switch {
	case errors.Is(err, tz.ErrInvalidTimezone),
		errors.Is(err, tracker.ErrInvalidAmount),
		errors.Is(err, report.ErrInvalidRange):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, tracker.ErrNoOpenSession):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		s.log.Error("storage unavailable", zap.Error(err))
		return status.Error(codes.Unavailable, "storage unavailable")
	case errors.Is(err, lock.ErrUnavailable):
		s.log.Error("lock unavailable", zap.Error(err))
		return status.Error(codes.Unavailable, "lock unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		s.log.Error("rpc internal error", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

func caller(ctx context.Context) (int64, error) {
	uid, ok := middleware.UserID(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "no user id")
	}
	return uid, nil
}

func reply(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func stringField(in *structpb.Struct, key string) (string, bool) {
	v, ok := in.GetFields()[key]
	if !ok {
		return "", false
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}
	return sv.StringValue, true
}

func (s *Service) SetTimezone(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	name, ok := stringField(in, "timezone")
	if !ok || name == "" {
		return nil, status.Error(codes.InvalidArgument, "timezone is required")
	}
	if err := s.zones.Set(ctx, uid, name); err != nil {
		return nil, s.toStatus(err)
	}
	return reply(map[string]any{"timezone": name})
}

func (s *Service) StartSleep(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.sleep.StartSleep(ctx, uid)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return reply(map[string]any{
		"start":      st.At.Format(model.TimeLayout),
		"started_at": st.At.Format(time.RFC3339),
		"timezone":   st.Timezone,
	})
}

func (s *Service) EndSleep(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	iv, err := s.sleep.EndSleep(ctx, uid)
	if err != nil {
		return nil, s.toStatus(err)
	}
	h, m := iv.Split()
	return reply(map[string]any{
		"id":           iv.ID,
		"start":        iv.Start,
		"end":          iv.End,
		"duration_min": iv.Duration,
		"hours":        h,
		"minutes":      m,
		"timezone":     iv.Timezone,
		"date":         iv.Date,
	})
}

// RecordFeeding takes "amount" as a digit string or a JSON number.
func (s *Service) RecordFeeding(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	raw := ""
	switch v := in.GetFields()["amount"].GetKind().(type) {
	case *structpb.Value_StringValue:
		raw = v.StringValue
	case *structpb.Value_NumberValue:
		raw = strconv.FormatFloat(v.NumberValue, 'f', -1, 64)
	}

	ev, err := s.feeding.Record(ctx, uid, raw)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return reply(map[string]any{
		"id":        ev.ID,
		"time":      ev.Time,
		"amount_ml": ev.Amount,
		"timezone":  ev.Timezone,
		"date":      ev.Date,
	})
}

// DailyReport reports on "date" (YYYY-MM-DD) or on the local today when absent.
func (s *Service) DailyReport(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	date, ok := stringField(in, "date")
	if !ok || date == "" {
		r, err := s.reports.Today(ctx, uid)
		if err != nil {
			return nil, s.toStatus(err)
		}
		return reply(encodeReport(r))
	}

	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "date %q is not YYYY-MM-DD", date)
	}
	name, err := s.zones.Resolve(ctx, uid)
	if err != nil {
		return nil, s.toStatus(err)
	}
	day, err := s.reports.Daily(ctx, uid, date)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return reply(encodeReport(report.Report{Timezone: name, Days: []report.Day{day}}))
}

// History covers "days" days (default 3) up to the local today.
func (s *Service) History(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	n := report.HistoryDays
	if v, ok := in.GetFields()["days"]; ok {
		f := v.GetNumberValue()
		if f != float64(int(f)) || f < 1 || f > 31 {
			return nil, status.Error(codes.InvalidArgument, "days must be a whole number between 1 and 31")
		}
		n = int(f)
	}

	r, err := s.reports.History(ctx, uid, n)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return reply(encodeReport(r))
}

// Status reports whether the user is asleep and since when.
func (s *Service) Status(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	uid, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	name, err := s.zones.Resolve(ctx, uid)
	if err != nil {
		return nil, s.toStatus(err)
	}
	st, err := s.sleep.State(ctx, uid)
	if err != nil {
		return nil, s.toStatus(err)
	}

	out := map[string]any{"timezone": name, "asleep": st.Asleep()}
	if st.Asleep() {
		out["since"] = st.Start.Format(model.TimeLayout)
		out["started_at"] = st.Start.Format(time.RFC3339)
	}
	return reply(out)
}

func encodeReport(r report.Report) map[string]any {
	days := make([]any, 0, len(r.Days))
	for _, d := range r.Days {
		sleeps := make([]any, 0, len(d.Sleeps))
		for _, s := range d.Sleeps {
			sleeps = append(sleeps, map[string]any{
				"start":        s.Start,
				"end":          s.End,
				"duration_min": s.Duration,
			})
		}
		feeds := make([]any, 0, len(d.Feedings))
		for _, f := range d.Feedings {
			feeds = append(feeds, map[string]any{
				"time":      f.Time,
				"amount_ml": f.Amount,
			})
		}
		days = append(days, map[string]any{
			"date":            d.Date,
			"sleeps":          sleeps,
			"feedings":        feeds,
			"total_sleep_min": d.TotalSleepMin,
			"total_feed_ml":   d.TotalFeedML,
			"empty":           d.Empty(),
		})
	}
	return map[string]any{"timezone": r.Timezone, "days": days}
}
