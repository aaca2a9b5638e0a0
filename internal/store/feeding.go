package store

import (
	"context"

	"babylog/internal/model"
)

// AddFeeding stores the event and ends a pending amount prompt in the
// same transaction, so a failed write leaves the user still awaiting.
func (s *Postgres) AddFeeding(ctx context.Context, f *model.FeedingEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return unavailable("begin add feeding", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		`INSERT INTO feeding (id, user_id, time, amount, tz, date) VALUES ($1,$2,$3,$4,$5,$6)`,
		f.ID, f.UserID, f.Time, f.Amount, f.Timezone, f.Date,
	); err != nil {
		return unavailable("insert feeding", err)
	}

	if _, err = tx.Exec(ctx,
		`UPDATE users SET awaiting = '' WHERE user_id = $1`, f.UserID,
	); err != nil {
		return unavailable("clear prompt", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return unavailable("commit add feeding", err)
	}
	return nil
}

func (s *Postgres) FeedingOn(ctx context.Context, userID int64, date string) ([]model.FeedingEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, time, amount, tz, date
		 FROM feeding
		 WHERE user_id = $1 AND date = $2
		 ORDER BY seq`, userID, date,
	)
	if err != nil {
		return nil, unavailable("query feeding", err)
	}
	defer rows.Close()

	var out []model.FeedingEvent
	for rows.Next() {
		var f model.FeedingEvent
		if err := rows.Scan(&f.ID, &f.UserID, &f.Time, &f.Amount, &f.Timezone, &f.Date); err != nil {
			return nil, unavailable("scan feeding", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate feeding", err)
	}
	return out, nil
}
