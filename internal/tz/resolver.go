// Package tz maps users to their IANA timezone and converts instants
// into the user's local time.
package tz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "time/tzdata"

	"babylog/internal/lock"
)

// Default is used for users that never set a timezone.
const Default = "UTC"

var ErrInvalidTimezone = errors.New("invalid timezone")

type Store interface {
	Timezone(ctx context.Context, userID int64) (string, bool, error)
	SetTimezone(ctx context.Context, userID int64, name string) error
}

type Resolver struct {
	store  Store
	zones  Zones
	locker lock.Locker

	mu   sync.RWMutex
	locs map[string]*time.Location
}

// NewResolver builds a resolver. locker must be the one the sleep tracker
// uses so a zone change cannot land inside a sleep transition.
func NewResolver(store Store, zones Zones, locker lock.Locker) *Resolver {
	return &Resolver{store: store, zones: zones, locker: locker, locs: map[string]*time.Location{}}
}

// Resolve returns the user's timezone name, or Default when unset.
func (r *Resolver) Resolve(ctx context.Context, userID int64) (string, error) {
	name, ok, err := r.store.Timezone(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return Default, nil
	}
	return name, nil
}

// Set validates candidate by exact name and stores it under the user's
// lock. The store drops any open sleep session in the same write.
func (r *Resolver) Set(ctx context.Context, userID int64, candidate string) error {
	if !r.zones.Contains(candidate) {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, candidate)
	}
	if _, err := r.Location(candidate); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, candidate)
	}

	unlock, err := r.locker.Lock(ctx, lock.UserKey(userID))
	if err != nil {
		return fmt.Errorf("lock user %d: %w", userID, err)
	}
	defer unlock()
	return r.store.SetTimezone(ctx, userID, candidate)
}

func (r *Resolver) Location(name string) (*time.Location, error) {
	r.mu.RLock()
	loc, ok := r.locs[name]
	r.mu.RUnlock()
	if ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", name, err)
	}
	r.mu.Lock()
	r.locs[name] = loc
	r.mu.Unlock()
	return loc, nil
}

// Local converts at into the user's timezone and returns the zone name used.
func (r *Resolver) Local(ctx context.Context, userID int64, at time.Time) (time.Time, string, error) {
	name, err := r.Resolve(ctx, userID)
	if err != nil {
		return time.Time{}, "", err
	}
	loc, err := r.Location(name)
	if err != nil {
		return time.Time{}, "", err
	}
	return at.In(loc), name, nil
}
