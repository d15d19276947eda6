// Package cache is the process-wide upstream response store. Entries are keyed
// by request URL and the caching policy is passed on every lookup.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/itchan-dev/routelab/shared/domain"
	"github.com/itchan-dev/routelab/shared/logger"
	"golang.org/x/sync/singleflight"
)

// Entry is a stored upstream response body.
type Entry struct {
	Body     []byte
	StoredAt time.Time
}

// FetchFunc performs the real upstream request on a miss.
type FetchFunc func(ctx context.Context) (Entry, error)

// Outcome reports how Do satisfied a lookup.
type Outcome int

const (
	Bypassed Outcome = iota
	Hit
	Miss
)

type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	group   singleflight.Group
}

func New() *Store {
	return &Store{entries: make(map[string]Entry)}
}

func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Do resolves key according to policy. CacheBypass always calls fetch and
// never touches the store. CacheRetain serves stored entries and collapses
// concurrent misses for the same key into one fetch; only successes are kept.
//
// A shared fetch is detached from the caller that started it and runs to
// completion, so one caller leaving never fails the others. Each caller still
// stops waiting when its own ctx is done.
func (s *Store) Do(ctx context.Context, key string, policy domain.CachePolicy, fetch FetchFunc) (Entry, Outcome, error) {
	if policy != domain.CacheRetain {
		e, err := fetch(ctx)
		return e, Bypassed, err
	}

	if e, ok := s.Get(key); ok {
		return e, Hit, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		// a concurrent flight may have stored it between Get and DoChan
		if e, ok := s.Get(key); ok {
			return e, nil
		}
		e, err := fetch(detached)
		if err != nil {
			return Entry{}, err
		}
		if e.StoredAt.IsZero() {
			e.StoredAt = time.Now()
		}
		s.mu.Lock()
		s.entries[key] = e
		s.mu.Unlock()
		logger.Log.Debug("response retained", "component", "response_cache", "key", key)
		return e, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Entry{}, Miss, res.Err
		}
		return res.Val.(Entry), Miss, nil
	case <-ctx.Done():
		return Entry{}, Miss, ctx.Err()
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
