// Package session keeps per-browser dashboard state: the scanned catalog, the
// two result panels and the overlap selectors.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"brainmapp/domain/results"
	"brainmapp/ports"
)

// Store holds all live sessions and shares one scanner between them.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	scanner  ports.CatalogScanner
	scans    singleflight.Group
	now      func() time.Time
}

// NewStore creates an empty session store
func NewStore(scanner ports.CatalogScanner) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		scanner:  scanner,
		now:      time.Now,
	}
}

// GetOrCreate returns the session with id, creating a fresh one (with a new
// id) when id is empty or unknown.
func (s *Store) GetOrCreate(id string) *Session {
	if id != "" {
		s.mu.RLock()
		sess, ok := s.sessions[id]
		s.mu.RUnlock()
		if ok {
			sess.touch(s.now())
			return sess
		}
	}

	sess := newSession(uuid.NewString(), s.now())
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Scan rescans root for sess. Concurrent scans of the same root share one
// directory walk, which runs detached from any single caller's cancellation.
// A caller whose own context ends gets ctx.Err() and keeps its catalog; on any
// other failure the session's catalog is cleared so no stale models remain
// selectable.
func (s *Store) Scan(ctx context.Context, sess *Session, root string) (*results.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shared := context.WithoutCancel(ctx)
	ch := s.scans.DoChan(root, func() (interface{}, error) {
		return s.scanner.Scan(shared, root)
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		sess.clearCatalog(root)
		return nil, r.Err
	}
	if r.Shared {
		log.Printf("[Session] scan of %s shared between concurrent requests", root)
	}

	res := r.Val.(*results.ScanResult)
	sess.setCatalog(root, res)
	return res, nil
}

// Prune drops sessions idle for longer than maxIdle and returns how many were
// removed.
func (s *Store) Prune(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunPruner prunes idle sessions every interval until ctx is done.
func (s *Store) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(maxIdle); n > 0 {
				log.Printf("[Session] pruned %d idle sessions", n)
			}
		}
	}
}
