// Package static holds pages rendered ahead of request time: it enumerates
// static route params, prerenders them, and exports or loads the result.
package static

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Page is one prerendered document.
type Page struct {
	Path        string
	HTML        []byte
	GeneratedAt time.Time
}

type Store struct {
	buildId string
	ready   atomic.Bool

	mu    sync.RWMutex
	pages map[string]Page
}

// NewStore creates an empty store; an empty buildId gets a random one.
func NewStore(buildId string) *Store {
	if buildId == "" {
		buildId = uuid.NewString()
	}
	return &Store{buildId: buildId, pages: make(map[string]Page)}
}

func (s *Store) BuildId() string {
	return s.buildId
}

func (s *Store) Get(path string) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[NormalizePath(path)]
	return p, ok
}

func (s *Store) Put(p Page) {
	p.Path = NormalizePath(p.Path)
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}
	s.mu.Lock()
	s.pages[p.Path] = p
	s.mu.Unlock()
}

// Paths lists stored paths in lexical order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	paths := make([]string, 0, len(s.pages))
	for p := range s.pages {
		paths = append(paths, p)
	}
	s.mu.RUnlock()
	sort.Strings(paths)
	return paths
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// MarkReady records that the build phase finished.
func (s *Store) MarkReady() {
	s.ready.Store(true)
}

func (s *Store) Ready() bool {
	return s.ready.Load()
}

func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// ValidatePath rejects paths that cannot be written as export files.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with /")
	}
	if strings.ContainsAny(path, "?#*\\") {
		return fmt.Errorf("path %q contains a reserved character", path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "." || seg == ".." {
			return fmt.Errorf("path %q cannot contain dot segments", path)
		}
	}
	if strings.Contains(path, "//") {
		return fmt.Errorf("path %q contains an empty segment", path)
	}
	return nil
}
