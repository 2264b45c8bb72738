package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// SearchOverlay runs short-lived combined queries against the backend. Its
// results live apart from the board's buckets and supersede normal category
// display while active; board loads in flight are unaffected.
//
// Each query bumps a generation counter captured before the network call.
// A response whose generation no longer matches (the overlay was cleared or
// a newer query started) is discarded, so clearing suppresses
// late results instead of merely blanking fields a stale response would
// repopulate.
type SearchOverlay struct {
	backend driven.BackendClient
	logger  *slog.Logger

	mu      sync.Mutex
	gen     uint64
	active  bool
	loading bool
	results model.SearchResults
	err     error
}

// NewSearchOverlay creates an inactive overlay.
func NewSearchOverlay(backend driven.BackendClient) *SearchOverlay {
	return &SearchOverlay{backend: backend, logger: slog.Default()}
}

// Search runs one combined query. The query is trimmed first; an empty
// result clears the overlay instead of querying.
func (s *SearchOverlay) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		s.Clear()
		return nil
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.active = true
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	results, err := s.backend.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Cleared or superseded while in flight; drop the response.
		return nil
	}
	s.loading = false
	if err != nil {
		s.err = err
		return fmt.Errorf("search %q: %w", query, err)
	}
	s.results = results
	return nil
}

// Clear discards results and deactivates the overlay, restoring normal
// bucket-based display. Any response still in flight lands on a stale
// generation and is dropped.
func (s *SearchOverlay) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.active = false
	s.loading = false
	s.results = model.SearchResults{}
	s.err = nil
}

// Results returns the current results and whether the overlay is active.
func (s *SearchOverlay) Results() (model.SearchResults, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results, s.active
}

// Loading reports whether a query is in flight.
func (s *SearchOverlay) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last query's error, or nil.
func (s *SearchOverlay) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
