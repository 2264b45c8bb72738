package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// ErrEmptyID is returned when a mutation targets an entity whose normalized
// id is empty. No request is issued with an empty identifier.
var ErrEmptyID = errors.New("entity id is empty")

// ErrNotConfirmed is returned when a destructive operation is attempted
// without the caller's explicit prior confirmation.
var ErrNotConfirmed = errors.New("destructive action not confirmed")

// Board is the client-side projection of categories and their links,
// partitioned into buckets: one per category id, plus "all" and
// "uncategorized". Buckets are filled by independent asynchronous fetches;
// the "all" bucket comes from its own backend endpoint and is never derived
// locally. After a mutation the affected buckets are re-fetched rather than
// patched, so a transient mismatch between "all" and the per-category
// buckets is expected and self-healing.
type Board struct {
	backend driven.BackendClient
	logger  *slog.Logger

	mu         sync.RWMutex
	categories []model.Category
	buckets    map[string][]model.Link
	loading    map[string]bool
	errs       map[string]error
	catLoading bool
	catErr     error

	bg sync.WaitGroup
}

// NewBoard creates an empty board over the backend.
func NewBoard(backend driven.BackendClient) *Board {
	return &Board{
		backend: backend,
		logger:  slog.Default(),
		buckets: make(map[string][]model.Link),
		loading: make(map[string]bool),
		errs:    make(map[string]error),
	}
}

// LoadCategories fetches the category list and replaces it wholesale (no
// merge). On success it enqueues, without waiting for, one LoadLinks per
// category plus one LoadAll, so categories can be observed before their link
// buckets have resolved.
func (b *Board) LoadCategories(ctx context.Context) error {
	b.mu.Lock()
	b.catLoading = true
	b.mu.Unlock()

	cats, err := b.backend.ListCategories(ctx)

	b.mu.Lock()
	b.catLoading = false
	if err != nil {
		b.catErr = err
		b.mu.Unlock()
		return fmt.Errorf("load categories: %w", err)
	}
	b.catErr = nil
	b.categories = cats
	b.mu.Unlock()

	// The enqueued loads outlive the caller: a mutation's request context
	// ends the moment its handler returns, but an issued load must still
	// land. Values (trace ids etc.) carry over; only cancellation is cut.
	bg := context.WithoutCancel(ctx)
	for _, cat := range cats {
		id := cat.ID
		b.spawn(func() {
			if err := b.LoadLinks(bg, id); err != nil {
				b.logger.Warn("bucket load failed", "bucket", id, "error", err)
			}
		})
	}
	b.spawn(func() {
		if err := b.LoadAll(bg); err != nil {
			b.logger.Warn("aggregate load failed", "error", err)
		}
	})
	b.spawn(func() {
		if err := b.LoadLinks(bg, model.BucketUncategorized); err != nil {
			b.logger.Warn("bucket load failed", "bucket", model.BucketUncategorized, "error", err)
		}
	})

	return nil
}

// LoadLinks fetches one bucket (a category id or the uncategorized
// partition) and replaces its content entirely. Concurrent loads of
// different buckets are independent; for a single bucket the last response
// to arrive wins. A failure marks only this bucket and leaves its previous
// content in place.
func (b *Board) LoadLinks(ctx context.Context, bucket string) error {
	b.setLoading(bucket, true)

	links, err := b.backend.LinksByBucket(ctx, bucket)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading[bucket] = false
	if err != nil {
		b.errs[bucket] = err
		return fmt.Errorf("load bucket %q: %w", bucket, err)
	}
	delete(b.errs, bucket)
	b.buckets[bucket] = links
	return nil
}

// LoadAll fetches the backend's combined categorized + uncategorized result
// into the "all" bucket.
func (b *Board) LoadAll(ctx context.Context) error {
	b.setLoading(model.BucketAll, true)

	links, err := b.backend.AllLinks(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading[model.BucketAll] = false
	if err != nil {
		b.errs[model.BucketAll] = err
		return fmt.Errorf("load all links: %w", err)
	}
	delete(b.errs, model.BucketAll)
	b.buckets[model.BucketAll] = links
	return nil
}

// CreateCategory creates a category and reloads the full category list.
func (b *Board) CreateCategory(ctx context.Context, name string) error {
	if err := b.backend.CreateCategory(ctx, name); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return b.LoadCategories(ctx)
}

// UpdateCategory renames a category and reloads the full category list.
func (b *Board) UpdateCategory(ctx context.Context, id, name string) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := b.backend.UpdateCategory(ctx, id, name); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return b.LoadCategories(ctx)
}

// RemoveCategory deletes a category. Removal cascades to its links
// server-side, and the cascade's exact effect on bucket contents cannot be
// predicted locally, so the whole category list is reloaded instead of
// patched. confirmed must be true; the caller obtains the user's
// confirmation before calling.
func (b *Board) RemoveCategory(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if id == "" {
		return ErrEmptyID
	}
	if err := b.backend.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	return b.LoadCategories(ctx)
}

// CreateLink normalizes the URL, creates the link, then refreshes the "all"
// bucket and the bucket the link landed in. The two refreshes run
// concurrently; their failures surface as per-bucket error state, not as a
// CreateLink error.
func (b *Board) CreateLink(ctx context.Context, name, rawURL string, categoryID *string) error {
	normalized, err := model.NormalizeURL(rawURL)
	if err != nil {
		return err
	}

	if err := b.backend.CreateLink(ctx, name, normalized, categoryID); err != nil {
		return fmt.Errorf("create link: %w", err)
	}

	target := model.BucketUncategorized
	if categoryID != nil && *categoryID != "" {
		target = *categoryID
	}
	b.refresh(ctx, target)
	return nil
}

// UpdateLink updates a link and refreshes the "all" bucket, the link's prior
// bucket, and its new bucket when the category assignment changed.
func (b *Board) UpdateLink(ctx context.Context, id string, upd driven.LinkUpdate, prevBucket string) error {
	if id == "" {
		return ErrEmptyID
	}

	if upd.URL != "" {
		normalized, err := model.NormalizeURL(upd.URL)
		if err != nil {
			return err
		}
		upd.URL = normalized
	}

	if err := b.backend.UpdateLink(ctx, id, upd); err != nil {
		return fmt.Errorf("update link: %w", err)
	}

	affected := []string{prevBucket}
	if upd.CategoryID != nil {
		if next := model.BucketForCategory(*upd.CategoryID); next != prevBucket {
			affected = append(affected, next)
		}
	}
	b.refresh(ctx, affected...)
	return nil
}

// RemoveLink deletes a link and refreshes the "all" bucket and the bucket it
// was filed under. confirmed must be true.
func (b *Board) RemoveLink(ctx context.Context, id, bucket string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if id == "" {
		return ErrEmptyID
	}
	if err := b.backend.DeleteLink(ctx, id); err != nil {
		return fmt.Errorf("remove link: %w", err)
	}
	b.refresh(ctx, bucket)
	return nil
}

// Categories returns a copy of the current category list.
func (b *Board) Categories() []model.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Category, len(b.categories))
	copy(out, b.categories)
	return out
}

// Bucket returns a copy of the bucket's current content. A bucket that has
// never resolved yields an empty slice, never an error.
func (b *Board) Bucket(key string) []model.Link {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Link, len(b.buckets[key]))
	copy(out, b.buckets[key])
	return out
}

// Loading reports whether a fetch for the bucket is in flight. A hung
// request leaves this set; that surfaces as a persistent loading indicator,
// not a fatal error.
func (b *Board) Loading(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading[key]
}

// Err returns the bucket's last fetch error, or nil. Errors are per-bucket:
// one failed fetch never clears other buckets.
func (b *Board) Err(key string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.errs[key]
}

// CategoriesLoading reports whether a category list fetch is in flight.
func (b *Board) CategoriesLoading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catLoading
}

// CategoriesErr returns the last category list fetch error, or nil.
func (b *Board) CategoriesErr() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catErr
}

// Wait blocks until every enqueued background load has finished. Used on
// shutdown to drain in-flight fetches.
func (b *Board) Wait() {
	b.bg.Wait()
}

// refresh re-fetches the "all" bucket plus the given buckets concurrently
// and waits for them. Fetch errors land in per-bucket error state.
func (b *Board) refresh(ctx context.Context, buckets ...string) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := b.LoadAll(ctx); err != nil {
			b.logger.Warn("aggregate refresh failed", "error", err)
		}
	}()

	for _, bucket := range buckets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.LoadLinks(ctx, bucket); err != nil {
				b.logger.Warn("bucket refresh failed", "bucket", bucket, "error", err)
			}
		}()
	}

	wg.Wait()
}

func (b *Board) setLoading(bucket string, v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading[bucket] = v
}

func (b *Board) spawn(fn func()) {
	b.bg.Add(1)
	go func() {
		defer b.bg.Done()
		fn()
	}()
}
