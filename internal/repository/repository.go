// Package repository keeps the categorized in-memory view of the vault.
//
// Every mutation is written through to the Persister before the in-memory
// view changes, and the change is published to the Feed only after both
// succeeded. A persistence failure leaves the view untouched and publishes
// nothing.
//
// Categories exist only in memory. Records loaded from the vault at startup
// are placed in DefaultCategory.
package repository

import (
	"fmt"
	"sync"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/feed"
	"github.com/PolarWolf314/securevault/internal/record"
)

// DefaultCategory holds records added without a category.
const DefaultCategory = "Default"

// Persister is the write side of the encrypted store.
type Persister interface {
	Append(r record.Record) error
	OverwriteAll(records []record.Record) error
}

// Repository maps category names to ordered record lists.
type Repository struct {
	mu         sync.RWMutex
	categories map[string][]record.Record
	// order keeps categories in first-insertion order.
	order []string

	store Persister
	feed  *feed.Feed
}

// New returns an empty Repository. store and f may be nil, in which case
// mutations are memory-only or unpublished respectively.
func New(store Persister, f *feed.Feed) *Repository {
	return &Repository{
		categories: make(map[string][]record.Record),
		store:      store,
		feed:       f,
	}
}

// Load seeds category with records without persisting or publishing.
func (r *Repository) Load(category string, records []record.Record) {
	category = normalize(category)

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(records) == 0 {
		return
	}
	r.ensure(category)
	r.categories[category] = append(r.categories[category], records...)
}

// Add appends rec to category.
func (r *Repository) Add(category string, rec record.Record) error {
	category = normalize(category)

	r.mu.Lock()
	if r.store != nil {
		if err := r.store.Append(rec); err != nil {
			r.mu.Unlock()
			return fmt.Errorf("persisting new record: %w", err)
		}
	}
	r.ensure(category)
	r.categories[category] = append(r.categories[category], rec)
	r.mu.Unlock()

	r.publish(feed.NewEvent(feed.KindAdded, category, rec))
	return nil
}

// Remove deletes the first record in category equal to rec. It reports
// false when no such record exists.
func (r *Repository) Remove(category string, rec record.Record) (bool, error) {
	category = normalize(category)

	r.mu.Lock()
	idx := indexOf(r.categories[category], rec)
	if idx < 0 {
		r.mu.Unlock()
		return false, nil
	}

	current := r.categories[category]
	next := make([]record.Record, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)

	if err := r.overwrite(category, next); err != nil {
		r.mu.Unlock()
		return false, fmt.Errorf("persisting removal: %w", err)
	}
	r.commit(category, next)
	r.mu.Unlock()

	r.publish(feed.NewEvent(feed.KindRemoved, category, rec))
	return true, nil
}

// Modify replaces the first record in category equal to old with updated,
// keeping its position. It reports false when old is not present.
func (r *Repository) Modify(category string, old, updated record.Record) (bool, error) {
	category = normalize(category)

	r.mu.Lock()
	idx := indexOf(r.categories[category], old)
	if idx < 0 {
		r.mu.Unlock()
		return false, nil
	}

	next := append([]record.Record(nil), r.categories[category]...)
	next[idx] = updated

	if err := r.overwrite(category, next); err != nil {
		r.mu.Unlock()
		return false, fmt.Errorf("persisting modification: %w", err)
	}
	r.commit(category, next)
	r.mu.Unlock()

	e := feed.NewEvent(feed.KindModified, category, updated)
	e.Previous = old
	r.publish(e)
	return true, nil
}

// Clear removes every record from memory and from the store.
func (r *Repository) Clear() error {
	r.mu.Lock()
	if r.store != nil {
		if err := r.store.OverwriteAll(nil); err != nil {
			r.mu.Unlock()
			return fmt.Errorf("persisting clear: %w", err)
		}
	}
	r.categories = make(map[string][]record.Record)
	r.order = nil
	r.mu.Unlock()

	r.publish(feed.NewEvent(feed.KindCleared, "", record.Record{}))
	return nil
}

// Locate returns the category of the first record equal to rec.
func (r *Repository) Locate(rec record.Record) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.order {
		if indexOf(r.categories[c], rec) >= 0 {
			return c, nil
		}
	}
	return "", kerrors.ErrRecordNotFound
}

// overwrite persists the full view with category replaced by next. The
// caller holds the write lock.
func (r *Repository) overwrite(category string, next []record.Record) error {
	if r.store == nil {
		return nil
	}

	var all []record.Record
	for _, c := range r.order {
		if c == category {
			all = append(all, next...)
			continue
		}
		all = append(all, r.categories[c]...)
	}
	return r.store.OverwriteAll(all)
}

// commit installs next as category's list, dropping the category when it
// is empty. The caller holds the write lock.
func (r *Repository) commit(category string, next []record.Record) {
	if len(next) > 0 {
		r.categories[category] = next
		return
	}

	delete(r.categories, category)
	for i, c := range r.order {
		if c == category {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Repository) ensure(category string) {
	if _, ok := r.categories[category]; !ok {
		r.order = append(r.order, category)
	}
}

func (r *Repository) publish(e feed.Event) {
	if r.feed != nil {
		r.feed.Publish(e)
	}
}

func normalize(category string) string {
	if category == "" {
		return DefaultCategory
	}
	return category
}

func indexOf(records []record.Record, rec record.Record) int {
	for i, candidate := range records {
		if candidate == rec {
			return i
		}
	}
	return -1
}
