package repository

import (
	"sort"
	"strings"

	"github.com/PolarWolf314/securevault/internal/record"
)

// All returns every record, category by category in insertion order.
func (r *Repository) All() []record.Record {
	return r.Filter(nil)
}

// Count returns the number of records across all categories.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, records := range r.categories {
		n += len(records)
	}
	return n
}

// Categories returns the non-empty category names in insertion order.
func (r *Repository) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ByCategory returns a copy of the records in category.
func (r *Repository) ByCategory(category string) []record.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]record.Record(nil), r.categories[normalize(category)]...)
}

// SearchByService returns records whose service contains query, ignoring case.
func (r *Repository) SearchByService(query string) []record.Record {
	q := strings.ToLower(query)
	return r.Filter(func(rec record.Record) bool {
		return strings.Contains(strings.ToLower(rec.Service), q)
	})
}

// SearchByUsername returns records whose username contains query, ignoring case.
func (r *Repository) SearchByUsername(query string) []record.Record {
	q := strings.ToLower(query)
	return r.Filter(func(rec record.Record) bool {
		return strings.Contains(strings.ToLower(rec.Username), q)
	})
}

// Filter returns the records for which keep reports true. A nil keep
// matches everything.
func (r *Repository) Filter(keep func(record.Record) bool) []record.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []record.Record
	for _, c := range r.order {
		for _, rec := range r.categories[c] {
			if keep == nil || keep(rec) {
				out = append(out, rec)
			}
		}
	}
	return out
}

// HasMatching reports whether any record satisfies pred.
func (r *Repository) HasMatching(pred func(record.Record) bool) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, records := range r.categories {
		for _, rec := range records {
			if pred(rec) {
				return true
			}
		}
	}
	return false
}

// GroupByService groups all records by exact service name.
func (r *Repository) GroupByService() map[string][]record.Record {
	groups := make(map[string][]record.Record)
	for _, rec := range r.All() {
		groups[rec.Service] = append(groups[rec.Service], rec)
	}
	return groups
}

// FindDuplicates returns every record that shares its service and username
// with at least one other record. Groups appear in order of first
// occurrence.
func (r *Repository) FindDuplicates() []record.Record {
	type identity struct{ service, username string }

	all := r.All()
	counts := make(map[identity]int, len(all))
	for _, rec := range all {
		counts[identity{rec.Service, rec.Username}]++
	}

	var out []record.Record
	seen := make(map[identity]bool)
	for _, rec := range all {
		id := identity{rec.Service, rec.Username}
		if counts[id] < 2 || seen[id] {
			continue
		}
		seen[id] = true
		for _, candidate := range all {
			if candidate.Service == id.service && candidate.Username == id.username {
				out = append(out, candidate)
			}
		}
	}
	return out
}

// CategoryStatistics returns the record count per category.
func (r *Repository) CategoryStatistics() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]int, len(r.categories))
	for c, records := range r.categories {
		stats[c] = len(records)
	}
	return stats
}

// TopCategories returns up to limit category names, largest first. Ties
// keep insertion order.
func (r *Repository) TopCategories(limit int) []string {
	if limit <= 0 {
		return nil
	}

	r.mu.RLock()
	names := append([]string(nil), r.order...)
	sizes := make(map[string]int, len(names))
	for _, c := range names {
		sizes[c] = len(r.categories[c])
	}
	r.mu.RUnlock()

	sort.SliceStable(names, func(i, j int) bool { return sizes[names[i]] > sizes[names[j]] })
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
