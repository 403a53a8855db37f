package audit

import (
	"strings"
	"time"
)

// FilterOptions selects journal entries. Zero values disable a filter.
type FilterOptions struct {
	Operations []string
	Service    string
	Since      time.Time
	Until      time.Time

	// Limit keeps the most recent N entries.
	Limit int

	// Reverse orders entries from most recent to oldest.
	Reverse bool
}

// Filter applies opts to entries, which are assumed to be in write order.
// The input slice is not modified.
func Filter(entries []Entry, opts FilterOptions) []Entry {
	filtered := make([]Entry, 0, len(entries))

	ops := make(map[string]bool, len(opts.Operations))
	for _, op := range opts.Operations {
		if op = strings.ToLower(strings.TrimSpace(op)); op != "" {
			ops[op] = true
		}
	}

	for _, e := range entries {
		if len(ops) > 0 && !ops[strings.ToLower(e.Operation)] {
			continue
		}
		if opts.Service != "" && !strings.EqualFold(e.Service, opts.Service) {
			continue
		}
		if !opts.Since.IsZero() || !opts.Until.IsZero() {
			t, err := e.Time()
			if err != nil {
				continue
			}
			if !opts.Since.IsZero() && t.Before(opts.Since) {
				continue
			}
			if !opts.Until.IsZero() && t.After(opts.Until) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			// When reversed, limit takes first N (most recent).
			filtered = filtered[:opts.Limit]
		} else {
			// When not reversed, limit takes last N (most recent).
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	return filtered
}
