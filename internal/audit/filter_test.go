package audit

import (
	"testing"
	"time"
)

func sampleEntries() []Entry {
	return []Entry{
		{Timestamp: "2024-01-10T09:00:00.000000Z", Operation: OpInit},
		{Timestamp: "2024-01-11T09:00:00.000000Z", Operation: OpAdded, Service: "Gmail"},
		{Timestamp: "2024-01-12T09:00:00.000000Z", Operation: OpAdded, Service: "Slack"},
		{Timestamp: "2024-01-13T09:00:00.000000Z", Operation: OpRemoved, Service: "gmail"},
		{Timestamp: "2024-01-14T09:00:00.000000Z", Operation: OpExport},
	}
}

func operations(entries []Entry) []string {
	ops := make([]string, len(entries))
	for i, e := range entries {
		ops[i] = e.Operation + ":" + e.Service
	}
	return ops
}

func TestFilter(t *testing.T) {
	day := func(s string) time.Time {
		t.Helper()
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{
			name: "no filters",
			opts: FilterOptions{},
			want: []string{"init:", "added:Gmail", "added:Slack", "removed:gmail", "export:"},
		},
		{
			name: "operations",
			opts: FilterOptions{Operations: []string{" ADDED", "removed"}},
			want: []string{"added:Gmail", "added:Slack", "removed:gmail"},
		},
		{
			name: "service is case insensitive",
			opts: FilterOptions{Service: "GMAIL"},
			want: []string{"added:Gmail", "removed:gmail"},
		},
		{
			name: "date range",
			opts: FilterOptions{Since: day("2024-01-11"), Until: day("2024-01-12").Add(24*time.Hour - time.Nanosecond)},
			want: []string{"added:Gmail", "added:Slack"},
		},
		{
			name: "limit keeps most recent",
			opts: FilterOptions{Limit: 2},
			want: []string{"removed:gmail", "export:"},
		},
		{
			name: "reverse with limit",
			opts: FilterOptions{Limit: 2, Reverse: true},
			want: []string{"export:", "removed:gmail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := operations(Filter(sampleEntries(), tt.opts))
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	entries := sampleEntries()
	_ = Filter(entries, FilterOptions{Reverse: true})

	if entries[0].Operation != OpInit {
		t.Errorf("Input slice was reordered")
	}
}
