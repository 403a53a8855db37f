package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/configs"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

const dateLayout = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	Settings *configs.Settings

	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Service filters entries by service name.
	Service string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered journal entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// ReadLog reads and filters the change journal. A missing journal yields
// an empty result.
//
// Returns ErrInvalidDateFormat if a date filter is malformed.
func ReadLog(ctx context.Context, opts LogOptions) (*LogResult, error) {
	filter := audit.FilterOptions{
		Service: opts.Service,
		Limit:   opts.Limit,
		Reverse: opts.Reverse,
	}

	if opts.Operations != "" {
		filter.Operations = strings.Split(opts.Operations, ",")
	}

	if opts.Since != "" {
		since, err := time.Parse(dateLayout, opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		filter.Since = since
	}

	if opts.Until != "" {
		until, err := time.Parse(dateLayout, opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Include the entire day.
		filter.Until = until.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := audit.ReadEntries(opts.Settings.AuditFile)
	if err != nil {
		return nil, fmt.Errorf("reading change journal: %w", err)
	}

	return &LogResult{
		Entries:                  audit.Filter(entries, filter),
		TotalEntriesBeforeFilter: len(entries),
	}, nil
}

// FormatDate formats a timestamp string to YYYY-MM-DD format.
func FormatDate(ts string) string {
	t, err := (audit.Entry{Timestamp: ts}).Time()
	if err != nil {
		if len(ts) >= 10 {
			return ts[:10]
		}
		return ts
	}
	return t.Format(dateLayout)
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, err := (audit.Entry{Timestamp: ts}).Time()
	if err != nil {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails formats the details for a log entry in verbose format.
func FormatDetails(e audit.Entry) string {
	switch e.Operation {
	case audit.OpAdded, audit.OpRemoved:
		return fmt.Sprintf("%s (%s) in %s", e.Service, e.Username, e.Category)
	case audit.OpModified:
		return fmt.Sprintf("%s (%s) -> %s (%s) in %s", e.PrevService, e.PrevUser, e.Service, e.Username, e.Category)
	case audit.OpExport:
		return fmt.Sprintf("%d records to %s", e.Count, e.OutputPath)
	default:
		return ""
	}
}

// FormatDetailsOneline formats the details for a log entry in oneline format.
func FormatDetailsOneline(e audit.Entry) string {
	switch e.Operation {
	case audit.OpAdded, audit.OpRemoved:
		return e.Service
	case audit.OpModified:
		if e.PrevService != e.Service {
			return fmt.Sprintf("%s -> %s", e.PrevService, e.Service)
		}
		return e.Service
	case audit.OpExport:
		return e.OutputPath
	default:
		return ""
	}
}
