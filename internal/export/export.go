// Package export writes the vault to a CSV file with every password
// re-encrypted.
//
// The CSV has the header
//
//	Service,Username,EncryptedPassword
//
// and one row per record. The password column holds the cipher token of
// the secret, never the plaintext. A record whose secret cannot be
// encrypted is still written, with an empty password column.
//
// Start runs the export on its own goroutine so the caller can keep
// working; the destination file appears atomically when the pass is
// complete.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/PolarWolf314/securevault/internal/cipher"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/PolarWolf314/securevault/internal/record"
)

// Header is the first CSV row.
var Header = []string{"Service", "Username", "EncryptedPassword"}

// Result summarizes a finished export.
type Result struct {
	// Path is the written file. Empty for Write.
	Path string

	// Rows is the number of records written.
	Rows int

	// Failed is the number of rows whose password column is empty because
	// encryption failed.
	Failed int

	Duration time.Duration
}

// Write encodes records as CSV to w. It stops between records when ctx is
// cancelled.
func Write(ctx context.Context, w io.Writer, records []record.Record, strategy cipher.Strategy, log logger.Logger) (*Result, error) {
	result := &Result{}
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		token, err := cipher.EncryptToken(strategy, []byte(r.Secret))
		if err != nil {
			log.Warnf("Could not encrypt password for %s, leaving it empty", r.Service)
			log.Detail("export encryption failed", err, zap.String("service", r.Service))
			token = ""
			result.Failed++
		}

		if err := cw.Write([]string{r.Service, r.Username, token}); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
		result.Rows++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return result, nil
}

// Options configures a background export.
type Options struct {
	// Destination is the CSV path. If empty, defaults to
	// securevault-export-YYYY-MM-DD.csv in the working directory.
	Destination string

	// VaultPath is the primary log. The export refuses to overwrite it.
	VaultPath string

	// Records is the snapshot to export.
	Records []record.Record

	Strategy cipher.Strategy
	Logger   logger.Logger
}

// Job is a running export.
type Job struct {
	group  *errgroup.Group
	result *Result
	done   chan struct{}
}

// Start validates opts and begins the export in the background. The
// records slice is copied, so the caller may keep mutating its own data.
//
// Returns ErrExportTargetIsVault if Destination resolves to VaultPath.
func Start(ctx context.Context, opts Options) (*Job, error) {
	dest := opts.Destination
	if dest == "" {
		dest = DefaultDestination(time.Now())
	}

	same, err := samePath(dest, opts.VaultPath)
	if err != nil {
		return nil, fmt.Errorf("resolving export destination: %w", err)
	}
	if same {
		return nil, kerrors.ErrExportTargetIsVault
	}

	snapshot := append([]record.Record(nil), opts.Records...)

	g, ctx := errgroup.WithContext(ctx)
	job := &Job{group: g, done: make(chan struct{})}

	g.Go(func() error {
		defer close(job.done)

		start := time.Now()
		var buf bytes.Buffer
		result, err := Write(ctx, &buf, snapshot, opts.Strategy, opts.Logger)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
			return kerrors.StoreFault("create export directory", err)
		}
		if err := atomic.WriteFile(dest, &buf); err != nil {
			return kerrors.StoreFault("write export", err)
		}
		if err := os.Chmod(dest, 0600); err != nil {
			return kerrors.StoreFault("restrict export permissions", err)
		}

		result.Path = dest
		result.Duration = time.Since(start)
		job.result = result
		opts.Logger.Debugf("Exported %d records to %s in %s", result.Rows, dest, result.Duration)
		return nil
	})

	return job, nil
}

// Done is closed when the export has finished, successfully or not.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the export finishes.
func (j *Job) Wait() (*Result, error) {
	if err := j.group.Wait(); err != nil {
		return nil, err
	}
	return j.result, nil
}

// DefaultDestination returns the file name used when none is given.
func DefaultDestination(now time.Time) string {
	return fmt.Sprintf("securevault-export-%s.csv", now.Format("2006-01-02"))
}

func samePath(a, b string) (bool, error) {
	if b == "" {
		return false, nil
	}

	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB {
		return true, nil
	}

	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(infoA, infoB), nil
}
