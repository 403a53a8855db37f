package workflows

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/configs"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/export"
	"github.com/PolarWolf314/securevault/internal/feed"
	"github.com/PolarWolf314/securevault/internal/gate"
	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/PolarWolf314/securevault/internal/record"
	"github.com/PolarWolf314/securevault/internal/repository"
	"github.com/PolarWolf314/securevault/internal/utils"
	"github.com/PolarWolf314/securevault/internal/vault"
)

// Session is an unlocked vault. It is not safe for concurrent use, except
// that an export started from it runs in the background.
type Session struct {
	settings *configs.Settings
	log      logger.Logger

	gate    *gate.Gate
	store   *vault.Store
	repo    *repository.Repository
	feed    *feed.Feed
	counter *feed.Counter
	journal *audit.Journal

	skipped     []vault.SkippedLine
	unsubscribe []func()
}

// Settings returns the settings the session was opened with.
func (s *Session) Settings() *configs.Settings { return s.settings }

// Feed returns the change feed. Subscribers see every applied change.
func (s *Session) Feed() *feed.Feed { return s.feed }

// Repository returns the in-memory view for read-only queries.
func (s *Session) Repository() *repository.Repository { return s.repo }

// Counter returns the per-kind change statistics of this session.
func (s *Session) Counter() *feed.Counter { return s.counter }

// Skipped returns the log lines that could not be read at unlock.
func (s *Session) Skipped() []vault.SkippedLine { return s.skipped }

// Close detaches the session's own subscribers.
func (s *Session) Close() {
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.unsubscribe = nil
}

// Add stores a new credential. Service, username and category are
// sanitized; the secret is stored exactly as given but must not be empty.
func (s *Session) Add(ctx context.Context, category, service, username, secret string) (record.Record, error) {
	r, err := newRecord(service, username, secret)
	if err != nil {
		return record.Record{}, err
	}

	if category != "" {
		if category, err = utils.SanitizeInput(category); err != nil {
			return record.Record{}, fmt.Errorf("category: %w", err)
		}
	}

	if err := s.repo.Add(category, r); err != nil {
		return record.Record{}, err
	}
	return r, nil
}

// Remove deletes the first stored record equal to r.
//
// Returns ErrRecordNotFound if no record matches.
func (s *Session) Remove(ctx context.Context, r record.Record) error {
	category, err := s.repo.Locate(r)
	if err != nil {
		return err
	}

	removed, err := s.repo.Remove(category, r)
	if err != nil {
		return err
	}
	if !removed {
		return kerrors.ErrRecordNotFound
	}
	return nil
}

// Modify replaces old with a record built from the new values, keeping its
// position and category.
//
// Returns ErrRecordNotFound if old is not stored.
func (s *Session) Modify(ctx context.Context, old record.Record, service, username, secret string) (record.Record, error) {
	updated, err := newRecord(service, username, secret)
	if err != nil {
		return record.Record{}, err
	}

	category, err := s.repo.Locate(old)
	if err != nil {
		return record.Record{}, err
	}

	ok, err := s.repo.Modify(category, old, updated)
	if err != nil {
		return record.Record{}, err
	}
	if !ok {
		return record.Record{}, kerrors.ErrRecordNotFound
	}
	return updated, nil
}

// Clear deletes every record.
func (s *Session) Clear(ctx context.Context) error {
	return s.repo.Clear()
}

// Records returns every stored record in display order.
func (s *Session) Records() []record.Record {
	return s.repo.All()
}

// SearchField selects what Search matches against.
type SearchField int

const (
	SearchService SearchField = iota
	SearchUsername
)

// Search returns records whose field contains query, ignoring case.
func (s *Session) Search(ctx context.Context, query string, field SearchField) ([]record.Record, error) {
	q, err := utils.SanitizeInput(query)
	if err != nil {
		return nil, err
	}

	if field == SearchUsername {
		return s.repo.SearchByUsername(q), nil
	}
	return s.repo.SearchByService(q), nil
}

// ChangePassphrase replaces the master passphrase after verifying the
// current one. The record key is unaffected.
//
// Returns ErrPassphraseMismatch if current is wrong.
func (s *Session) ChangePassphrase(ctx context.Context, current, next string) error {
	if err := s.gate.Change(current, next); err != nil {
		return err
	}

	s.log.Infof("Master passphrase changed")
	if s.journal != nil {
		s.journal.Log(audit.Entry{Operation: audit.OpPasswd})
	}
	return nil
}

// LoadReport describes a fresh pass over the log.
type LoadReport struct {
	Readable int
	Skipped  []vault.SkippedLine
}

// Doctor re-reads the log and reports which lines are unreadable.
func (s *Session) Doctor(ctx context.Context) (*LoadReport, error) {
	result, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return &LoadReport{Readable: len(result.Records), Skipped: result.Skipped}, nil
}

// ExportJob is a running CSV export.
type ExportJob struct {
	job     *export.Job
	journal *audit.Journal

	once   sync.Once
	result *export.Result
	err    error
}

// Done is closed when the export has finished.
func (j *ExportJob) Done() <-chan struct{} { return j.job.Done() }

// Wait blocks until the export finishes and records it in the journal.
func (j *ExportJob) Wait() (*export.Result, error) {
	j.once.Do(func() {
		j.result, j.err = j.job.Wait()
		if j.err == nil && j.journal != nil {
			j.journal.Log(audit.Entry{Operation: audit.OpExport, OutputPath: j.result.Path, Count: j.result.Rows})
		}
	})
	return j.result, j.err
}

// Export starts writing a CSV snapshot of every record to dest in the
// background. A ".csv" extension is added when dest has none.
//
// Returns ErrNoRecords if the vault is empty.
// Returns ErrInvalidInput if dest is not a usable file name.
// Returns ErrExportTargetIsVault if dest is the vault file.
func (s *Session) Export(ctx context.Context, dest string) (*ExportJob, error) {
	if err := utils.ValidateFileName(dest); err != nil {
		return nil, err
	}
	if filepath.Ext(dest) == "" {
		dest += ".csv"
	}

	records := s.repo.All()
	if len(records) == 0 {
		return nil, kerrors.ErrNoRecords
	}

	job, err := export.Start(ctx, export.Options{
		Destination: dest,
		VaultPath:   s.store.Path(),
		Records:     records,
		Strategy:    s.store.Strategy(),
		Logger:      s.log,
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Export of %d records to %s started", len(records), dest)
	return &ExportJob{job: job, journal: s.journal}, nil
}

func newRecord(service, username, secret string) (record.Record, error) {
	service, err := utils.SanitizeInput(service)
	if err != nil {
		return record.Record{}, fmt.Errorf("service: %w", err)
	}
	username, err = utils.SanitizeInput(username)
	if err != nil {
		return record.Record{}, fmt.Errorf("username: %w", err)
	}
	if secret == "" {
		return record.Record{}, fmt.Errorf("%w: password is empty", kerrors.ErrInvalidInput)
	}
	return record.New(service, username, secret), nil
}
