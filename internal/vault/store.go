package vault

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/PolarWolf314/securevault/internal/cipher"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/PolarWolf314/securevault/internal/record"
	"go.uber.org/zap"
)

// maxLineSize bounds a single encrypted line. Records are small; this only
// guards against reading an unrelated binary file as a log.
const maxLineSize = 1 << 20

// Store reads and writes the encrypted log at Path.
type Store struct {
	path     string
	strategy cipher.Strategy
	log      logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for skipped-line warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a Store for the log at path. The file is not touched until
// the first operation.
func New(path string, strategy cipher.Strategy, opts ...Option) *Store {
	s := &Store{path: path, strategy: strategy}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the log location.
func (s *Store) Path() string { return s.path }

// Strategy returns the cipher used for every line.
func (s *Store) Strategy() cipher.Strategy { return s.strategy }

// SkippedLine describes a line that Load could not turn into a record.
type SkippedLine struct {
	Line int
	Err  error
}

// LoadResult is the outcome of reading the whole log.
type LoadResult struct {
	Records []record.Record
	Skipped []SkippedLine
}

// Load reads every line of the log. Lines that fail are reported in
// Skipped and logged; only I/O errors on the file itself are returned. A
// missing file yields an empty result.
func (s *Store) Load() (*LoadResult, error) {
	result := &LoadResult{}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, kerrors.StoreFault("open log", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		r, err := s.decodeLine(line)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedLine{Line: lineNo, Err: err})
			s.log.Warnf("Skipping unreadable record on line %d", lineNo)
			s.log.Detail("skipped log line", err, zap.Int("line", lineNo), zap.String("path", s.path))
			continue
		}
		result.Records = append(result.Records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, kerrors.StoreFault("read log", err)
	}

	s.log.Debugf("Loaded %d records from %s (%d skipped)", len(result.Records), s.path, len(result.Skipped))
	return result, nil
}

// LoadAll returns the readable records in file order.
func (s *Store) LoadAll() ([]record.Record, error) {
	result, err := s.Load()
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// Append adds r as a new line at the end of the log.
func (s *Store) Append(r record.Record) error {
	line, err := s.encodeLine(r)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return kerrors.StoreFault("create log directory", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return kerrors.StoreFault("open log for append", err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return kerrors.StoreFault("append record", err)
	}
	if err := f.Close(); err != nil {
		return kerrors.StoreFault("close log", err)
	}
	return nil
}

// OverwriteAll replaces the log with records in the given order.
func (s *Store) OverwriteAll(records []record.Record) error {
	var buf bytes.Buffer
	for i, r := range records {
		line, err := s.encodeLine(r)
		if err != nil {
			return fmt.Errorf("encrypting record %d of %d: %w", i+1, len(records), err)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return kerrors.StoreFault("create log directory", err)
	}
	if err := atomic.WriteFile(s.path, &buf); err != nil {
		return kerrors.StoreFault("replace log", err)
	}
	if err := os.Chmod(s.path, 0600); err != nil {
		return kerrors.StoreFault("restrict log permissions", err)
	}
	return nil
}

// Create makes an empty log if none exists. A log that cannot be inspected
// is left alone.
func (s *Store) Create() error {
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return s.OverwriteAll(nil)
	default:
		return kerrors.StoreFault("inspect log", err)
	}
}

func (s *Store) encodeLine(r record.Record) (string, error) {
	return cipher.EncryptToken(s.strategy, []byte(record.Encode(r)))
}

func (s *Store) decodeLine(line string) (record.Record, error) {
	plaintext, err := cipher.DecryptToken(s.strategy, line)
	if err != nil {
		return record.Record{}, err
	}
	return record.Decode(string(plaintext))
}
