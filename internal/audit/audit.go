package audit

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PolarWolf314/securevault/internal/feed"
	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/PolarWolf314/securevault/internal/utils"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Operation names. Record changes use the feed kind.
const (
	OpAdded    = string(feed.KindAdded)
	OpRemoved  = string(feed.KindRemoved)
	OpModified = string(feed.KindModified)
	OpCleared  = string(feed.KindCleared)
	OpInit     = "init"
	OpExport   = "export"
	OpPasswd   = "passwd"
)

// Entry represents a single journal entry.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	EventID   string `json:"event_id,omitempty"`
	Operation string `json:"op"`
	Actor     string `json:"actor,omitempty"` // OS user running the command.
	Host      string `json:"host,omitempty"`

	// Optional fields depending on operation.
	Category    string `json:"category,omitempty"`
	Service     string `json:"service,omitempty"`
	Username    string `json:"username,omitempty"`
	PrevService string `json:"prev_service,omitempty"`  // For modified.
	PrevUser    string `json:"prev_username,omitempty"` // For modified.
	OutputPath  string `json:"output_path,omitempty"`   // For export.
	Count       int    `json:"count,omitempty"`         // For export.
}

// Time parses the entry timestamp.
func (e Entry) Time() (time.Time, error) {
	t, err := time.Parse(TimestampFormat, e.Timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, e.Timestamp)
	}
	return t, err
}

// Journal appends entries to the JSON Lines file at Path.
type Journal struct {
	Path   string
	Logger logger.Logger
}

// Notify implements feed.Subscriber.
func (j *Journal) Notify(e feed.Event) {
	entry := Entry{
		Timestamp: e.At.UTC().Format(TimestampFormat),
		EventID:   e.ID.String(),
		Operation: string(e.Kind),
		Category:  e.Category,
		Service:   e.Record.Service,
		Username:  e.Record.Username,
	}
	if e.Kind == feed.KindModified {
		entry.PrevService = e.Previous.Service
		entry.PrevUser = e.Previous.Username
	}
	j.Log(entry)
}

// Log appends entry to the journal.
// If logging fails, it reports to the operator log but does not return an
// error. Operations should not fail just because journaling failed.
func (j *Journal) Log(entry Entry) {
	if j == nil || j.Path == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	if entry.Actor == "" {
		entry.Actor, _ = utils.GetUsername()
	}
	if entry.Host == "" {
		entry.Host, _ = utils.GetHostname()
	}

	if err := os.MkdirAll(filepath.Dir(j.Path), 0700); err != nil {
		j.Logger.Detail("creating journal directory", err, zap.String("path", j.Path))
		return
	}

	f, err := os.OpenFile(j.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		j.Logger.Detail("opening journal", err, zap.String("path", j.Path))
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		j.Logger.Detail("writing journal entry", err, zap.String("op", entry.Operation))
	}
}

// ReadEntries reads all entries from the journal at path.
// Returns an empty slice if the journal doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into journal entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
