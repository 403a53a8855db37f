package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PolarWolf314/securevault/internal/feed"
	"github.com/PolarWolf314/securevault/internal/record"
)

func TestLog_CreatesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "audit.jsonl")
	j := &Journal{Path: logPath}

	j.Log(Entry{Operation: OpInit})

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Journal file was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	j := &Journal{Path: logPath}

	j.Log(Entry{Operation: OpInit})
	j.Log(Entry{Operation: OpExport, OutputPath: "out.csv", Count: 2})
	j.Log(Entry{Operation: OpPasswd})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestLog_EmptyPathIsNoop(t *testing.T) {
	var j *Journal
	j.Log(Entry{Operation: OpInit})

	(&Journal{}).Log(Entry{Operation: OpInit})
}

func TestLog_TimestampFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	(&Journal{Path: logPath}).Log(Entry{Operation: OpInit})

	entries, err := ReadEntries(logPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	if _, err := time.Parse(TimestampFormat, entries[0].Timestamp); err != nil {
		t.Errorf("Timestamp %q does not match format: %v", entries[0].Timestamp, err)
	}
}

func TestNotify_NeverWritesSecret(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	j := &Journal{Path: logPath}

	var f feed.Feed
	f.Subscribe(j)

	old := record.New("Gmail", "alice", "first-secret")
	updated := record.New("Gmail", "alice2", "second-secret")

	f.Publish(feed.NewEvent(feed.KindAdded, "Personal", old))
	e := feed.NewEvent(feed.KindModified, "Personal", updated)
	e.Previous = old
	f.Publish(e)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("Journal contains secret material: %s", data)
	}

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	added := entries[0]
	if added.Operation != OpAdded || added.Category != "Personal" || added.Service != "Gmail" || added.Username != "alice" {
		t.Errorf("Unexpected added entry: %+v", added)
	}

	modified := entries[1]
	if modified.Operation != OpModified {
		t.Errorf("Expected op %s, got %s", OpModified, modified.Operation)
	}
	if modified.Username != "alice2" || modified.PrevUser != "alice" {
		t.Errorf("Unexpected modified entry: %+v", modified)
	}
	if modified.EventID != e.ID.String() {
		t.Errorf("Expected event id %s, got %s", e.ID, modified.EventID)
	}
}

func TestLog_RecordsActorAndHost(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	j := &Journal{Path: logPath}

	j.Log(Entry{Operation: OpInit})
	j.Log(Entry{Operation: OpPasswd, Actor: "ops", Host: "bastion"})

	entries, err := ReadEntries(logPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if host, err := os.Hostname(); err == nil && entries[0].Host != host {
		t.Errorf("Expected host %q, got %q", host, entries[0].Host)
	}
	if entries[1].Actor != "ops" || entries[1].Host != "bastion" {
		t.Errorf("Expected explicit actor and host to be kept, got %+v", entries[1])
	}
}

func TestEntry_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Entry{Timestamp: "x", Operation: OpAdded, Service: "s"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	got := string(data)
	for _, want := range []string{`"ts":"x"`, `"op":"added"`, `"service":"s"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %s in %s", want, got)
		}
	}
	if strings.Contains(got, "output_path") {
		t.Errorf("Expected empty optional fields to be omitted: %s", got)
	}
}

func TestReadEntries_NoFile(t *testing.T) {
	entries, err := ReadEntries(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries, got %v", entries)
	}
}

func TestParseEntries_SkipsMalformed(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.000000Z","op":"added"}
not valid json
{"ts":"2024-01-15T10:31:00.000000Z","op":"removed"}

{"ts":"2024-01-15T10:32:00.000000Z"`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries (malformed should be skipped), got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries([]byte{})
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if entries != nil {
		t.Errorf("Expected nil entries for empty data, got %v", entries)
	}
}
