package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/PolarWolf314/securevault/internal/record"
)

func TestRenderRecords(t *testing.T) {
	records := []record.Record{
		record.New("Gmail", "alice", "hunter2"),
		record.New("Slack", "bob", "p2"),
	}

	var buf bytes.Buffer
	if err := RenderRecords(&buf, records, false); err != nil {
		t.Fatalf("RenderRecords failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("Masked output leaked secret: %s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "1") || !strings.Contains(lines[1], "Gmail") {
		t.Errorf("Unexpected first row: %q", lines[1])
	}

	buf.Reset()
	if err := RenderRecords(&buf, records, true); err != nil {
		t.Fatalf("RenderRecords failed: %v", err)
	}
	if !strings.Contains(buf.String(), "hunter2") {
		t.Errorf("Revealed output should contain secret: %s", buf.String())
	}
}

func TestBanner(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	got := Banner("Vault")
	if strings.TrimSpace(got) == "" {
		t.Fatal("Expected non-empty banner")
	}
	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Errorf("Expected exactly one trailing newline, got %q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("Expected no ANSI codes with NO_COLOR, got %q", got)
	}
}
