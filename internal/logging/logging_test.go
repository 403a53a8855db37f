package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_VerbosityGates(t *testing.T) {
	var out, errOut bytes.Buffer
	l := Logger{Out: &out, Err: &errOut}

	l.Infof("hidden info %d", 1)
	l.Debugf("hidden debug")
	l.Warnf("shown warning")

	if out.Len() != 0 {
		t.Errorf("expected no stdout output without flags, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[warn] shown warning") {
		t.Errorf("expected warning on stderr, got %q", errOut.String())
	}

	out.Reset()
	l.Verbose = true
	l.Infof("visible info %d", 2)
	l.Debugf("still hidden")
	if !strings.Contains(out.String(), "[info] visible info 2") {
		t.Errorf("expected info line, got %q", out.String())
	}
	if strings.Contains(out.String(), "still hidden") {
		t.Errorf("debug line shown without --debug: %q", out.String())
	}
}

func TestLogger_ShieldRecordsDetailForOperatorOnly(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	var out, errOut bytes.Buffer
	l := Logger{Out: &out, Err: &errOut, Operator: zap.New(core)}

	cause := errors.New("open /secret/path/vault.dat: permission denied")
	msg := l.Shield(kerrors.StoreFault("append", cause))

	if msg != "The vault file could not be accessed." {
		t.Errorf("unexpected user message: %q", msg)
	}
	if strings.Contains(out.String()+errOut.String(), "/secret/path") {
		t.Errorf("technical detail leaked to console")
	}

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 operator entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if !strings.Contains(ctx["error"].(string), "/secret/path") {
		t.Errorf("operator entry missing cause: %v", ctx)
	}
	if ctx["fault"] != "StoreFault" {
		t.Errorf("operator entry missing fault kind: %v", ctx)
	}
}

func TestLogger_ShieldNil(t *testing.T) {
	if msg := (Logger{}).Shield(nil); msg != "" {
		t.Errorf("expected empty message, got %q", msg)
	}
}

func TestNewOperator_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "securevault.log")

	op, err := NewOperator(path, false)
	if err != nil {
		t.Fatalf("NewOperator failed: %v", err)
	}
	l := Logger{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}, Operator: op}
	l.Warnf("line %d skipped", 3)
	_ = op.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read operator log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"line 3 skipped"`) {
		t.Errorf("operator log missing entry: %s", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
	}
}

func TestNewOperator_EmptyPathDiscards(t *testing.T) {
	op, err := NewOperator("", true)
	if err != nil {
		t.Fatalf("NewOperator failed: %v", err)
	}
	if op == nil {
		t.Fatal("expected a no-op logger")
	}
}
