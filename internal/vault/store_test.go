package vault

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/securevault/internal/cipher"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/keys"
	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/PolarWolf314/securevault/internal/record"
)

func newTestStore(t *testing.T) (*Store, *bytes.Buffer) {
	t.Helper()

	key, err := keys.Generate()
	require.NoError(t, err)
	strategy, err := cipher.New(cipher.AlgorithmAESGCM, key)
	require.NoError(t, err)

	var warnings bytes.Buffer
	path := filepath.Join(t.TempDir(), "vault.dat")
	return New(path, strategy, WithLogger(logger.Logger{Out: io.Discard, Err: &warnings})), &warnings
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	result, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Skipped)
}

func TestAppendThenOverwrite(t *testing.T) {
	s, _ := newTestStore(t)
	gmail := record.New("Gmail", "alice", "p1")
	slack := record.New("Slack", "bob", "p2")

	require.NoError(t, s.Append(gmail))
	require.NoError(t, s.Append(slack))

	got, err := s.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []record.Record{gmail, slack}, got)

	require.NoError(t, s.OverwriteAll([]record.Record{slack}))

	got, err = s.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []record.Record{slack}, got)
}

func TestLoad_SkipsCorruptedLine(t *testing.T) {
	s, warnings := newTestStore(t)
	want := []record.Record{
		record.New("Gmail", "alice", "p1"),
		record.New("Slack", "bob", "p,2"),
		record.New("GitHub", "carol", `p\3`),
	}
	for _, r := range want {
		require.NoError(t, s.Append(r))
	}

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)

	// Flip one ciphertext bit in a copy of the second line and insert it.
	raw, err := base64.StdEncoding.DecodeString(lines[1])
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	corrupted := base64.StdEncoding.EncodeToString(raw)

	content := strings.Join([]string{lines[0], corrupted, lines[1], "", "not base64 at all!", lines[2]}, "\n") + "\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0600))

	result, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, result.Records)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, 2, result.Skipped[0].Line)
	assert.ErrorIs(t, result.Skipped[0].Err, kerrors.ErrCipher)
	assert.Equal(t, 5, result.Skipped[1].Line)
	assert.Contains(t, warnings.String(), "line 2")
}

func TestLoad_SkipsUndecodableRecord(t *testing.T) {
	s, _ := newTestStore(t)

	token, err := cipher.EncryptToken(s.Strategy(), []byte("only,two"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), []byte(token+"\n"), 0600))

	result, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	require.Len(t, result.Skipped, 1)
	assert.ErrorIs(t, result.Skipped[0].Err, kerrors.ErrCodec)
}

func TestOverwriteAll_Empty(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Append(record.New("Gmail", "alice", "p1")))

	require.NoError(t, s.OverwriteAll(nil))

	got, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, got)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestOverwriteAll_RestrictsPermissions(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OverwriteAll([]record.Record{record.New("a", "b", "c")}))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLinesAreEncrypted(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Append(record.New("Gmail", "alice", "hunter2")))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
	assert.NotContains(t, string(data), "Gmail")
}

func TestIOFailures(t *testing.T) {
	key, err := keys.Generate()
	require.NoError(t, err)
	strategy, err := cipher.New("", key)
	require.NoError(t, err)

	// A directory in place of the log file.
	s := New(t.TempDir(), strategy)

	_, err = s.Load()
	assert.ErrorIs(t, err, kerrors.ErrStore)

	err = s.Append(record.New("a", "b", "c"))
	assert.ErrorIs(t, err, kerrors.ErrStore)
}

func TestLoad_RejectsEveryBitFlip(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Append(record.New("Gmail", "alice", "p12")))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	line := bytes.TrimSuffix(data, []byte("\n"))

	for i := range line {
		for bit := 0; bit < 8; bit++ {
			damaged := bytes.Clone(line)
			damaged[i] ^= 1 << bit
			require.NoError(t, os.WriteFile(s.Path(), append(damaged, '\n'), 0600))

			result, err := s.Load()
			require.NoError(t, err)
			assert.Empty(t, result.Records, "byte %d bit %d was accepted", i, bit)
			assert.NotEmpty(t, result.Skipped, "byte %d bit %d was not reported", i, bit)
		}
	}
}

func TestCreate_UninspectableLog(t *testing.T) {
	key, err := keys.Generate()
	require.NoError(t, err)
	strategy, err := cipher.New("", key)
	require.NoError(t, err)

	// A regular file where the parent directory should be.
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0600))

	s := New(filepath.Join(parent, "vault.dat"), strategy)
	assert.ErrorIs(t, s.Create(), kerrors.ErrStore)

	data, err := os.ReadFile(parent)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestCreate(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Create())
	_, err := os.Stat(s.Path())
	require.NoError(t, err)

	require.NoError(t, s.Append(record.New("a", "b", "c")))
	require.NoError(t, s.Create())

	got, err := s.LoadAll()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
