package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhelbig/rexsync/pkg/filesync"
)

func sampleReport() *Report {
	rep := New("rexsync", "1.2.3")
	rep.Source = "/data/src"
	rep.Target = "/data/dst"
	rep.Patterns = `.*\.txt`
	rep.Workers = 4
	rep.MaxRetries = 2
	start := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	rep.Finalize(start, start.Add(1500*time.Millisecond))
	rep.Result = &filesync.Result{
		TotalFiles: 3, Created: 1, Updated: 1, Skipped: 1,
	}
	return rep
}

func TestNewAssignsRunID(t *testing.T) {
	rep := New("rexsync", "")
	_, err := uuid.Parse(rep.RunID)
	require.NoError(t, err)
	assert.NotEqual(t, rep.RunID, New("rexsync", "").RunID)
}

func TestFinalize(t *testing.T) {
	rep := New("rexsync", "")
	start := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	rep.Finalize(start, start.Add(2*time.Second))
	assert.Equal(t, int64(2000), rep.DurationMS)
	assert.Equal(t, start, rep.StartedAt)
}

func TestWriteReadPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	want := sampleReport()

	require.NoError(t, Write(path, want))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteReadCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json.gz")
	want := sampleReport()

	require.NoError(t, Write(path, want))

	// The file on disk must actually be gzip, not plain JSON.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
