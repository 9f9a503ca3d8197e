// Package report persists the outcome of a synchronization pass as a JSON
// document, optionally gzip-compressed, so runs can be audited after the
// fact or fed into other tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/pgzip"

	"github.com/dhelbig/rexsync/pkg/filesync"
)

// Report captures one synchronization run: the configuration it ran with,
// its timing, and the aggregated result.
type Report struct {
	RunID      string    `json:"run_id"`
	Tool       string    `json:"tool"`
	Version    string    `json:"version,omitempty"`
	Source     string    `json:"source"`
	Target     string    `json:"target"`
	Patterns   string    `json:"patterns"`
	Workers    int       `json:"workers"`
	MaxRetries int       `json:"max_retries"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`

	Result *filesync.Result `json:"result"`
}

// New builds a report for a finished run. The run ID is a fresh random UUID.
func New(tool, version string) *Report {
	return &Report{
		RunID:   uuid.NewString(),
		Tool:    tool,
		Version: version,
	}
}

// Finalize stamps the timing fields from the given start and end instants.
func (r *Report) Finalize(start, end time.Time) {
	r.StartedAt = start.UTC()
	r.FinishedAt = end.UTC()
	r.DurationMS = end.Sub(start).Milliseconds()
}

// Write stores the report at path as indented JSON. A path ending in .gz is
// compressed with parallel gzip. Parent directories are created as needed.
func Write(path string, rep *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *pgzip.Writer
	if isGzipPath(path) {
		gz = pgzip.NewWriter(f)
		w = gz
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish report compression: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file %s: %w", path, err)
	}
	return nil
}

// Read loads a report written by Write, transparently handling compressed
// files by path suffix.
func Read(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report file %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if isGzipPath(path) {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed report %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &rep, nil
}

func isGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
