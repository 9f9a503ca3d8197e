// Package filesync implements the one-directional, pattern-filtered
// directory synchronization engine.
//
// One call to Synchronizer.Sync performs one pass: the source tree is
// scanned for files whose base names match the configured regular
// expressions, then a bounded pool of workers copies every file that is
// missing from the destination or strictly newer in the source, preserving
// relative paths. Per-file failures are retried with exponential backoff
// and tallied; they never abort the run. Validation errors, setup errors,
// and cancellation do abort the run and are returned to the caller without
// a partial result.
package filesync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dhelbig/rexsync/pkg/pattern"
	"github.com/dhelbig/rexsync/pkg/plog"
	"github.com/dhelbig/rexsync/pkg/scan"
	"github.com/dhelbig/rexsync/pkg/util"
)

var (
	// ErrInvalidInput marks validation failures: blank paths or patterns,
	// malformed regular expressions, a source path that is not a directory.
	ErrInvalidInput = errors.New("invalid synchronization input")

	// ErrSourceNotFound is returned when the source root does not exist.
	ErrSourceNotFound = errors.New("source directory does not exist")
)

// defaultCopyBufferSize is the per-copy streaming buffer size.
const defaultCopyBufferSize = 256 * 1024

// Synchronizer runs synchronization passes with a fixed concurrency bound.
// It is safe for concurrent use; each Sync call owns its own run state.
type Synchronizer struct {
	maxConcurrency int
	retryWait      time.Duration
	copier         copier
}

// New creates a Synchronizer that keeps at most maxConcurrency files in
// flight per run. Values <= 0 are normalized to the number of CPUs.
func New(maxConcurrency int) *Synchronizer {
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.NumCPU()
	}
	return &Synchronizer{
		maxConcurrency: maxConcurrency,
		retryWait:      defaultRetryWait,
		copier:         newBufferedCopier(defaultCopyBufferSize),
	}
}

// MaxConcurrency returns the normalized concurrency bound.
func (s *Synchronizer) MaxConcurrency() int {
	return s.maxConcurrency
}

type options struct {
	maxRetries int
	dryRun     bool
	onProgress ProgressFunc
}

// Option configures a single Sync call.
type Option func(*options)

// WithMaxRetries sets how many times a failed file is re-attempted after
// its first attempt. Negative values are treated as zero (one attempt,
// no backoff).
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRetries = n
		}
	}
}

// WithDryRun computes and reports per-file outcomes without mutating the
// destination tree beyond ensuring the destination root itself exists.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithProgress installs a callback receiving a progress event at run start,
// after every completed file, and at run end.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.onProgress = fn }
}

// Sync performs one synchronization pass from source to target using the
// semicolon-separated regular expressions in patterns.
//
// The call blocks until the pass completes; run it on its own goroutine if
// the caller must not block. On validation or setup failure, and on
// cancellation, it returns a nil Result and the error. Per-file copy
// failures are absorbed into the returned Result instead.
func (s *Synchronizer) Sync(ctx context.Context, source, target, patterns string, opts ...Option) (*Result, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// Validation happens before any filesystem access.
	if util.IsBlank(source) {
		return nil, fmt.Errorf("%w: source path must not be empty", ErrInvalidInput)
	}
	if util.IsBlank(target) {
		return nil, fmt.Errorf("%w: target path must not be empty", ErrInvalidInput)
	}
	if util.IsBlank(patterns) {
		return nil, fmt.Errorf("%w: pattern string must not be empty", ErrInvalidInput)
	}
	set, err := pattern.Compile(patterns)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// The source is checked before the destination root is created, so a
	// missing source never leaves an empty destination directory behind.
	srcInfo, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return nil, fmt.Errorf("failed to stat source directory %s: %w", source, err)
	}
	if !srcInfo.IsDir() {
		return nil, fmt.Errorf("%w: source %s is not a directory", ErrInvalidInput, source)
	}

	// The destination root is created even in dry-run mode, which doubles
	// as a writability check. Subdirectories below it are never created
	// during dry-run (see attemptOnce).
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory %s: %w", target, err)
	}

	files, err := scan.Scan(ctx, source, set)
	if err != nil {
		return nil, fmt.Errorf("scanning source tree: %w", err)
	}

	plog.Info("SCAN", "source", source, "matched", len(files),
		"patterns", strings.Join(set.Strings(), ";"), "dryRun", o.dryRun)

	r := &run{
		source:     source,
		target:     target,
		dryRun:     o.dryRun,
		maxRetries: o.maxRetries,
		retryWait:  s.retryWait,
		copier:     s.copier,
		agg:        newAggregator(len(files), o.dryRun, o.onProgress),
	}

	r.agg.Start()

	// Admission-bounded fan-out: the weighted semaphore caps in-flight
	// files, the wait group covers every dispatched unit. Release is
	// deferred so a panic or cancellation can never leak a slot.
	sem := semaphore.NewWeighted(int64(s.maxConcurrency))
	var wg sync.WaitGroup
	for _, f := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Cancelled at admission; stop dispatching and let the
			// in-flight workers wind down.
			break
		}
		wg.Add(1)
		go func(f scan.File) {
			defer wg.Done()
			defer sem.Release(1)

			outcome, err := r.processFile(ctx, f)
			if err != nil {
				// Cancelled mid-flight; surfaced below via ctx.Err().
				return
			}
			r.agg.Record(outcome)
		}(f)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("synchronization cancelled: %w", err)
	}

	r.agg.Finish()
	res := r.agg.Snapshot()
	plog.Info("DONE", "summary", res.String())
	return res, nil
}
