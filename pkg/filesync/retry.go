package filesync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dhelbig/rexsync/pkg/plog"
	"github.com/dhelbig/rexsync/pkg/scan"
)

// defaultRetryWait is the backoff before the second attempt; each further
// attempt doubles it (100ms, 200ms, 400ms, ...).
const defaultRetryWait = 100 * time.Millisecond

// run holds the per-invocation state of one synchronization pass. Workers
// share the directory cache and the aggregator; everything else they touch
// is exclusively their own.
type run struct {
	source     string
	target     string
	dryRun     bool
	maxRetries int
	retryWait  time.Duration
	copier     copier
	agg        *aggregator

	// dirCache tracks destination directories already created during this
	// run, keyed by relative directory path, so the pool of workers does
	// not issue redundant MkdirAll calls.
	dirCache sync.Map

	// dirGroup deduplicates concurrent creation of the same parent
	// directory: when many workers hit files in one new folder, only the
	// first performs the I/O and the rest wait for its result.
	dirGroup singleflight.Group
}

// processFile drives the retry state machine for a single file: attempt,
// back off on error, re-attempt, until success or the retry budget is
// exhausted. Any error during an attempt is considered transient and
// retryable; no error classification is done.
//
// The returned error is non-nil only for cancellation, which aborts the
// file without producing an outcome. maxRetries=0 means exactly one
// attempt and no backoff.
func (r *run) processFile(ctx context.Context, f scan.File) (Outcome, error) {
	for attempt := 1; ; attempt++ {
		action, err := r.attemptOnce(f)
		if err == nil {
			return Outcome{RelPath: f.RelPath, Status: action.completed(), Attempts: attempt}, nil
		}

		if attempt > r.maxRetries {
			plog.Warn("File failed permanently", "path", f.RelPath, "attempts", attempt, "error", err)
			return Outcome{RelPath: f.RelPath, Status: StatusFailed, Attempts: attempt, Err: err}, nil
		}

		wait := r.retryWait << (attempt - 1)
		plog.Warn("Retrying file", "path", f.RelPath,
			"attempt", fmt.Sprintf("%d/%d", attempt, r.maxRetries+1), "after", wait, "error", err)

		// The backoff sleep honors cancellation: a cancelled run aborts
		// the file immediately instead of counting a failed attempt.
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// attemptOnce performs one pass of the per-file pipeline: parent directory,
// resolution, copy. In dry-run mode no directory is created and no bytes
// are copied, but the resolved action is still reported.
func (r *run) attemptOnce(f scan.File) (Action, error) {
	dstPath := filepath.Join(r.target, f.RelPath)

	if !r.dryRun {
		if err := r.ensureParentDir(f.RelPath, dstPath); err != nil {
			return 0, err
		}
	}

	action, err := resolveAction(f, dstPath)
	if err != nil {
		return 0, err
	}
	if action == ActionSkip || r.dryRun {
		return action, nil
	}

	if err := r.copier.Copy(f, dstPath); err != nil {
		return 0, err
	}

	plog.Debug("COPY", "action", action.String(), "path", f.RelPath)
	return action, nil
}

// ensureParentDir guarantees the destination parent directory of relPath
// exists, creating it at most once per run across all workers.
func (r *run) ensureParentDir(relPath, dstPath string) error {
	relDir := filepath.Dir(relPath)
	if _, ok := r.dirCache.Load(relDir); ok {
		return nil
	}

	_, err, _ := r.dirGroup.Do(relDir, func() (any, error) {
		// Double-check now that we are the chosen worker for this path.
		if _, ok := r.dirCache.Load(relDir); ok {
			return nil, nil
		}

		absDir := filepath.Dir(dstPath)
		if err := os.MkdirAll(absDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create destination directory %s: %w", absDir, err)
		}
		r.dirCache.Store(relDir, struct{}{})
		return nil, nil
	})
	return err
}
