package filesync

import (
	"fmt"
	"sync"
)

// Per-file labels for progress events. Dry-run labels describe the action
// the run would have performed; a failure is a failure either way.
var statusToLabel = map[Status]string{
	StatusCreated: "Created",
	StatusUpdated: "Updated",
	StatusSkipped: "Skipped",
	StatusFailed:  "Failed",
}

var statusToDryRunLabel = map[Status]string{
	StatusCreated: "Would Create",
	StatusUpdated: "Would Update",
	StatusSkipped: "Would Skip",
	StatusFailed:  "Failed",
}

const dryRunPrefix = "[DRY RUN] "

// aggregator is the only shared mutable state of a run. Workers hand it one
// Outcome per file; it folds them into the Result, tracks the processed
// count, and emits progress events. A single mutex serializes everything,
// including the synchronous progress callback.
type aggregator struct {
	mu         sync.Mutex
	result     Result
	processed  int
	onProgress ProgressFunc
}

func newAggregator(total int, dryRun bool, onProgress ProgressFunc) *aggregator {
	return &aggregator{
		result:     Result{DryRun: dryRun, TotalFiles: total},
		onProgress: onProgress,
	}
}

// Start emits the run-start event with a processed count of zero.
func (a *aggregator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.emitLocked(a.runLabel("Starting synchronization"))
}

// Record folds one file's outcome into the result and emits its progress
// event. It is called exactly once per matched file, from whichever worker
// goroutine completed that file.
func (a *aggregator) Record(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch o.Status {
	case StatusCreated:
		a.result.Created++
	case StatusUpdated:
		a.result.Updated++
	case StatusSkipped:
		a.result.Skipped++
	case StatusFailed:
		a.result.Failed++
	}

	if o.Attempts > 1 {
		a.result.TotalRetryAttempts += o.Attempts - 1
	}
	if o.Status == StatusFailed && o.Err != nil {
		a.result.Errors = append(a.result.Errors, fmt.Sprintf("%s: %v", o.RelPath, o.Err))
	}

	a.processed++
	a.emitLocked(a.fileLabel(o))
}

// Finish emits the run-end event with processed == total.
func (a *aggregator) Finish() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.processed = a.result.TotalFiles
	a.emitLocked(a.runLabel("Synchronization complete"))
}

// Snapshot returns a copy of the accumulated result.
func (a *aggregator) Snapshot() *Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := a.result
	res.Errors = append([]string(nil), a.result.Errors...)
	return &res
}

func (a *aggregator) emitLocked(operation string) {
	if a.onProgress == nil {
		return
	}
	a.onProgress(Progress{
		Processed: a.processed,
		Total:     a.result.TotalFiles,
		Operation: operation,
	})
}

func (a *aggregator) runLabel(label string) string {
	if a.result.DryRun {
		return dryRunPrefix + label
	}
	return label
}

func (a *aggregator) fileLabel(o Outcome) string {
	if a.result.DryRun {
		return fmt.Sprintf("%s%s: %s", dryRunPrefix, statusToDryRunLabel[o.Status], o.RelPath)
	}
	return fmt.Sprintf("%s: %s", statusToLabel[o.Status], o.RelPath)
}
