package filesync

import (
	"fmt"
	"strings"
)

// Result is the aggregate of one synchronization run. It is mutated only by
// the run's aggregator and handed to the caller as a finished snapshot.
//
// Invariant: Created+Updated+Skipped+Failed == TotalFiles once a run has
// completed. TotalRetryAttempts is the sum over all files of attempts-1.
type Result struct {
	DryRun             bool     `json:"dry_run"`
	TotalFiles         int      `json:"total_files"`
	Created            int      `json:"created"`
	Updated            int      `json:"updated"`
	Skipped            int      `json:"skipped"`
	Failed             int      `json:"failed"`
	TotalRetryAttempts int      `json:"total_retry_attempts"`
	Errors             []string `json:"errors,omitempty"`
}

// IsSuccess reports whether the run completed without any failed files.
// This is the single authoritative success signal.
func (r *Result) IsSuccess() bool {
	return r.Failed == 0
}

// String renders the canonical one-line summary of the run.
func (r *Result) String() string {
	var sb strings.Builder
	if r.DryRun {
		sb.WriteString("[DRY RUN] ")
	}
	fmt.Fprintf(&sb, "Sync completed: %d total, %d created, %d updated, %d skipped, %d failed",
		r.TotalFiles, r.Created, r.Updated, r.Skipped, r.Failed)
	if r.TotalRetryAttempts > 0 {
		fmt.Fprintf(&sb, ", %d retries", r.TotalRetryAttempts)
	}
	return sb.String()
}
