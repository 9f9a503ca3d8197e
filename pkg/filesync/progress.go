package filesync

import "fmt"

// Progress is an immutable snapshot emitted at run start, after every
// completed file, and at run end. Events from different files may arrive in
// any order; the run-end event is always last.
type Progress struct {
	Processed int
	Total     int
	Operation string
}

// ProgressFunc receives progress events. It is invoked synchronously on the
// completing worker's goroutine, serialized by the aggregator's lock, so
// implementations should return quickly.
type ProgressFunc func(Progress)

// Percent returns the completion percentage, 0 when Total is 0.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total) * 100
}

// String renders the canonical progress line.
func (p Progress) String() string {
	return fmt.Sprintf("%d/%d (%.1f%%) - %s", p.Processed, p.Total, p.Percent(), p.Operation)
}
