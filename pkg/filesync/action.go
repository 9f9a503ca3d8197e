package filesync

import (
	"fmt"

	"github.com/dhelbig/rexsync/pkg/util"
)

// Action is the decision the resolver makes for one source file before any
// copying happens.
type Action int

const (
	// ActionCreate means the file does not exist in the destination.
	ActionCreate Action = iota
	// ActionUpdate means the destination copy is strictly older than the source.
	ActionUpdate
	// ActionSkip means the destination copy is as new as the source, or newer.
	ActionSkip
)

var actionToString = map[Action]string{
	ActionCreate: "create",
	ActionUpdate: "update",
	ActionSkip:   "skip",
}

var stringToAction map[string]Action

func init() {
	stringToAction = util.InvertMap(actionToString)
}

// String returns the string representation of an Action.
func (a Action) String() string {
	if str, ok := actionToString[a]; ok {
		return str
	}
	return fmt.Sprintf("unknown_action(%d)", a)
}

// ParseAction parses a string and returns the corresponding Action.
func ParseAction(s string) (Action, error) {
	if action, ok := stringToAction[s]; ok {
		return action, nil
	}
	return 0, fmt.Errorf("invalid action: %q. Must be 'create', 'update', or 'skip'", s)
}

// Status classifies the final outcome of one file after the retry loop has
// run to completion.
type Status int

const (
	StatusCreated Status = iota
	StatusUpdated
	StatusSkipped
	StatusFailed
)

var statusToString = map[Status]string{
	StatusCreated: "created",
	StatusUpdated: "updated",
	StatusSkipped: "skipped",
	StatusFailed:  "failed",
}

// String returns the string representation of a Status.
func (s Status) String() string {
	if str, ok := statusToString[s]; ok {
		return str
	}
	return fmt.Sprintf("unknown_status(%d)", s)
}

// completed maps a resolved action onto the status a successful attempt
// produces.
func (a Action) completed() Status {
	switch a {
	case ActionCreate:
		return StatusCreated
	case ActionUpdate:
		return StatusUpdated
	default:
		return StatusSkipped
	}
}

// Outcome is the per-file result produced by the retry executor and consumed
// exactly once by the aggregator. Err is set only for StatusFailed.
type Outcome struct {
	RelPath  string
	Status   Status
	Attempts int
	Err      error
}
