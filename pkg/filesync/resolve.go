package filesync

import (
	"fmt"
	"os"

	"github.com/dhelbig/rexsync/pkg/scan"
)

// resolveAction decides what to do with one source file by probing the
// destination counterpart. It is a read-only check: existence plus
// modification time, no content inspection and no mutation.
//
// The comparison is strictly greater-than: equal timestamps resolve to
// Skip, never Update. A second pass over an unchanged tree therefore
// touches nothing, since the copier stamps each copy with the source
// modification time.
func resolveAction(src scan.File, dstPath string) (Action, error) {
	info, err := os.Lstat(dstPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ActionCreate, nil
		}
		return 0, fmt.Errorf("failed to stat destination file %s: %w", dstPath, err)
	}

	if src.ModTime.After(info.ModTime()) {
		return ActionUpdate, nil
	}
	return ActionSkip, nil
}
