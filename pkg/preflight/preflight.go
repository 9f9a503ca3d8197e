// Package preflight provides checks that run before a synchronization pass
// begins: destination writability and available disk space. The checks are
// advisory except for writability; a run against a read-only destination
// cannot succeed, while a low-space estimate may still be fine when most
// files resolve to skips.
package preflight

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dhelbig/rexsync/pkg/util"
)

// ErrLowSpace marks a free-space estimate below the required size.
var ErrLowSpace = fmt.Errorf("insufficient free space on destination volume")

// CheckTargetWritable ensures the destination directory can be created and
// accepts writes, by creating and removing a probe file.
func CheckTargetWritable(targetPath string) error {
	info, err := os.Stat(targetPath)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("target path exists but is not a directory: %s", targetPath)
	}
	if err := os.MkdirAll(targetPath, 0o755); err != nil {
		return fmt.Errorf("failed to create target directory %s: %w", targetPath, err)
	}

	probe := filepath.Join(targetPath, ".rexsync-writetest.tmp")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("target directory %s is not writable: %w", targetPath, err)
	}
	f.Close()
	_ = os.Remove(probe)
	return nil
}

// EstimateTreeSize walks root and sums the sizes of all regular files. It is
// an upper bound on the bytes a pass can write: skipped files cost nothing.
func EstimateTreeSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to estimate size of %s: %w", root, err)
	}
	return total, nil
}

// CheckFreeSpace compares the free space on the volume holding path against
// required bytes. The path itself does not need to exist yet; the deepest
// existing ancestor is probed instead, which matches the volume MkdirAll
// will write to.
func CheckFreeSpace(path string, required int64) error {
	probe := deepestExistingAncestor(path)

	free, err := freeSpace(probe)
	if err != nil {
		return fmt.Errorf("failed to query free space for %s: %w", probe, err)
	}

	if required > 0 && free < uint64(required) {
		return fmt.Errorf("%w: %s free, up to %s needed",
			ErrLowSpace, util.ByteCountIEC(int64(free)), util.ByteCountIEC(required))
	}
	return nil
}

func deepestExistingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}
