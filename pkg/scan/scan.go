// Package scan enumerates the source tree and selects the files to
// synchronize.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dhelbig/rexsync/pkg/pattern"
	"github.com/dhelbig/rexsync/pkg/plog"
)

// File describes one matched source file. RelPath is the path relative to
// the scanned root and is reused verbatim under the destination root, which
// is what preserves the directory layout. ModTime and Size are captured
// during the walk so workers do not have to re-stat the source.
type File struct {
	AbsPath string
	RelPath string
	ModTime time.Time
	Size    int64
}

// Scan walks the tree beneath root and returns every regular file whose
// base name matches the pattern set. Directories are never yielded, and
// only the base name is matched — directory components do not participate.
//
// Cancellation is checked between entries; a cancelled walk returns
// ctx.Err() rather than a partial list. Any other walk error aborts the
// scan as a whole. The order of the returned slice is the filesystem
// enumeration order and must not be relied upon.
func Scan(ctx context.Context, root string, set *pattern.Set) ([]File, error) {
	var matched []File

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("accessing %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			// Symlinks, named pipes, sockets and the like are not copied.
			plog.Debug("SKIP", "type", d.Type().String(), "path", path)
			return nil
		}
		if !set.Matches(d.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("file info for %s: %w", path, err)
		}

		matched = append(matched, File{
			AbsPath: path,
			RelPath: relPath,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}
