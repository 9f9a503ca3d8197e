package filesync

import (
	"fmt"
	"io"
	"os"

	"github.com/dhelbig/rexsync/pkg/pool"
	"github.com/dhelbig/rexsync/pkg/scan"
)

// copier performs the physical byte transfer for one file. It is an
// interface so tests can inject transient failures into the retry loop.
type copier interface {
	Copy(src scan.File, dstPath string) error
}

// bufferedCopier streams file content through a pooled fixed-size buffer,
// so memory use stays flat regardless of file size. The destination is
// opened with O_TRUNC: an existing file is overwritten in place, never
// appended to.
type bufferedCopier struct {
	bufPool *pool.FixedBufferPool
}

func newBufferedCopier(bufSize int64) *bufferedCopier {
	return &bufferedCopier{bufPool: pool.NewFixedBuffer(bufSize)}
}

func (c *bufferedCopier) Copy(src scan.File, dstPath string) error {
	in, err := os.Open(src.AbsPath)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src.AbsPath, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open destination file %s: %w", dstPath, err)
	}
	defer out.Close() // Ensure closed on error paths.

	bufPtr := c.bufPool.Get()
	defer c.bufPool.Put(bufPtr)
	// Always reset len to cap strictly for io.CopyBuffer purposes.
	buf := (*bufPtr)[:cap(*bufPtr)]

	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		return fmt.Errorf("failed to copy content from %s to %s: %w", src.AbsPath, dstPath, err)
	}

	// Close before Chtimes: flushing on close can itself update the
	// modification time.
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file %s: %w", dstPath, err)
	}

	// Stamp the copy with the source modification time so an unchanged
	// source resolves to Skip on the next run.
	if err := os.Chtimes(dstPath, src.ModTime, src.ModTime); err != nil {
		return fmt.Errorf("failed to set timestamps on %s: %w", dstPath, err)
	}
	return nil
}
