package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Walker enumerates every regular file under a root path. Symbolic links are
// never followed into directories; they are reported as files at their lstat
// size. Traversal order is the lexical order of filepath.WalkDir, so two
// walks of an unchanged tree visit files in the same order.
type Walker struct {
	minSize  int64
	excludes []string
}

// NewWalker creates a Walker. Files smaller than minSize and paths matching
// any exclude glob are not emitted.
func NewWalker(minSize int64, excludes []string) *Walker {
	return &Walker{
		minSize:  minSize,
		excludes: excludes,
	}
}

// Walk visits every regular file under root, calling emit for each file and
// skip for each entry excluded by an access failure. Per-entry failures are
// never fatal; the only error returned is ctx's on cancellation.
func (w *Walker) Walk(ctx context.Context, root string, emit func(FileInfo), skip func(SkippedFile)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			skip(SkippedFile{Path: path, Reason: SkipAccess, Detail: err.Error(), Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && w.excluded(path) {
				return fs.SkipDir
			}
			return nil
		}

		// Regular files and symlinks only; sockets, pipes and devices have
		// no hashable content
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		if w.excluded(path) {
			return nil
		}

		// DirEntry.Info does not follow symlinks, so a link is sized at the
		// link itself
		info, err := d.Info()
		if err != nil {
			skip(SkippedFile{Path: path, Reason: SkipAccess, Detail: err.Error(), Err: err})
			return nil
		}

		if info.Size() < w.minSize {
			return nil
		}

		emit(FileInfo{Path: path, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
}

// Count estimates how many files Walk will emit, using a parallel traversal
// whose ordering does not matter. Progress displays use it to size their
// totals before the deterministic walk starts.
func (w *Walker) Count(ctx context.Context, root string) (int64, error) {
	var n atomic.Int64

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return nil
		}

		if d.IsDir() {
			if path != root && w.excluded(path) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		if w.excluded(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() < w.minSize {
			return nil
		}

		n.Add(1)
		return nil
	})

	return n.Load(), err
}

// excluded reports whether path matches any configured exclude glob, tested
// against both the full path and the base name
func (w *Walker) excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.excludes {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
