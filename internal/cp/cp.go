// Package cp drives concurrent, multi-root copies over the abstract
// [wfs.FS] interface, reporting progress and errors through the
// [Progress] interface. The actual per-root copy — pre-flight validation,
// type dispatch, and the file/directory/symlink copiers — is delegated to
// [cpfs], which owns the safety analysis and metadata fidelity spec.md
// requires; this package owns everything layered on top: computing the
// total byte count up front for a progress bar, fanning independent
// top-level sources out across goroutines, and translating [cpfs]'s
// instrumentation hooks into the [Progress] interface's callbacks.
package cp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/bcoe/ccp/internal/cpfs"
)

// Progress is used to asynchronously report status updates and errors to the
// main program.
type Progress interface {
	// Max sets the total number of bytes to be copied. It's expected that
	// this will only be called once in the program lifetime.
	Max(int64)
	// Progress reports that n additional bytes have been copied.
	Progress(n int64)
	// FileStart reports that src is currently being copied to dst. Only
	// called for regular files, not directories or symlinks.
	FileStart(src, dst string)
	// FileDone is called when a regular file has finished copying
	// successfully, or when there was an error copying a file.
	FileDone(src string, err error)
}

// An FSPath is an abstraction over a file path that can point to multiple
// different backing filesystems. It is [cpfs.FSPath] under the hood, so a
// path built here passes directly into the copy engine with no conversion.
type FSPath = cpfs.FSPath

func walkDir(p FSPath, fn fs.WalkDirFunc) error {
	return fs.WalkDir(p.FS, p.Path, fn)
}

func statPath(p FSPath) (fs.FileInfo, error) {
	return fs.Stat(p.FS, p.Path)
}

func size(srcs []FSPath) int64 {
	var n int64 = 0
	for _, src := range srcs {
		walkDir(src, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			switch d.Type() {
			case 0: // regular file
				stat, err := d.Info()
				if err != nil {
					return nil
				}
				// The "+ 1" is a fudge factor to make sure that
				// the total number of bytes won't be zero.
				n += stat.Size() + 1
			case fs.ModeSymlink, fs.ModeDir:
				n++
			}
			return nil
		})
	}
	return n
}

// Copy copies srcs into dstRoot, reporting progress using the [Progress]
// interface. opts carries the copy policy (Force, Dereference,
// PreserveTimestamps, ErrorOnExist, Filter) straight through to
// [cpfs.Copy]; Copy overwrites opts.FileStart/FileDone/Progress with hooks
// that forward into the Progress interface.
//
// Each top-level source is copied by an independent [cpfs.Copy] call,
// fanned out across goroutines bounded by maxConcurrency. Within a single
// source's tree, spec.md's core engine enforces strictly sequential
// mutation (directory children in readdir order, no two mutations
// concurrent) — the concurrency here is across independent roots, not
// within one, which keeps the engine's ordering guarantees intact while
// still letting `ccp a b c dest/` make progress on all three at once.
func Copy(progress Progress, srcs []FSPath, dstRoot FSPath, opts cpfs.Options) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		progress.Max(size(srcs))
	}()
	defer func() { <-done }()

	dstIsDir := true
	if len(srcs) == 1 {
		stat, err := statPath(dstRoot)
		dstIsDir = err == nil && stat.IsDir()
	}

	const maxConcurrency = 10
	sem := make(chan struct{}, maxConcurrency)

	opts.FileStart = progress.FileStart
	opts.FileDone = progress.FileDone
	opts.Progress = progress.Progress

	dstRoot.Path = cpfs.CleanPath(dstRoot.Path)
	for _, srcRoot := range srcs {
		dst := dstRoot
		if dstIsDir {
			// If the destination is a directory, copy into the
			// existing directory.
			dst.Path = cpfs.JoinPath(dst.Path, cpfs.BasePath(srcRoot.Path))
		}
		srcRoot.Path = cpfs.CleanPath(srcRoot.Path)

		sem <- struct{}{}
		go func(src, dst FSPath) {
			defer func() { <-sem }()

			// The file copier already reports byte-copy/timestamp/chmod
			// failures through opts.FileDone as it returns them, so the
			// same error would otherwise reach progress.FileDone twice:
			// once from there, once from the fallback below. Track
			// whether the hook already fired for this root so the
			// fallback only covers errors it never saw (failed
			// preflight checks, directory mkdir/chmod, a cancelled
			// context) — those never go through onFileDone at all.
			var reported bool
			rootOpts := opts
			rootOpts.FileDone = func(name string, err error) {
				if err != nil {
					reported = true
				}
				progress.FileDone(name, err)
			}

			err := cpfs.Copy(context.Background(), src, dst, rootOpts)
			if err == nil || reported {
				return
			}
			var cpErr *cpfs.Error
			if errors.As(err, &cpErr) {
				progress.FileDone(src.String(), err)
				return
			}
			progress.FileDone(src.String(), fmt.Errorf("%s: %w", src, err))
		}(srcRoot, dst)
	}
	for range maxConcurrency {
		sem <- struct{}{}
	}
}
