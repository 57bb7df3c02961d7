package cpfs

import (
	"context"
	"errors"
	"io/fs"
)

// copyDirectory implements spec.md §4.6: create dest if absent, iterate
// children in readdir order, recurse through the pre-flight validator and
// type dispatcher for each child, and restore dest's mode only after every
// child has completed.
func copyDirectory(ctx context.Context, src, dest FSPath, srcStat Stat, destStat *Stat, opts Options, topLevel bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if destStat == nil {
		if topLevel {
			if err := mkdirAll(FSPath{FS: dest.FS, Path: parentPath(dest.Path)}); err != nil {
				return err
			}
		}
		if err := dest.mkdir(); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}
	}
	opts.onProgress(1)

	entries, err := src.readDir()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		childSrc := src.child(name)
		childDest := dest.child(name)

		if opts.Filter != nil && !opts.Filter(childSrc.Path, childDest.Path) {
			continue
		}

		childSrcStat, childDestStat, err := preflight(childSrc, childDest, opts)
		if err != nil {
			return err
		}
		if err := dispatch(ctx, childSrc, childDest, childSrcStat, childDestStat, opts, false); err != nil {
			return err
		}
	}

	return dest.chmod(srcStat.Mode)
}
