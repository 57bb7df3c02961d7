package cpfs

import (
	"context"
	"errors"
	"io/fs"
	"syscall"
)

// copySymlink implements spec.md §4.7.
func copySymlink(ctx context.Context, src, dest FSPath, srcStat Stat, destStat *Stat, opts Options, topLevel bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if topLevel && destStat == nil {
		if err := mkdirAll(FSPath{FS: dest.FS, Path: parentPath(dest.Path)}); err != nil {
			return err
		}
	}

	target, err := src.readLink()
	if err != nil {
		return err
	}
	resolvedSrc := target
	if !isAbsolutePath(target) {
		resolvedSrc = cleanPath(joinPath(parentPath(src.Path), target))
	}

	if destStat == nil {
		if err := dest.symlinkFrom(target); err != nil {
			return err
		}
		opts.onProgress(1)
		return nil
	}

	resolvedDest, err := dest.readLink()
	if err != nil {
		if isInvalidLinkError(err) {
			// dest exists but is not a link; attempt the symlink
			// anyway. The ambient symlink call will raise EEXIST,
			// which surfaces as-is.
			return dest.symlinkFrom(target)
		}
		return err
	}

	if opts.Dereference {
		if !isAbsolutePath(resolvedDest) {
			resolvedDest = cleanPath(joinPath(parentPath(dest.Path), resolvedDest))
		}
	}

	if isSrcSubdirectory(resolvedSrc, resolvedDest) {
		return errDestSubdirectory(dest.Path)
	}

	freshSrcInfo, err := statPath(src, true)
	if err == nil && toStat(freshSrcInfo).IsDir() && isSrcSubdirectory(resolvedDest, resolvedSrc) {
		return errSymlinkToSubdirectory(dest.Path)
	}

	if err := dest.remove(); err != nil {
		return err
	}
	if err := dest.symlinkFrom(target); err != nil {
		return err
	}
	opts.onProgress(1)
	return nil
}

func isAbsolutePath(p string) bool {
	return len(p) > 0 && p[0] == '/'
}

// isInvalidLinkError reports whether err is the "destination exists but is
// not a symbolic link" outcome of readlink, recognized by EINVAL only; a
// generic failure that some platforms report for this case instead is not
// recognized and propagates as an ordinary error.
func isInvalidLinkError(err error) bool {
	if errors.Is(err, syscall.EINVAL) {
		return true
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr.Err, syscall.EINVAL)
	}
	return false
}
