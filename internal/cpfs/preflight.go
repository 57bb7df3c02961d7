package cpfs

import (
	"errors"
	"io/fs"
)

// checkPaths rejects illegal (src, dest) pairs before any mutation, in the
// priority order spec.md §4.3 specifies: multiple conditions can apply at
// once (e.g. identical paths that also form a subdirectory relation), and
// the order determines which error is reported.
func checkPaths(src, dest FSPath, srcStat Stat, destStat *Stat) error {
	if destStat != nil && identical(srcStat, *destStat) {
		return errDestSubdirectory(dest.Path)
	}
	if srcStat.IsDir() && destStat != nil && !destStat.IsDir() {
		return errDirToNonDir(dest.Path)
	}
	if !srcStat.IsDir() && destStat != nil && destStat.IsDir() {
		return errNonDirToDir(dest.Path)
	}
	if srcStat.IsDir() && isSrcSubdirectory(cleanPath(src.Path), cleanPath(dest.Path)) {
		return errDestSubdirectory(dest.Path)
	}
	return nil
}

// checkParentPaths walks dest's ancestors toward the root, raising
// errDestSubdirectory if any ancestor shares an inode with src. This
// catches the case where dest lies under a symbolic-link-induced alias of
// src: each ancestor is statted *following* symlinks, since an aliasing
// ancestor is typically itself a symlink (e.g. dest's parent is a link to
// src) and an lstat would see the link's own inode rather than src's. The
// walk terminates when the ancestor reaches parent(src), when it reaches
// its own path's root, or when statting it fails with "no such entry"; any
// other stat error propagates.
func checkParentPaths(src FSPath, srcStat Stat, dest FSPath) error {
	srcParent := cleanPath(parentPath(src.Path))
	ancestor := cleanPath(parentPath(dest.Path))
	for {
		if ancestor == srcParent {
			return nil
		}
		info, err := statPath(FSPath{FS: dest.FS, Path: ancestor}, true)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		ancestorStat := toStat(info)
		if identical(srcStat, ancestorStat) {
			return errDestSubdirectory(dest.Path)
		}
		next := cleanPath(parentPath(ancestor))
		if next == ancestor {
			return nil
		}
		ancestor = next
	}
}

// preflight runs checkPaths then checkParentPaths, per spec.md §4.3. It
// returns the resolved stats so the caller doesn't need to stat again.
func preflight(src, dest FSPath, opts Options) (srcStat Stat, destStat *Stat, err error) {
	srcStat, destStat, err = getStats(src, dest, opts)
	if err != nil {
		return srcStat, destStat, err
	}
	if err := checkPaths(src, dest, srcStat, destStat); err != nil {
		return srcStat, destStat, err
	}
	if err := checkParentPaths(src, srcStat, dest); err != nil {
		return srcStat, destStat, err
	}
	return srcStat, destStat, nil
}
