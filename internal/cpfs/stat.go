package cpfs

import (
	"errors"
	"io/fs"

	"github.com/bcoe/ccp/internal/cpfs/statx"
	"github.com/bcoe/ccp/internal/wfs"
)

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDirectory
	case mode&fs.ModeSocket != 0:
		return KindSocket
	case mode&fs.ModeNamedPipe != 0:
		return KindFIFO
	case mode&fs.ModeDevice != 0 && mode&fs.ModeCharDevice != 0:
		return KindCharDevice
	case mode&fs.ModeDevice != 0:
		return KindBlockDevice
	case mode.IsRegular():
		return KindRegular
	default:
		return KindUnknown
	}
}

func toStat(info fs.FileInfo) Stat {
	dev, ino, _ := statx.DevIno(info)
	atime, ok := statx.AccessTime(info)
	if !ok {
		// No raw stat_t available (e.g. the SFTP backend): atime isn't
		// exposed by fs.FileInfo at all, so mtime is the closest
		// approximation we have.
		atime = info.ModTime()
	}
	return Stat{
		Kind:  kindOf(info.Mode()),
		Mode:  info.Mode().Perm(),
		Atime: atime,
		Mtime: info.ModTime(),
		Dev:   dev,
		Ino:   ino,
	}
}

// statPath stats or lstats p depending on dereference, following the same
// policy the teacher's internal/cp.FSPath.stat/lstat pair implements.
func statPath(p FSPath, dereference bool) (fs.FileInfo, error) {
	if dereference {
		return fs.Stat(p.FS, p.Path)
	}
	return wfs.Lstat(p.FS, p.Path)
}

// getStats resolves src and dest metadata with the symlink-traversal
// policy from opts.Dereference. A missing dest is not an error: it is
// reported as a nil *Stat, per spec.md §4.2.
func getStats(src, dest FSPath, opts Options) (srcStat Stat, destStat *Stat, err error) {
	srcInfo, err := statPath(src, opts.Dereference)
	if err != nil {
		return Stat{}, nil, err
	}
	srcStat = toStat(srcInfo)

	destInfo, err := statPath(dest, opts.Dereference)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return srcStat, nil, nil
		}
		return srcStat, nil, err
	}
	ds := toStat(destInfo)
	return srcStat, &ds, nil
}
