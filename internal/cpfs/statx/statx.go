// Package statx extracts the wide device id / inode number pair from an
// [fs.FileInfo] when the backing filesystem exposes a raw stat_t, and
// restores access/modification times with nanosecond precision and a
// no-follow mode that [os.Chtimes] cannot express.
package statx

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DevIno returns the device id and inode number embedded in info's Sys()
// value, when info came from a filesystem that populates a *syscall.Stat_t
// (true for the local disk backend, false for the SFTP backend, whose
// fs.FileInfo carries no such payload). ok is false when the information
// is unavailable; callers must then treat identity as unknown, never as
// incidentally matching.
func DevIno(info fs.FileInfo) (dev, ino uint64, ok bool) {
	stat, isStatT := info.Sys().(*syscall.Stat_t)
	if !isStatT {
		return 0, 0, false
	}
	return uint64(stat.Dev), uint64(stat.Ino), true
}

// AccessTime returns the atime embedded in info's Sys() value. ok is false
// when info did not come from a filesystem that populates a
// *syscall.Stat_t, in which case callers should fall back to ModTime.
func AccessTime(info fs.FileInfo) (atime time.Time, ok bool) {
	stat, isStatT := info.Sys().(*syscall.Stat_t)
	if !isStatT {
		return time.Time{}, false
	}
	return time.Unix(stat.Atim.Sec, stat.Atim.Nsec), true
}

// Lutimes sets the access and modification time of name without following
// a trailing symbolic link, the POSIX analogue of spec.md's "open-for-
// append-then-futimes" sequence for ordinary files and the only option for
// symlinks themselves (which cannot be opened for write at all).
func Lutimes(name string, atime, mtime time.Time) error {
	ts := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}
	return unix.UtimesNanoAt(unix.AT_FDCWD, name, ts, unix.AT_SYMLINK_NOFOLLOW)
}

// Futimes sets the access and modification time of an open file by fd,
// the POSIX primitive behind spec.md §4.5 step 4c's "open-for-append-then-
// futimes" sequence.
func Futimes(fd int, atime, mtime time.Time) error {
	tv := []unix.Timeval{
		unix.NsecToTimeval(atime.UnixNano()),
		unix.NsecToTimeval(mtime.UnixNano()),
	}
	return unix.Futimes(fd, tv)
}
