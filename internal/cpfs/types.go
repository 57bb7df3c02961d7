package cpfs

import (
	"io/fs"
	"time"

	"github.com/bcoe/ccp/internal/wfs"
	"github.com/bcoe/ccp/internal/wfs/sftpfs"
)

// Kind classifies a filesystem entry the way spec.md's stat record does.
type Kind int

const (
	KindRegular Kind = iota
	KindDirectory
	KindSymlink
	KindBlockDevice
	KindCharDevice
	KindSocket
	KindFIFO
	KindUnknown
)

// Stat is the spec.md "stat record": kind, permission bits, access and
// modification time, and the wide device id / inode number pair used for
// identity comparisons.
type Stat struct {
	Kind  Kind
	Mode  fs.FileMode
	Atime time.Time
	Mtime time.Time
	Dev   uint64
	Ino   uint64
}

// IsDir reports whether the stat describes a directory.
func (s Stat) IsDir() bool { return s.Kind == KindDirectory }

// Options is the copy configuration bag from spec.md §3. Force is the
// single reconciled overwrite flag (Design Note in spec.md §9: prefer
// "force" since the async dialect is the richer specification).
type Options struct {
	// Dereference follows symbolic links in src: the stat resolver uses
	// stat instead of lstat, so a link is classified and copied as the
	// file or directory it points to rather than as a link.
	Dereference bool
	// PreserveTimestamps restores atime/mtime of each destination file
	// to match src.
	PreserveTimestamps bool
	// Force removes an existing destination and replaces it.
	Force bool
	// ErrorOnExist makes an existing destination a hard error when Force
	// is not set.
	ErrorOnExist bool
	// Filter, if non-nil, is consulted for every (src, dest) pair of
	// directory children; a false result skips that pair and, for
	// directories, its subtree. The top-level pair passed to Copy is not
	// filtered.
	Filter func(src, dest string) bool

	// FileStart, FileDone, and Progress are optional instrumentation
	// hooks consulted by the File, Directory, and Symlink copiers; see
	// hooks.go. They do not change copy semantics.
	FileStart func(src, dest string)
	FileDone  func(src string, err error)
	Progress  func(n int64)
}

// FSPath pairs a backing writable filesystem with a path valid on it,
// reusing the teacher's (wfs.FS, string) abstraction so cpfs composes
// directly with both the local and SFTP backends.
type FSPath struct {
	FS   wfs.FS
	Path string
}

// String renders p for diagnostics and progress hooks, labeling SFTP
// paths as user@host:path.
func (p FSPath) String() string {
	if fsys, ok := p.FS.(*sftpfs.FS); ok {
		return fsys.User + "@" + fsys.Host + ":" + p.Path
	}
	return p.Path
}
