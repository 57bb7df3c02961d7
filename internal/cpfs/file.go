package cpfs

import (
	"context"
	"io"
	"io/fs"

	"github.com/bcoe/ccp/internal/cpfs/statx"
)

// fder is implemented by *os.File; type-asserted so the timestamp step can
// call statx.Futimes on the live descriptor when the backing filesystem is
// local disk, and fall back to a path-based Lutimes for any other backend
// (notably SFTP, which never exposes a raw fd).
type fder interface {
	Fd() uintptr
}

// copyFile implements spec.md §4.5: regular files and block/character
// devices, which are copied as opaque byte streams.
func copyFile(ctx context.Context, src, dest FSPath, srcStat Stat, destStat *Stat, opts Options, topLevel bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if topLevel {
		if err := mkdirAll(FSPath{FS: dest.FS, Path: parentPath(dest.Path)}); err != nil {
			return err
		}
	}

	switch {
	case destStat == nil:
		// proceed to byte copy
	case opts.Force:
		if err := dest.remove(); err != nil {
			return err
		}
	case opts.ErrorOnExist:
		return errExists(dest.Path)
	default:
		return nil
	}

	opts.onFileStart(src, dest)
	if err := copyBytes(src, dest, srcStat.Mode, opts); err != nil {
		opts.onFileDone(src, err)
		return err
	}

	if opts.PreserveTimestamps {
		if err := restoreTimestamps(src, dest, srcStat); err != nil {
			opts.onFileDone(src, err)
			return err
		}
	}

	if err := dest.chmod(srcStat.Mode); err != nil {
		opts.onFileDone(src, err)
		return err
	}
	opts.onFileDone(src, nil)
	return nil
}

// copyBufferSize matches the teacher's own chunk size for io.CopyN, large
// enough that copy_file_range-style zero-copy kicks in on *os.File pairs
// while still giving the Progress hook a steady stream of updates.
const copyBufferSize = 1024 * 1024

func copyBytes(src, dest FSPath, mode fs.FileMode, opts Options) error {
	in, err := src.open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := dest.create(mode)
	if err != nil {
		return err
	}
	for {
		n, err := io.CopyN(out, in, copyBufferSize)
		if n > 0 {
			opts.onProgress(n)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			out.Close()
			return err
		}
	}
	if err := out.Close(); err != nil {
		return err
	}
	opts.onProgress(1)
	return nil
}

// restoreTimestamps implements spec.md §4.5 step 4: src's atime has been
// perturbed by the byte copy's reads, so src is restatted; if the owner
// lacks write permission, dest is briefly chmod'd writable first, because
// the underlying futimes call requires the descriptor's owner to hold
// write access. The timestamps are then set through a freshly opened
// descriptor on dest, and the transient write bit is left for the
// caller's final chmod to undo.
func restoreTimestamps(src, dest FSPath, staleSrcStat Stat) error {
	freshInfo, err := statPath(src, false)
	if err != nil {
		return err
	}
	fresh := toStat(freshInfo)

	if staleSrcStat.Mode&0o200 == 0 {
		if err := dest.chmod(staleSrcStat.Mode | 0o200); err != nil {
			return err
		}
	}

	out, err := dest.open()
	if err == nil {
		if f, ok := out.(fder); ok {
			ferr := statx.Futimes(int(f.Fd()), fresh.Atime, fresh.Mtime)
			out.Close()
			if ferr == nil {
				return nil
			}
		} else {
			out.Close()
		}
	}
	return statx.Lutimes(dest.Path, fresh.Atime, fresh.Mtime)
}
