package cpfs

import (
	"errors"
	"io/fs"
)

// mkdirAll creates dir and any missing parents, the FSPath analogue of
// os.MkdirAll. It is used only for the top-level parent-directory
// preparation step of the File, Directory, and Symlink Copiers (spec.md
// §4.5 step 1); child copies inherit an already-created destination
// directory from the Directory Copier and never call this.
func mkdirAll(dir FSPath) error {
	if _, err := statPath(dir, false); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	parent := parentPath(dir.Path)
	if parent != dir.Path && parent != "." && parent != "/" {
		if err := mkdirAll(FSPath{FS: dir.FS, Path: parent}); err != nil {
			return err
		}
	}
	if err := dir.mkdir(); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	return nil
}
