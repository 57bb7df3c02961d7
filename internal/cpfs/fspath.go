package cpfs

import (
	"io"
	"io/fs"

	"github.com/bcoe/ccp/internal/wfs"
)

// These helper methods exist to prevent the easy mistake of pairing one FSPath's filesystem with
// another FSPath's path, e.g. writing src.FS.Open(dest.Path).

func (p FSPath) open() (fs.File, error) {
	return p.FS.Open(p.Path)
}

func (p FSPath) create(mode fs.FileMode) (io.WriteCloser, error) {
	return p.FS.Create(p.Path, mode)
}

func (p FSPath) remove() error {
	return p.FS.Remove(p.Path)
}

func (p FSPath) mkdir() error {
	return p.FS.Mkdir(p.Path)
}

func (p FSPath) chmod(mode fs.FileMode) error {
	return p.FS.Chmod(p.Path, mode)
}

func (p FSPath) symlinkFrom(target string) error {
	return p.FS.Symlink(target, p.Path)
}

func (p FSPath) readLink() (string, error) {
	return wfs.ReadLink(p.FS, p.Path)
}

func (p FSPath) readDir() ([]fs.DirEntry, error) {
	return fs.ReadDir(p.FS, p.Path)
}

// child returns the FSPath for a directory entry name beneath p, sharing
// p's backing filesystem.
func (p FSPath) child(name string) FSPath {
	return FSPath{FS: p.FS, Path: joinPath(p.Path, name)}
}
