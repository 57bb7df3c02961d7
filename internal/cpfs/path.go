package cpfs

import "path"

// JoinPath, CleanPath, and BasePath use the slash-separated "path" package,
// not "path/filepath": FSPath's Path is valid on an arbitrary wfs.FS
// backend (local disk or SFTP), which is always POSIX-style regardless of
// the host OS, matching the teacher's own use of "path" throughout
// internal/cp/cp.go. They are exported so internal/cp's orchestration
// layer can normalize paths the same way the engine does without
// duplicating the logic. parentPath has no caller outside this package, so
// it stays unexported.

func JoinPath(dir, name string) string {
	return path.Join(dir, name)
}

func CleanPath(p string) string {
	return path.Clean(p)
}

func BasePath(p string) string {
	return path.Base(p)
}

func joinPath(dir, name string) string { return JoinPath(dir, name) }
func cleanPath(p string) string        { return CleanPath(p) }
func parentPath(p string) string       { return path.Dir(cleanPath(p)) }
