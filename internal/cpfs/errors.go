// Package cpfs implements the recursive copy engine: path-identity
// predicates, stat resolution, pre-flight validation, type dispatch, and
// the per-kind copiers, exposed over three execution dialects that share
// one algorithm.
package cpfs

import (
	"fmt"
	"syscall"
)

// Code identifies the structural reason a copy was rejected or failed.
type Code string

const (
	CodeDestSubdirectory      Code = "ERR_FS_COPY_TO_SUBDIRECTORY"
	CodeDirToNonDir           Code = "ERR_FS_COPY_DIR_TO_NON_DIR"
	CodeNonDirToDir           Code = "ERR_FS_COPY_NON_DIR_TO_DIR"
	CodeExists                Code = "ERR_FS_COPY_EEXIST"
	CodeSocket                Code = "ERR_FS_COPY_SOCKET"
	CodeFIFO                  Code = "ERR_FS_COPY_FIFO_PIPE"
	CodeSymlinkToSubdirectory Code = "ERR_FS_COPY_SYMLINK_TO_SUBDIRECTORY"
	CodeUnknown               Code = "ERR_FS_COPY_UNKNOWN"
)

// Error carries the fields spec.md requires for every raised copy error:
// a symbolic code, a human-readable message, the destination path, the
// literal syscall name "copy", and a numeric errno.
type Error struct {
	Code    Code
	Message string
	Path    string
	Syscall string
	Errno   syscall.Errno
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s, copy %q", e.Errno, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: copy %q", e.Errno, e.Path)
}

// Unwrap exposes the underlying errno so callers can use
// errors.Is(err, syscall.EEXIST) and friends.
func (e *Error) Unwrap() error {
	return e.Errno
}

func newError(code Code, errno syscall.Errno, path, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Path:    path,
		Syscall: "copy",
		Errno:   errno,
	}
}

func errDestSubdirectory(path string) *Error {
	return newError(CodeDestSubdirectory, syscall.EINVAL, path,
		"cannot copy to a subdirectory of itself")
}

func errDirToNonDir(path string) *Error {
	return newError(CodeDirToNonDir, syscall.EISDIR, path,
		"cannot overwrite non-directory with directory")
}

func errNonDirToDir(path string) *Error {
	return newError(CodeNonDirToDir, syscall.ENOTDIR, path,
		"cannot overwrite directory with non-directory")
}

func errExists(path string) *Error {
	return newError(CodeExists, syscall.EEXIST, path,
		"destination already exists")
}

func errSocket(path string) *Error {
	return newError(CodeSocket, syscall.EINVAL, path,
		"cannot copy a socket")
}

func errFIFO(path string) *Error {
	return newError(CodeFIFO, syscall.EINVAL, path,
		"cannot copy a FIFO pipe")
}

func errSymlinkToSubdirectory(path string) *Error {
	return newError(CodeSymlinkToSubdirectory, syscall.EINVAL, path,
		"cannot overwrite symlink target's subdirectory")
}

func errUnknown(path string) *Error {
	return newError(CodeUnknown, syscall.EINVAL, path,
		"cannot copy an entry of unknown type")
}
