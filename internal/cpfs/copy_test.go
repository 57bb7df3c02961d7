package cpfs

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcoe/ccp/internal/wfs/osfs"
)

func osPath(p string) FSPath { return FSPath{FS: osfs.FS{}, Path: p} }

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0644))

	err := Copy(context.Background(), osPath(src), osPath(dst), Options{})
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestCopyFileIntoMissingParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "a", "b", "c", "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("nested"), 0644))

	require.NoError(t, Copy(context.Background(), osPath(src), osPath(dst), Options{}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "nested", string(got))
}

func TestCopyDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("top"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "nested.txt"), []byte("nested"), 0644))

	require.NoError(t, Copy(context.Background(), osPath(src), osPath(dst), Options{}))

	got, err := os.ReadFile(filepath.Join(dst, "sub", "nested.txt"))
	require.NoError(t, err)
	assert.Equal(t, "nested", string(got))
}

func TestCopySelfIsError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	err := Copy(context.Background(), osPath(src), osPath(src), Options{})
	require.Error(t, err)
	var cpErr *Error
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, CodeDestSubdirectory, cpErr.Code)
}

func TestCopyDirectoryIntoOwnSubdirIsError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0755))

	err := Copy(context.Background(), osPath(src), osPath(filepath.Join(src, "sub")), Options{})
	require.Error(t, err)
	var cpErr *Error
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, CodeDestSubdirectory, cpErr.Code)
}

func TestCopyDirToExistingFileIsError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(dst, []byte("x"), 0644))

	err := Copy(context.Background(), osPath(src), osPath(dst), Options{})
	require.Error(t, err)
	var cpErr *Error
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, CodeDirToNonDir, cpErr.Code)
}

func TestCopyFileToExistingDirIsError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(dst, 0755))

	err := Copy(context.Background(), osPath(src), osPath(dst), Options{})
	require.Error(t, err)
	var cpErr *Error
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, CodeNonDirToDir, cpErr.Code)
}

func TestCopyErrorOnExist(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	err := Copy(context.Background(), osPath(src), osPath(dst), Options{ErrorOnExist: true})
	require.Error(t, err)
	var cpErr *Error
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, CodeExists, cpErr.Code)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got), "destination must be untouched")
}

func TestCopyForceOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	require.NoError(t, Copy(context.Background(), osPath(src), osPath(dst), Options{Force: true}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCopyWithoutForceOrErrorOnExistLeavesDestUntouched(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	require.NoError(t, Copy(context.Background(), osPath(src), osPath(dst), Options{}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}

func TestCopySymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	dst := filepath.Join(dir, "link-copy.txt")
	require.NoError(t, os.WriteFile(target, []byte("data"), 0644))
	require.NoError(t, os.Symlink("target.txt", link))

	require.NoError(t, Copy(context.Background(), osPath(link), osPath(dst), Options{}))

	got, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, "target.txt", got)
}

func TestCopySymlinkIntoMissingParents(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	dst := filepath.Join(dir, "a", "b", "c", "link-copy.txt")
	require.NoError(t, os.WriteFile(target, []byte("data"), 0644))
	require.NoError(t, os.Symlink("target.txt", link))

	require.NoError(t, Copy(context.Background(), osPath(link), osPath(dst), Options{}))

	got, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, "target.txt", got)
}

// TestCopyThroughSymlinkedAncestorIsError covers §8 scenario 3: D/b is a
// symlink to K, and copy(K, D/b/c) must be rejected even though the
// literal destination path "D/b/c" doesn't textually nest under "K" —
// the alias only shows up once D/b is resolved.
func TestCopyThroughSymlinkedAncestorIsError(t *testing.T) {
	dir := t.TempDir()
	k := filepath.Join(dir, "K")
	d := filepath.Join(dir, "D")
	require.NoError(t, os.MkdirAll(k, 0755))
	require.NoError(t, os.MkdirAll(d, 0755))
	require.NoError(t, os.Symlink(k, filepath.Join(d, "b")))

	err := Copy(context.Background(), osPath(k), osPath(filepath.Join(d, "b", "c")), Options{})
	require.Error(t, err)
	var cpErr *Error
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, CodeDestSubdirectory, cpErr.Code)
}

func TestCopySymlinkLoopIsError(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.Symlink("b", a))
	require.NoError(t, os.Symlink("a", b))

	err := Copy(context.Background(), osPath(a), osPath(filepath.Join(dir, "c")), Options{Dereference: true})
	require.Error(t, err)
}

func TestCopyPreservesPermissions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0600))

	require.NoError(t, Copy(context.Background(), osPath(src), osPath(dst), Options{}))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestCopyPreserveTimestamps(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0444))

	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, Copy(context.Background(), osPath(src), osPath(dst), Options{PreserveTimestamps: true}))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.WithinDuration(t, mtime, info.ModTime(), time.Second)
	assert.Equal(t, os.FileMode(0444), info.Mode().Perm(), "final chmod must restore the read-only bit")
}

func TestCopyFIFOIsError(t *testing.T) {
	dir := t.TempDir()
	fifo := filepath.Join(dir, "pipe")
	if err := syscall.Mkfifo(fifo, 0644); err != nil {
		t.Skipf("mkfifo unsupported: %v", err)
	}

	err := Copy(context.Background(), osPath(fifo), osPath(filepath.Join(dir, "dst")), Options{})
	require.Error(t, err)
	var cpErr *Error
	require.ErrorAs(t, err, &cpErr)
	assert.Equal(t, CodeFIFO, cpErr.Code)
}

func TestCopyFilterSkipsEntries(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "keep.txt"), []byte("keep"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "skip.log"), []byte("skip"), 0644))

	opts := Options{
		Filter: func(srcPath, destPath string) bool {
			return filepath.Ext(srcPath) != ".log"
		},
	}
	require.NoError(t, Copy(context.Background(), osPath(src), osPath(dst), opts))

	_, err := os.Stat(filepath.Join(dst, "keep.txt"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, "skip.log"))
	assert.True(t, os.IsNotExist(err))
}
