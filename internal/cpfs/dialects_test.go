package cpfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyCB(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("cb"), 0644))

	result := make(chan error, 1)
	CopyCB(context.Background(), osPath(src), osPath(dst), Options{}, func(err error) {
		result <- err
	})

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("CopyCB did not call done")
	}

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "cb", string(got))
}

func TestCopyAsync(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("async"), 0644))

	f := CopyAsync(context.Background(), osPath(src), osPath(dst), Options{})
	require.NoError(t, f.Wait())

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "async", string(got))
}

func TestCopyAsyncDone(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	f := CopyAsync(context.Background(), osPath(src), osPath(dst), Options{})
	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Future never resolved")
	}
	assert.NoError(t, f.Wait())
}

func TestCopyRespectsCancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Copy(ctx, osPath(src), osPath(filepath.Join(dir, "dst")), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
