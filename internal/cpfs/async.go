package cpfs

import "context"

// CopyAsync is the async/await dialect: the same algorithm composed over
// Future, Go's deferred-completion primitive. It returns immediately; call
// Wait (or select on Done) to observe the result. See CopyCB for why this
// shares Copy's implementation rather than re-expressing the traversal.
func CopyAsync(ctx context.Context, src, dest FSPath, opts Options) *Future {
	f := newFuture()
	go func() {
		f.resolve(Copy(ctx, src, dest, opts))
	}()
	return f
}
