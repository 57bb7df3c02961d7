package cpfs

import "context"

// CopyCB is the callback dialect: the overall operation completes when
// done is invoked exactly once, with nil on success or the first raised
// error on failure. Per the Design Note in spec.md §9 ("avoid hand-porting
// the traversal three times"), CopyCB does not reimplement the traversal
// as continuation-passing style; it runs the single shared algorithm on a
// dedicated goroutine and reports its single result through done, which
// gives callers the same "suspend at every filesystem call" observable
// behavior (the caller's own goroutine never blocks) without a second
// copy of the pre-flight/dispatch/copier logic to keep in sync.
func CopyCB(ctx context.Context, src, dest FSPath, opts Options, done func(error)) {
	go func() {
		done(Copy(ctx, src, dest, opts))
	}()
}
