package cpfs

import "context"

// Copy is the blocking dialect: every filesystem call blocks the calling
// thread, recursion uses the native call stack, and there are no
// suspension points. It is the single algorithm spec.md §4 describes,
// invoked directly.
func Copy(ctx context.Context, src, dest FSPath, opts Options) error {
	src.Path = cleanPath(src.Path)
	dest.Path = cleanPath(dest.Path)

	if opts.PreserveTimestamps {
		warnTimestampPrecision()
	}

	srcStat, destStat, err := preflight(src, dest, opts)
	if err != nil {
		return err
	}
	return dispatch(ctx, src, dest, srcStat, destStat, opts, true)
}
