package cpfs

import "context"

// dispatch classifies srcStat and routes to the per-kind handler, raising
// the correct unsupported-kind error for sockets, FIFOs, and anything
// else unrecognized. Devices are treated as regular files: the byte copy
// of whatever the kernel exposes suffices, per spec.md §4.4.
func dispatch(ctx context.Context, src, dest FSPath, srcStat Stat, destStat *Stat, opts Options, topLevel bool) error {
	switch srcStat.Kind {
	case KindDirectory:
		return copyDirectory(ctx, src, dest, srcStat, destStat, opts, topLevel)
	case KindRegular, KindBlockDevice, KindCharDevice:
		return copyFile(ctx, src, dest, srcStat, destStat, opts, topLevel)
	case KindSymlink:
		return copySymlink(ctx, src, dest, srcStat, destStat, opts, topLevel)
	case KindSocket:
		return errSocket(dest.Path)
	case KindFIFO:
		return errFIFO(dest.Path)
	default:
		return errUnknown(dest.Path)
	}
}
