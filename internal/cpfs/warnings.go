package cpfs

import (
	"log/slog"
	"math/bits"
	"sync"
)

var warnTimestampPrecisionOnce sync.Once

// warnTimestampPrecision emits the TimestampPrecisionWarning spec.md §7
// describes, once per process, when PreserveTimestamps is requested on a
// 32-bit host where time representation precision may be insufficient.
func warnTimestampPrecision() {
	if bits.UintSize >= 64 {
		return
	}
	warnTimestampPrecisionOnce.Do(func() {
		slog.Warn("preserveTimestamps precision may be insufficient on a 32-bit host",
			"component", "cpfs",
			"warning", "TimestampPrecisionWarning")
	})
}
