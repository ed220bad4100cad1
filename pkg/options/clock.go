package options

import "time"

// wallClockMillis is the default Clock: current wall-clock time in
// milliseconds since epoch, used by Append when a caller supplies
// timestamp = 0 (spec.md §4.6).
func wallClockMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}
