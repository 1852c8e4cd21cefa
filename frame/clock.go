package frame

import (
	"fmt"
	"time"
)

// FormatUTC renders a diagnostic UTC timestamp string in the
// YYYY-M-D--H:M:S.µs layout used for logging.
// No zero-padding is applied, matching the original
// TimeUtil::convertToUtcString (_examples/original_source/MeteorCaptureQt/util/timeutil.cpp),
// which builds the string from a broken-down UTC struct tm plus the
// microsecond remainder rather than a fixed-width layout.
func FormatUTC(epochTimeUs int64) string {
	sec := epochTimeUs / 1_000_000
	micros := epochTimeUs % 1_000_000
	if micros < 0 {
		micros += 1_000_000
		sec--
	}
	t := time.Unix(sec, 0).UTC()
	return fmt.Sprintf("%d-%d-%d--%d:%d:%d.%d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), micros)
}

// EpochOffset computes epoch_time_diff_us = wallClockUs - uptimeUs, the
// one-time offset the pipeline is configured with at startup so that
// epoch_time_us = uptime_us + offset.
func EpochOffset(wallClockUs, uptimeUs int64) int64 {
	return wallClockUs - uptimeUs
}
