package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatUTCNoZeroPadding(t *testing.T) {
	// 2024-01-05 03:04:05.000006 UTC, chosen so month/day/hour carry single
	// digits that a zero-padded layout would render differently.
	epochSec := int64(1704423845)
	got := FormatUTC(epochSec*1_000_000 + 6)
	require.Equal(t, "2024-1-5--3:4:5.6", got)
}

func TestEpochOffset(t *testing.T) {
	require.Equal(t, int64(500), EpochOffset(1500, 1000))
}
