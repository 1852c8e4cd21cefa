package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateMonitorSkipsFirstTwoFramesForFPS(t *testing.T) {
	m := NewRateMonitor()

	s := m.Sample(0, 0)
	require.Zero(t, s.FPS)
	s = m.Sample(1, 33_000)
	require.Zero(t, s.FPS)

	s = m.Sample(2, 66_000)
	require.Zero(t, s.FPS, "fps needs at least two retained samples")

	s = m.Sample(3, 99_000)
	require.Greater(t, s.FPS, 0.0)
}

func TestRateMonitorCountsDroppedFrames(t *testing.T) {
	m := NewRateMonitor()
	m.Sample(0, 0)
	s := m.Sample(5, 33_000)

	require.Equal(t, uint64(4), s.DroppedFrames)
	require.Equal(t, uint64(5), s.TotalFrames)
}

func TestRateMonitorNoGapNoDrops(t *testing.T) {
	m := NewRateMonitor()
	m.Sample(0, 0)
	s := m.Sample(1, 33_000)

	require.Zero(t, s.DroppedFrames)
	require.Equal(t, uint64(1), s.TotalFrames)
}

func TestRateMonitorUTCStringPresent(t *testing.T) {
	m := NewRateMonitor()
	s := m.Sample(0, 1_700_000_000_000_000)
	require.NotEmpty(t, s.UTC)
}
