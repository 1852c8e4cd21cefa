package statemachine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"meteorcam/frame"
)

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("clip-%d", n)
	}
}

func mkFrame(seq uint32) *frame.Frame {
	return &frame.Frame{Sequence: seq}
}

func TestIdleIgnoresEvents(t *testing.T) {
	m := New(3, 2)
	clip := m.Step(mkFrame(1), true, seqID())
	require.Nil(t, clip)
	require.Equal(t, Idle, m.State())
}

func TestDetectingPushesToHeadOnNoEvent(t *testing.T) {
	m := New(3, 2)
	m.SetRun()
	clip := m.Step(mkFrame(1), false, seqID())
	require.Nil(t, clip)
	require.Equal(t, Detecting, m.State())
	require.Equal(t, 1, m.head.Len())
}

func TestDetectingTransitionsToRecordingOnEvent(t *testing.T) {
	m := New(2, 1)
	m.SetRun()
	id := seqID()

	m.Step(mkFrame(1), false, id)
	m.Step(mkFrame(2), false, id)
	clip := m.Step(mkFrame(3), true, id)

	require.Nil(t, clip, "clip only finalizes when RECORDING closes")
	require.Equal(t, Recording, m.State())
}

func TestPreEventCoverageAndTailClosure(t *testing.T) {
	head, tail := 2, 2
	m := New(head, tail)
	m.SetRun()
	id := seqID()

	// Pre-event frames fill the head ring.
	m.Step(mkFrame(1), false, id)
	m.Step(mkFrame(2), false, id)
	// Event fires on frame 3 -> DETECTING -> RECORDING.
	m.Step(mkFrame(3), true, id)
	require.Equal(t, Recording, m.State())

	// Tail countdown: two non-event frames close the clip (since_last_trigger >= tail).
	m.Step(mkFrame(4), false, id)
	clip := m.Step(mkFrame(5), false, id)

	require.NotNil(t, clip)
	require.Equal(t, Detecting, m.State())

	// Pre-event coverage: the clip's first `head` frames are exactly the
	// head ring contents at the DETECTING->RECORDING transition (frames 1,2).
	require.Len(t, clip.Frames, head+3)
	require.Equal(t, uint32(1), clip.Frames[0].Sequence)
	require.Equal(t, uint32(2), clip.Frames[1].Sequence)

	// Clip contiguity: sequence strictly increasing across the whole clip.
	for i := 1; i < len(clip.Frames); i++ {
		require.Greater(t, clip.Frames[i].Sequence, clip.Frames[i-1].Sequence)
	}

	// Tail closure: clip ends exactly `tail` frames after the last
	// event-signalling frame (frame 3 triggered; frames 4,5 are the tail).
	require.Equal(t, uint32(5), clip.Frames[len(clip.Frames)-1].Sequence)
}

func TestRecordingResetsCounterOnRepeatedEvent(t *testing.T) {
	m := New(1, 2)
	m.SetRun()
	id := seqID()

	m.Step(mkFrame(1), true, id)         // DETECTING -> RECORDING
	m.Step(mkFrame(2), false, id)        // since_last_trigger = 1
	clip := m.Step(mkFrame(3), true, id) // resets since_last_trigger to 0
	require.Nil(t, clip)
	require.Equal(t, Recording, m.State())

	m.Step(mkFrame(4), false, id)        // since_last_trigger = 1
	clip = m.Step(mkFrame(5), false, id) // since_last_trigger = 2 >= tail -> closes
	require.NotNil(t, clip)
}

func TestSetPauseAbandonsInProgressClip(t *testing.T) {
	m := New(2, 2)
	m.SetRun()
	id := seqID()
	m.Step(mkFrame(1), true, id)
	require.Equal(t, Recording, m.State())

	m.SetPause()
	require.Equal(t, Idle, m.State())
	require.Empty(t, m.eventFrames)
}
