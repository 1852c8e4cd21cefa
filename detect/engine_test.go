package detect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"meteorcam/frame"
)

func mkFrame(raw []byte) *frame.Frame {
	return &frame.Frame{Width: len(raw), Height: 1, Raw: raw}
}

func TestDetectNoPriorIsAlwaysFalse(t *testing.T) {
	e := NewEngine(10, 0)
	cur := mkFrame([]byte{255, 255, 255})
	require.False(t, e.Detect(cur, nil))
}

func TestDetectSymmetric(t *testing.T) {
	e := NewEngine(5, 1)
	a := mkFrame([]byte{10, 200, 50, 9})
	b := mkFrame([]byte{20, 190, 40, 9})

	require.Equal(t, e.Detect(a, b), e.Detect(b, a))
}

func TestDetectCountsPixelsAboveThreshold(t *testing.T) {
	e := NewEngine(10, 2)
	cur := mkFrame([]byte{100, 100, 100, 100})
	prior := mkFrame([]byte{100, 50, 200, 95})
	// diffs: 0, 50, 100, 5 -> two pixels exceed T=10 -> changed=2, not > K=2
	require.False(t, e.Detect(cur, prior))

	e2 := NewEngine(10, 1)
	require.True(t, e2.Detect(cur, prior))
}

func TestDetectAnnotatesChangedPixels(t *testing.T) {
	e := NewEngine(10, 0)
	cur := &frame.Frame{
		Width: 3, Height: 1,
		Raw:       []byte{100, 100, 100},
		Annotated: []uint32{1, 2, 3},
	}
	prior := mkFrame([]byte{100, 50, 100})

	e.Detect(cur, prior)
	require.Equal(t, uint32(1), cur.Annotated[0])
	require.Equal(t, frame.EventIndicatorRGBA, cur.Annotated[1])
	require.Equal(t, uint32(3), cur.Annotated[2])
}
