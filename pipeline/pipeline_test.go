package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"meteorcam/analysis"
	"meteorcam/detect"
	"meteorcam/frame"
	"meteorcam/logging"
	"meteorcam/statemachine"
)

type stubDecoder struct {
	out []byte
	err error
}

func (d *stubDecoder) Decode(src []byte) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.out, nil
}

func newTestPipeline(t *testing.T, dec *stubDecoder, headless bool) *Pipeline {
	sink := analysis.NewWorkerPoolSink(1, func(c *statemachine.Clip) string { return c.ID })
	t.Cleanup(sink.Close)

	return New(
		nil,
		dec,
		frame.NewRateMonitor(),
		detect.NewEngine(10, 0),
		statemachine.New(3, 2),
		frame.NewFrameBus(),
		sink,
		logging.New("error", ""),
		nil,
		Config{Width: 2, Height: 1, Headless: headless},
	)
}

func TestDecodeFrameCopiesDecoderOutput(t *testing.T) {
	dec := &stubDecoder{out: []byte{1, 2}}
	p := newTestPipeline(t, dec, true)

	f, ok := p.decodeFrame([]byte{1, 2}, 5, 1_000_000)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2}, f.Raw)
	require.Equal(t, uint32(5), f.Sequence)

	// The decoder's output buffer being mutated afterward must not affect
	// the frame already produced.
	dec.out[0] = 99
	require.Equal(t, byte(1), f.Raw[0])
}

func TestDecodeFrameSkipsOnDecodeFailure(t *testing.T) {
	dec := &stubDecoder{err: errors.New("boom")}
	p := newTestPipeline(t, dec, true)

	f, ok := p.decodeFrame([]byte{1, 2}, 5, 0)
	require.False(t, ok)
	require.Nil(t, f)
}

func TestDecodeFrameHeadlessSkipsAnnotated(t *testing.T) {
	dec := &stubDecoder{out: []byte{1, 2}}
	p := newTestPipeline(t, dec, true)

	f, ok := p.decodeFrame([]byte{1, 2}, 1, 0)
	require.True(t, ok)
	require.Nil(t, f.Annotated)
}

func TestDecodeFramePopulatesAnnotatedWhenNotHeadless(t *testing.T) {
	dec := &stubDecoder{out: []byte{0x80, 0x10}}
	p := newTestPipeline(t, dec, false)

	f, ok := p.decodeFrame([]byte{0x80, 0x10}, 1, 0)
	require.True(t, ok)
	require.Equal(t, frame.AnnotatedGreyRGBA(0x80), f.Annotated[0])
	require.Equal(t, frame.AnnotatedGreyRGBA(0x10), f.Annotated[1])
}

func TestNextClipIDIsUniqueAndMonotonic(t *testing.T) {
	p := newTestPipeline(t, &stubDecoder{}, true)
	a := p.nextClipID()
	b := p.nextClipID()
	require.NotEqual(t, a, b)
	require.Regexp(t, `^clip-\d+-1$`, a)
	require.Regexp(t, `^clip-\d+-2$`, b)
}
