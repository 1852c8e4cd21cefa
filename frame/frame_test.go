package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnotatedGreyRGBA(t *testing.T) {
	require.Equal(t, uint32(0x000000FF), AnnotatedGreyRGBA(0x00))
	require.Equal(t, uint32(0xFFFFFFFF), AnnotatedGreyRGBA(0xFF))
	require.Equal(t, uint32(0x808080FF), AnnotatedGreyRGBA(0x80))
}
