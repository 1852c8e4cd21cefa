package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"meteorcam/v4l2"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaultsPartially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meteorcam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 1280\nheight: 720\nlog_level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1280, cfg.Width)
	require.Equal(t, 720, cfg.Height)
	require.Equal(t, "debug", cfg.LogLevel)
	// Untouched fields retain their Default() values.
	require.Equal(t, 10, cfg.DetectionHead)
	require.Equal(t, 32, cfg.BufferCount)
}

func TestValidateRejectsBadPixelFormat(t *testing.T) {
	cfg := Default()
	cfg.PixelFormat = "BAYER"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveDimensions(t *testing.T) {
	cfg := Default()
	cfg.Width = 0
	require.Error(t, cfg.Validate())
}

func TestFourCCMapping(t *testing.T) {
	cfg := Default()
	cfg.PixelFormat = "YUYV"
	fourcc, err := cfg.FourCC()
	require.NoError(t, err)
	require.Equal(t, v4l2.PixFmtYUYV, fourcc)
}
