package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryCollectorsAreDistinct(t *testing.T) {
	r := New()
	require.NotNil(t, r.FPS)
	require.NotNil(t, r.DroppedFrames)
	require.NotNil(t, r.TotalFrames)
	require.NotNil(t, r.DecodeFailures)
	require.NotNil(t, r.MailboxDrops)
	require.NotNil(t, r.ClipsRecorded)
	require.NotNil(t, r.AnalysisQueue)
}

func TestHandlerServesMetrics(t *testing.T) {
	r := New()
	r.FPS.Set(29.97)
	r.ClipsRecorded.Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "meteorcam_fps")
	require.Contains(t, rec.Body.String(), "meteorcam_clips_recorded_total 1")
}
