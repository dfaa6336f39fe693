package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.IncResolved()
	m.IncPublished()
	m.IncSkippedNoInput()
	m.IncSkippedMalformed()
	m.IncSkippedSync()
	m.IncSkippedTransform()
	m.IncSkippedEncoding()
	m.IncSinkDropped()
	m.IncSinkErrors()
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.IncResolved()
	m.IncResolved()
	m.IncPublished()

	assert.Equal(t, uint64(2), m.FramesResolved.Load())
	assert.Equal(t, uint64(1), m.FramesPublished.Load())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncPublished()
	m.IncSkippedSync()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "camera_stream_frames_published_total 1"))
	assert.True(t, strings.Contains(text, "camera_stream_frames_skipped_sync_total 1"))
}
