package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"openvoice-client/pkg/openvoice"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(zap.NewNop(), reg)

	m.ObserveRequest(openvoice.EndpointGenerateAudio, openvoice.FormatURL, 200, 1500*time.Millisecond)
	m.ObserveRequest(openvoice.EndpointGenerateAudio, openvoice.FormatURL, 200, time.Second)
	m.ObserveRequest(openvoice.EndpointChangeVoice, openvoice.FormatBytes, 500, 0)
	m.ObserveAudioBytes(openvoice.EndpointChangeVoice, 1024)
	m.ObserveStreamBytes(512)
	m.ObserveStreamBytes(512)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("generate-audio", "url", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("change-voice", "bytes", "500")))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.lastStatus.WithLabelValues("change-voice")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.audioBytes.WithLabelValues("change-voice")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.streamBytes))

	// ответ с нулевой длительностью не попадает в гистограмму
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(zap.NewNop(), reg)
	m.ObserveRequest(openvoice.EndpointGenerateAudio, openvoice.FormatStream, 200, time.Second)

	server := httptest.NewServer(NewHandler(m, zap.NewNop()).Mux())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `openvoice_requests_total{endpoint="generate-audio",format="stream",status="200"} 1`)

	resp, err = http.Get(server.URL + "/health")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","service":"openvoice-client"}`, string(body))
}
