package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	before := merges.n.Load()
	IncMerges()
	ObserveMergeDurationMs(7)
	ObserveMergeDurationMs(-3)

	out := Render()
	assert.Contains(t, out, "# TYPE resume_merges_total counter")
	assert.Contains(t, out, "# TYPE http_rate_limited_total counter")
	assert.Contains(t, out, `resume_merge_duration_ms_bucket{le="10"}`)
	assert.Contains(t, out, `resume_merge_duration_ms_bucket{le="+Inf"}`)
	assert.Equal(t, before+1, merges.n.Load())
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram("h", "help", []float64{1, 10})
	h.observe(0.5)
	h.observe(1)
	h.observe(5)
	h.observe(50)

	var b strings.Builder
	h.write(&b)
	out := b.String()
	assert.Contains(t, out, "h_bucket{le=\"1\"} 2\n")
	assert.Contains(t, out, "h_bucket{le=\"10\"} 3\n")
	assert.Contains(t, out, "h_bucket{le=\"+Inf\"} 4\n")
	assert.Contains(t, out, "h_sum 56.5\n")
	assert.Contains(t, out, "h_count 4\n")
}

func TestHandlerServesTextFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, resp.Body.String(), "tool_calls_total")
}
