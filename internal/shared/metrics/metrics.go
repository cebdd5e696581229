// Package metrics keeps process-wide counters and renders them in the Prometheus text
// exposition format at /metrics.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name, help string
	n          atomic.Uint64
}

func (c *counter) inc() { c.n.Add(1) }

func (c *counter) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", c.name, c.help, c.name, c.name, c.n.Load())
}

var (
	merges        = &counter{name: "resume_merges_total", help: "Total resume merges completed"}
	mergeFailures = &counter{name: "resume_merge_failures_total", help: "Total resume merges failed"}
	toolCalls     = &counter{name: "tool_calls_total", help: "Total resume function calls executed"}
	imports       = &counter{name: "resume_imports_total", help: "Total resumes imported from files"}

	jobsReceived      = &counter{name: "import_jobs_received_total", help: "Queued import messages received"}
	jobsCompleted     = &counter{name: "import_jobs_completed_total", help: "Queued import messages processed and deleted"}
	jobsFailed        = &counter{name: "import_jobs_failed_total", help: "Queued import messages left for redelivery"}
	jobsUnrecoverable = &counter{name: "import_jobs_deleted_unrecoverable_total", help: "Malformed import messages deleted"}

	rateLimited = &counter{name: "http_rate_limited_total", help: "Requests rejected by the rate limiter"}

	// Render order.
	counters = []*counter{
		merges, mergeFailures, toolCalls, imports,
		jobsReceived, jobsCompleted, jobsFailed, jobsUnrecoverable,
		rateLimited,
	}

	mergeDuration = newHistogram("resume_merge_duration_ms", "Resume merge duration in milliseconds",
		[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000})
)

func IncMerges()                         { merges.inc() }
func IncMergeFailures()                  { mergeFailures.inc() }
func IncToolCalls()                      { toolCalls.inc() }
func IncImports()                        { imports.inc() }
func IncImportJobsReceived()             { jobsReceived.inc() }
func IncImportJobsCompleted()            { jobsCompleted.inc() }
func IncImportJobsFailed()               { jobsFailed.inc() }
func IncImportJobsDeletedUnrecoverable() { jobsUnrecoverable.inc() }
func IncRateLimited()                    { rateLimited.inc() }

// ObserveMergeDurationMs records a merge duration. Negative values count as zero.
func ObserveMergeDurationMs(ms float64) {
	mergeDuration.observe(max(ms, 0))
}

// Handler serves Render.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(Render()))
	}
}

// Render returns every metric in exposition format.
func Render() string {
	var b strings.Builder
	for _, c := range counters {
		c.write(&b)
	}
	mergeDuration.write(&b)
	return b.String()
}

// histogram stores per-bucket counts; write makes them cumulative.
type histogram struct {
	name, help string
	bounds     []float64

	mu     sync.Mutex
	counts []uint64 // len(bounds)+1, the last one is +Inf
	sum    float64
}

func newHistogram(name, help string, bounds []float64) *histogram {
	return &histogram{name: name, help: help, bounds: bounds, counts: make([]uint64, len(bounds)+1)}
}

func (h *histogram) observe(v float64) {
	i := sort.SearchFloat64s(h.bounds, v)
	h.mu.Lock()
	h.counts[i]++
	h.sum += v
	h.mu.Unlock()
}

func (h *histogram) write(w io.Writer) {
	h.mu.Lock()
	counts := append([]uint64(nil), h.counts...)
	sum := h.sum
	h.mu.Unlock()

	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
	var total uint64
	for i, n := range counts {
		total += n
		le := "+Inf"
		if i < len(h.bounds) {
			le = formatFloat(h.bounds[i])
		}
		fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", h.name, le, total)
	}
	fmt.Fprintf(w, "%s_sum %s\n%s_count %d\n", h.name, formatFloat(sum), h.name, total)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
