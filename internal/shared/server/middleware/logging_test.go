package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Auth(), Logging())
	router.GET("/resumes/:id", func(c *gin.Context) {
		c.Set(ResumeIDKey, c.Param("id"))
		c.Set(ToolNameKey, "read_resume")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	req := httptest.NewRequest(http.MethodGet, "/resumes/res-1", nil)
	req.Header.Set("X-Guest-Id", "guest1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &payload))

	for _, key := range []string{"request_id", "user_id", "resume_id", "duration_ms", "status", "route"} {
		assert.Contains(t, payload, key)
	}
	assert.Equal(t, "guest:guest1", payload["user_id"])
	assert.Equal(t, "res-1", payload["resume_id"])
	assert.Equal(t, "read_resume", payload["tool"])
	assert.Equal(t, "/resumes/:id", payload["route"])
}
