package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.POST("/api/v1/resumes/:id/tools/:name", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func corsRequest(router http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/resumes/123/tools/read_resume", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCORSAllowedOrigin(t *testing.T) {
	router := corsRouter("http://localhost:3000/", " ")

	for _, method := range []string{http.MethodOptions, http.MethodPost} {
		resp := corsRequest(router, method, "http://localhost:3000")
		if method == http.MethodOptions {
			assert.Equal(t, http.StatusNoContent, resp.Code)
		} else {
			assert.Equal(t, http.StatusOK, resp.Code)
		}
		assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
		assert.Contains(t, resp.Header().Get("Access-Control-Allow-Headers"), "X-Guest-Id")
		assert.Equal(t, "600", resp.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	resp := corsRequest(corsRouter("http://localhost:3000"), http.MethodPost, "http://evil.test")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	resp := corsRequest(corsRouter("*"), http.MethodOptions, "http://any.test")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://any.test", resp.Header().Get("Access-Control-Allow-Origin"))
}
