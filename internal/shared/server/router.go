package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/imports"
	"resume-builder/internal/jobs"
	"resume-builder/internal/profiles"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/tools"
	"resume-builder/internal/users"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupRead    = "READ"
	rateGroupLLM     = "LLM"
)

// RouterDeps are the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config         config.Config
	Health         *health.Service
	ResumeHandler  *resumes.Handler
	ProfileHandler *profiles.Handler
	JobHandler     *jobs.Handler
	ToolHandler    *tools.Handler
	ImportHandler  *imports.Handler
	UserHandler    *users.Handler
	GoogleAuth     *googleauth.GoogleService
	RateLimiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.RateLimiter,
			Rules: map[string]middleware.RateLimitRule{
				rateGroupDefault: {Rate: 2, Burst: 20},
				rateGroupRead:    {Rate: 10, Burst: 60},
				rateGroupLLM:     {Rate: 0.2, Burst: 5},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Check(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(api)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.ImportHandler != nil {
		deps.ImportHandler.RegisterRoutes(api)
	}
	if deps.ToolHandler != nil {
		deps.ToolHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup puts LLM-backed routes in a tight bucket and reads in a loose one.
func rateLimitGroup(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case path == "/api/v1/resumes/import", strings.HasPrefix(path, "/api/v1/resumes/:id/tools/"):
		return rateGroupLLM
	case c.Request.Method == http.MethodGet:
		return rateGroupRead
	default:
		return rateGroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
