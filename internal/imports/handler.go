package imports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches import routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/import", h.upload)
	rg.GET("/imports/:id", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds 10MB", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	result, err := h.Svc.Import(c.Request.Context(), Upload{
		UserID:    middleware.UserIDFromContext(c),
		Name:      c.PostForm("name"),
		FileName:  fileHeader.Filename,
		RequestID: middleware.RequestIDFromContext(c),
		Body:      file,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Resume == nil {
		respond.JSON(c, http.StatusAccepted, result)
		return
	}
	c.Set(middleware.ResumeIDKey, result.Resume.ID)
	respond.Created(c, result)
}

func (h *Handler) get(c *gin.Context) {
	imp, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if imp.ResumeID != "" {
		c.Set(middleware.ResumeIDKey, imp.ResumeID)
	}
	respond.OK(c, imp)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "import not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedType), errors.Is(err, resumes.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, resumes.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", err.Error(), nil)
	case errors.Is(err, llm.ErrNotImplemented):
		respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable", "resume import requires an LLM provider", nil)
	case errors.Is(err, llm.ErrInvalidJSON):
		respond.Error(c, http.StatusBadGateway, "llm_error", "could not structure resume", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import resume", nil)
	}
}
