package tools

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/model"
)

const maxArgsSize = 1 << 20

// Handler exposes the function schemas and runs calls against stored resumes.
type Handler struct {
	Resumes *resumes.Service
	LLM     llm.Client
}

// NewHandler constructs a Handler.
func NewHandler(resumeSvc *resumes.Service, client llm.Client) *Handler {
	return &Handler{Resumes: resumeSvc, LLM: client}
}

// RegisterRoutes attaches tool routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tools", h.list)
	rg.POST("/resumes/:id/tools/:name", h.call)
}

// CallResponse is the outcome of one function call.
type CallResponse struct {
	Function string          `json:"function"`
	Output   json.RawMessage `json:"output"`
	Updated  bool            `json:"updated"`
	Resume   *model.Resume   `json:"resume,omitempty"`
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, gin.H{"tools": Schemas()})
}

func (h *Handler) call(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := strings.TrimSpace(c.Param("id"))
	name := strings.TrimSpace(c.Param("name"))
	c.Set(middleware.ResumeIDKey, resumeID)
	c.Set(middleware.ToolNameKey, name)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxArgsSize))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read request body", nil)
		return
	}

	res, err := h.Resumes.Get(c.Request.Context(), userID, resumeID)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, resumes.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch resume", nil)
		}
		return
	}

	changed := false
	fn := NewFunctionHandler(res, func(string, any) { changed = true }, h.LLM)
	out, err := fn.Call(c.Request.Context(), name, strings.TrimSpace(string(body)))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownFunction):
			respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
		case errors.Is(err, ErrInvalidArguments):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "function call failed", nil)
		}
		return
	}

	resp := CallResponse{Function: name, Output: json.RawMessage(out)}
	if changed {
		updated, err := h.Resumes.Update(c.Request.Context(), userID, resumeID, resumes.ContentPatch(fn.Resume()))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save resume", nil)
			return
		}
		resp.Updated = true
		resp.Resume = &updated
	}
	respond.OK(c, resp)
}
