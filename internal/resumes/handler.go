package resumes

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/merge"
	"resume-builder/resume/model"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/count", h.count)
	rg.POST("/resumes", h.createBase)
	rg.POST("/resumes/merge", h.merge)
	rg.GET("/resumes/:id", h.get)
	rg.PATCH("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
	rg.POST("/resumes/:id/tailor", h.tailor)
	rg.POST("/resumes/:id/copy", h.copy)
}

func (h *Handler) list(c *gin.Context) {
	kind, err := ParseKind(c.Query("type"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	limit := clampQuery(c, "limit", 20, 1, 100)
	offset := clampQuery(c, "offset", 0, 0, math.MaxInt32)

	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), kind, limit, offset)
	if err != nil {
		writeError(c, err, "failed to list resumes")
		return
	}
	if items == nil {
		items = []model.Resume{}
	}
	respond.OK(c, ListResponse{Resumes: items, Type: kind, Limit: limit, Offset: offset})
}

func (h *Handler) count(c *gin.Context) {
	kind, err := ParseKind(c.Query("type"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	n, err := h.Svc.Count(c.Request.Context(), middleware.UserIDFromContext(c), kind)
	if err != nil {
		writeError(c, err, "failed to count resumes")
		return
	}
	respond.OK(c, CountResponse{Type: kind, Count: n})
}

func (h *Handler) get(c *gin.Context) {
	id := resumeID(c)
	res, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err, "failed to fetch resume")
		return
	}
	respond.OK(c, res)
}

func (h *Handler) update(c *gin.Context) {
	id := resumeID(c)
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if patch.Empty() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no fields to update", nil)
		return
	}
	res, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, patch)
	if err != nil {
		writeError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, res)
}

func (h *Handler) delete(c *gin.Context) {
	id := resumeID(c)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err, "failed to delete resume")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) createBase(c *gin.Context) {
	var req createBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	option, err := ParseImportOption(req.ImportOption)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	res, err := h.Svc.CreateBase(c.Request.Context(), middleware.UserIDFromContext(c), CreateBaseInput{
		Name:       req.Name,
		TargetRole: req.TargetRole,
		Option:     option,
		Content:    req.Content,
	})
	if err != nil {
		writeError(c, err, "failed to create resume")
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)
	respond.Created(c, res)
}

func (h *Handler) tailor(c *gin.Context) {
	id := resumeID(c)
	var req createTailoredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.JobID != "" {
		c.Set(middleware.JobIDKey, req.JobID)
	}
	res, err := h.Svc.CreateTailored(c.Request.Context(), middleware.UserIDFromContext(c), id, CreateTailoredInput{
		JobID:       req.JobID,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
		Content:     req.Content,
	})
	if err != nil {
		writeError(c, err, "failed to create tailored resume")
		return
	}
	respond.Created(c, res)
}

func (h *Handler) copy(c *gin.Context) {
	id := resumeID(c)
	res, err := h.Svc.Copy(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err, "failed to copy resume")
		return
	}
	respond.Created(c, res)
}

func (h *Handler) merge(c *gin.Context) {
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	ids := make([]string, 0, len(req.ResumeIDs))
	for _, id := range req.ResumeIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeIds is required", nil)
		return
	}
	policy, err := merge.ParsePolicy(req.Policy)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	if strings.TrimSpace(req.CreateName) == "" {
		result, err := h.Svc.Merge(c.Request.Context(), userID, ids, policy)
		if err != nil {
			writeError(c, err, "failed to merge resumes")
			return
		}
		respond.OK(c, MergeResponse{Policy: policy.String(), Result: result})
		return
	}

	res, result, err := h.Svc.CreateFromMerge(c.Request.Context(), userID, ids, req.CreateName, policy)
	if err != nil {
		writeError(c, err, "failed to merge resumes")
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)
	respond.Created(c, MergeResponse{Policy: policy.String(), Result: result, Resume: &res})
}

func resumeID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.ResumeIDKey, id)
	return id
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, merge.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

// clampQuery reads an integer query parameter. Missing or malformed values give def; others
// are clamped to [lo, hi]. A limit of zero or less also gives def.
func clampQuery(c *gin.Context, key string, def, lo, hi int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || (v < lo && lo > 0) {
		return def
	}
	return min(max(v, lo), hi)
}
