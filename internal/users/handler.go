package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me returns the stored profile for signed-in users and the bare identity for guests.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	if middleware.IsGuest(c) {
		respond.OK(c, gin.H{"id": userID, "guest": true})
		return
	}
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Token is valid but the user row is missing, e.g. after a database reset.
			respond.OK(c, gin.H{
				"id":         userID,
				"email":      middleware.UserEmailFromContext(c),
				"fullName":   middleware.UserNameFromContext(c),
				"pictureUrl": middleware.UserPictureFromContext(c),
				"guest":      false,
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"fullName":   user.DisplayName(),
		"pictureUrl": user.PictureURL,
		"guest":      false,
	})
}
