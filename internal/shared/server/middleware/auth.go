package middleware

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
)

const (
	userIDKey      = "userId"
	userEmailKey   = "userEmail"
	userNameKey    = "userName"
	userPictureKey = "userPicture"
	isGuestKey     = "isGuest"

	// GuestPrefix namespaces guest ids so they never collide with provider subjects.
	GuestPrefix = "guest:"
)

var guestIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type identity struct {
	id      string
	email   string
	name    string
	picture string
	guest   bool
}

type authFailure struct {
	message string
}

// Auth resolves the caller from a Bearer token or, without one, from the X-Guest-Id header.
// Public paths and CORS preflights pass through without identity.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		var (
			id   identity
			fail *authFailure
		)
		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			id, fail = fromBearer(header)
		} else {
			id, fail = fromGuestHeader(c.GetHeader("X-Guest-Id"))
		}
		if fail != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", fail.message, nil)
			return
		}

		c.Set(userIDKey, id.id)
		setIfPresent(c, userEmailKey, id.email)
		setIfPresent(c, userNameKey, id.name)
		setIfPresent(c, userPictureKey, id.picture)
		c.Set(isGuestKey, id.guest)
		c.Next()
	}
}

func fromBearer(header string) (identity, *authFailure) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return identity{}, &authFailure{message: "missing or invalid token"}
	}
	claims, err := auth.VerifyJWT(token)
	if errors.Is(err, auth.ErrExpiredToken) {
		return identity{}, &authFailure{message: "token expired"}
	}
	if err != nil {
		return identity{}, &authFailure{message: "missing or invalid token"}
	}
	return identity{id: claims.Sub, email: claims.Email, name: claims.Name, picture: claims.Picture}, nil
}

func fromGuestHeader(raw string) (identity, *authFailure) {
	guestID := strings.TrimSpace(raw)
	if guestID == "" {
		return identity{}, &authFailure{message: "Missing identity"}
	}
	if !guestIDPattern.MatchString(guestID) {
		return identity{}, &authFailure{message: "invalid guest id"}
	}
	return identity{id: GuestPrefix + guestID, guest: true}, nil
}

func setIfPresent(c *gin.Context, key, value string) {
	if value != "" {
		c.Set(key, value)
	}
}

func isPublicPath(path string) bool {
	switch path {
	case "/api/v1/health", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/api/v1/auth/google/")
}

// IsGuest reports whether the caller authenticated with a guest header.
func IsGuest(c *gin.Context) bool {
	return c != nil && c.GetBool(isGuestKey)
}

// UserIDFromContext returns the caller id set by Auth.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// UserEmailFromContext returns the token email, if any.
func UserEmailFromContext(c *gin.Context) string {
	return contextString(c, userEmailKey)
}

// UserNameFromContext returns the token display name, if any.
func UserNameFromContext(c *gin.Context) string {
	return contextString(c, userNameKey)
}

// UserPictureFromContext returns the token picture URL, if any.
func UserPictureFromContext(c *gin.Context) string {
	return contextString(c, userPictureKey)
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	return c.GetString(key)
}
