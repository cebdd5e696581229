// Package auth implements Google sign-in. A successful callback stores the user and
// redirects to the UI with a session token in the query string.
package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 5 * time.Minute
	googleIDNS  = "google:"
)

// UserUpserter persists the signed-in user.
type UserUpserter interface {
	UpsertFromAuth(ctx context.Context, user users.User) error
}

// GoogleService serves /auth/google/start and /auth/google/callback.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	users       UserUpserter
	userInfoURL string
	now         func() time.Time
}

// NewGoogleService builds the service. Empty client settings make the start route answer
// auth_not_configured.
func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, upserter UserUpserter) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		uiRedirect:  uiRedirect,
		users:       upserter,
		userInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
		now:         time.Now,
	}
}

// RegisterRoutes attaches the Google routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	c := s.oauthConfig
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}
	state, err := sharedauth.NewState(s.now().Add(stateTTL))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start login", nil)
		return
	}
	// The cookie binds the state to this browser.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int(stateTTL/time.Second), "/api/v1/auth/google/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

func (s *GoogleService) callback(c *gin.Context) {
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	cookie, _ := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, "/api/v1/auth/google/", "", c.Request.TLS != nil, true)
	if cookie != state {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "state does not match this browser", nil)
		return
	}
	if err := sharedauth.VerifyState(state, s.now()); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}
	info, err := fetchUserInfo(ctx, s.oauthConfig.Client(ctx, token), s.userInfoURL)
	if err != nil {
		telemetry.Warn("auth.userinfo_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	user := info.user()
	if err := s.saveUser(ctx, user); err != nil {
		telemetry.Error("auth.user_upsert_failed", map[string]any{"user_id": user.ID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save user", nil)
		return
	}

	jwt, err := sharedauth.SignJWT(sharedauth.Claims{Sub: user.ID, Email: user.Email, Name: user.FullName, Picture: user.PictureURL})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	target, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	telemetry.Info("auth.login", map[string]any{"user_id": user.ID})
	c.Redirect(http.StatusFound, target)
}

// saveUser skips users without an email; the token is still issued from the provider id.
func (s *GoogleService) saveUser(ctx context.Context, user users.User) error {
	if s.users == nil || user.Email == "" {
		return nil
	}
	return s.users.UpsertFromAuth(ctx, user)
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
