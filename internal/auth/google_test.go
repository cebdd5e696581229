package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/users"
)

type recordingUpserter struct {
	got []users.User
	err error
}

func (r *recordingUpserter) UpsertFromAuth(_ context.Context, user users.User) error {
	r.got = append(r.got, user)
	return r.err
}

func newGoogleProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"123","email":"ada@example.com","name":"Ada Lovelace","given_name":"Ada","family_name":"Lovelace","picture":"https://img/ada.png"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T, provider *httptest.Server, upserter UserUpserter) (*GoogleService, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewGoogleService("client", "secret", "http://api.local/callback", "http://ui.local/done", upserter)
	if provider != nil {
		svc.oauthConfig.Endpoint = oauth2.Endpoint{
			AuthURL:  provider.URL + "/auth",
			TokenURL: provider.URL + "/token",
		}
		svc.userInfoURL = provider.URL + "/userinfo"
	}
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))
	return svc, r
}

func get(r http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

// startLogin runs /start and returns the issued state and its cookie.
func startLogin(t *testing.T, r http.Handler) (string, *http.Cookie) {
	t.Helper()
	resp := get(r, "/api/v1/auth/google/start")
	require.Equal(t, http.StatusFound, resp.Code, resp.Body.String())
	loc, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	for _, c := range resp.Result().Cookies() {
		if c.Name == stateCookie {
			return state, c
		}
	}
	t.Fatal("state cookie not set")
	return "", nil
}

func TestStartRedirectsWithStateCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, r := newTestService(t, nil, nil)

	state, cookie := startLogin(t, r)
	assert.NotEmpty(t, state)
	assert.Equal(t, state, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.NoError(t, sharedauth.VerifyState(state, time.Now()))
}

func TestStartRequiresConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewGoogleService("", "", "", "", nil)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))

	resp := get(r, "/api/v1/auth/google/start")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "auth_not_configured")
}

func TestCallbackUpsertsUserAndIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	upserter := &recordingUpserter{}
	_, r := newTestService(t, newGoogleProvider(t), upserter)
	state, cookie := startLogin(t, r)

	resp := get(r, "/api/v1/auth/google/callback?state="+url.QueryEscape(state)+"&code=abc", cookie)
	require.Equal(t, http.StatusFound, resp.Code, resp.Body.String())

	require.Len(t, upserter.got, 1)
	assert.Equal(t, users.User{
		ID:         "google:123",
		Email:      "ada@example.com",
		FullName:   "Ada Lovelace",
		GivenName:  "Ada",
		FamilyName: "Lovelace",
		PictureURL: "https://img/ada.png",
	}, upserter.got[0])

	loc, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "ui.local", loc.Host)
	claims, err := sharedauth.VerifyJWT(loc.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, "google:123", claims.Sub)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestCallbackFailsWhenUpsertFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	upserter := &recordingUpserter{err: errors.New("db down")}
	_, r := newTestService(t, newGoogleProvider(t), upserter)
	state, cookie := startLogin(t, r)

	resp := get(r, "/api/v1/auth/google/callback?state="+url.QueryEscape(state)+"&code=abc", cookie)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestCallbackRejectsBadState(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc, r := newTestService(t, newGoogleProvider(t), nil)
	state, cookie := startLogin(t, r)
	forged := &http.Cookie{Name: stateCookie, Value: "forged"}

	tests := []struct {
		target string
		cookie *http.Cookie
	}{
		{target: "/api/v1/auth/google/callback", cookie: cookie},
		{target: "/api/v1/auth/google/callback?state=" + url.QueryEscape(state) + "&code=abc"},
		{target: "/api/v1/auth/google/callback?state=forged&code=abc", cookie: forged},
		{target: "/api/v1/auth/google/callback?state=" + url.QueryEscape(state) + "&code=abc", cookie: forged},
	}
	for _, tt := range tests {
		var cookies []*http.Cookie
		if tt.cookie != nil {
			cookies = append(cookies, tt.cookie)
		}
		resp := get(r, tt.target, cookies...)
		assert.Equal(t, http.StatusBadRequest, resp.Code, tt.target)
	}

	svc.now = func() time.Time { return time.Now().Add(stateTTL + time.Minute) }
	resp := get(r, "/api/v1/auth/google/callback?state="+url.QueryEscape(state)+"&code=abc", cookie)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "expired")
}

func TestUserInfoDropsUnverifiedEmail(t *testing.T) {
	verified := false
	u := googleUserInfo{Sub: "9", Email: "x@example.com", EmailVerified: &verified}.user()
	assert.Equal(t, "google:9", u.ID)
	assert.Empty(t, u.Email)
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("http://ui.local/done?x=1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "http://ui.local/done?token=tok&x=1", got)

	_, err = appendToken("", "tok")
	assert.Error(t, err)
}
