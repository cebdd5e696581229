package resumes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

func newTestRouter(t *testing.T, limits Limits) (*gin.Engine, testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t, limits)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test")
		c.Next()
	})
	NewHandler(env.svc).RegisterRoutes(r.Group("/api/v1"))
	return r, env
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestHandlerCreateGetAndList(t *testing.T) {
	r, _ := newTestRouter(t, Limits{})

	resp := do(t, r, http.MethodPost, "/api/v1/resumes", map[string]any{
		"name":         "Platform",
		"importOption": "import-resume",
		"content": map[string]any{
			"first_name":      "Jane",
			"work_experience": []map[string]any{{"company": "Company A", "position": "Dev", "date": "2020"}},
		},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decode[model.Resume](t, resp)
	assert.Equal(t, "Jane", created.FirstName)

	resp = do(t, r, http.MethodGet, "/api/v1/resumes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, created.ID, decode[model.Resume](t, resp).ID)

	resp = do(t, r, http.MethodGet, "/api/v1/resumes?type=base", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[ListResponse](t, resp)
	assert.Len(t, list.Resumes, 1)
	assert.Equal(t, KindBase, list.Type)

	resp = do(t, r, http.MethodGet, "/api/v1/resumes/count?type=tailored", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, decode[CountResponse](t, resp).Count)
}

func TestHandlerValidationErrors(t *testing.T) {
	r, _ := newTestRouter(t, Limits{})

	resp := do(t, r, http.MethodGet, "/api/v1/resumes?type=draft", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "validation_error")

	resp = do(t, r, http.MethodPost, "/api/v1/resumes", map[string]any{"name": "X", "importOption": "scan"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(t, r, http.MethodPost, "/api/v1/resumes/merge", map[string]any{"resumeIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(t, r, http.MethodPost, "/api/v1/resumes/merge", map[string]any{"resumeIds": []string{"a"}, "policy": "random"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(t, r, http.MethodGet, "/api/v1/resumes/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "not_found")
}

func TestHandlerPatchAndDelete(t *testing.T) {
	r, _ := newTestRouter(t, Limits{})
	resp := do(t, r, http.MethodPost, "/api/v1/resumes", map[string]any{"name": "Base", "importOption": "fresh"})
	require.Equal(t, http.StatusCreated, resp.Code)
	created := decode[model.Resume](t, resp)

	resp = do(t, r, http.MethodPatch, "/api/v1/resumes/"+created.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(t, r, http.MethodPatch, "/api/v1/resumes/"+created.ID, map[string]any{
		"name":   "Renamed",
		"skills": []map[string]any{{"category": "Languages", "items": []string{"Go"}}},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	updated := decode[model.Resume](t, resp)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Len(t, updated.Skills, 1)

	resp = do(t, r, http.MethodDelete, "/api/v1/resumes/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = do(t, r, http.MethodDelete, "/api/v1/resumes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandlerTailorCopyAndLimit(t *testing.T) {
	r, _ := newTestRouter(t, Limits{MaxBase: 1})
	resp := do(t, r, http.MethodPost, "/api/v1/resumes", map[string]any{"name": "Base", "importOption": "fresh"})
	require.Equal(t, http.StatusCreated, resp.Code)
	base := decode[model.Resume](t, resp)

	resp = do(t, r, http.MethodPost, "/api/v1/resumes/"+base.ID+"/tailor", map[string]any{
		"jobId":       "job-1",
		"jobTitle":    "SRE",
		"companyName": "Hooli",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "SRE at Hooli", decode[model.Resume](t, resp).Name)

	resp = do(t, r, http.MethodPost, "/api/v1/resumes/"+base.ID+"/copy", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Contains(t, resp.Body.String(), "limit_reached")
}

func TestHandlerMerge(t *testing.T) {
	r, env := newTestRouter(t, Limits{})
	a, err := env.svc.CreateBase(t.Context(), "guest:test", CreateBaseInput{Name: "A", Option: ImportResume, Content: sampleContent()})
	require.NoError(t, err)
	b, err := env.svc.Copy(t.Context(), "guest:test", a.ID)
	require.NoError(t, err)

	resp := do(t, r, http.MethodPost, "/api/v1/resumes/merge", map[string]any{"resumeIds": []string{a.ID, b.ID}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	merged := decode[MergeResponse](t, resp)
	assert.Equal(t, "content", merged.Policy)
	assert.Len(t, merged.Result.WorkExperience, 1)
	assert.Nil(t, merged.Resume)

	resp = do(t, r, http.MethodPost, "/api/v1/resumes/merge", map[string]any{
		"resumeIds":  []string{a.ID, b.ID},
		"createName": "Combined",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	merged = decode[MergeResponse](t, resp)
	require.NotNil(t, merged.Resume)
	assert.Equal(t, "Combined", merged.Resume.Name)

	resp = do(t, r, http.MethodPost, "/api/v1/resumes/merge", map[string]any{
		"resumeIds": []string{a.ID, b.ID},
		"policy":    "lineage",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
