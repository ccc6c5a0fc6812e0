package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsFlow(t *testing.T) {
	t.Parallel()

	s := newServer(t, nil)
	boss := s.register(t, "Boss", "boss@x.com", "secret123", "admin")
	alice := s.register(t, "Alice", "a@x.com", "secret123", "")
	bossTok := s.token(t, boss["id"].(string), "admin", "boss@x.com")
	otherTok := s.token(t, "other-admin", "admin", "other@x.com")
	aliceTok := s.token(t, alice["id"].(string), "user", "a@x.com")

	deadline := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	job := map[string]any{"title": "Backend", "department": "CSE", "requiredSkills": []string{"Go"}, "deadline": deadline}

	rec, _ := s.do(t, http.MethodPost, "/api/jobs", job, aliceTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := s.do(t, http.MethodPost, "/api/jobs", job, bossTok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	jobID := body["id"].(string)
	assert.Equal(t, "boss@x.com", body["postedBy"])

	rec, body = s.do(t, http.MethodGet, "/api/jobs?page=1&size=10", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["total"])
	assert.Equal(t, false, meta["has_next"])

	rec, _ = s.do(t, http.MethodPut, "/api/jobs/"+jobID, map[string]string{"description": "x"}, otherTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.do(t, http.MethodPut, "/api/jobs/"+jobID, map[string]string{"description": "Build APIs"}, bossTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Build APIs", body["description"])
	assert.Equal(t, "Backend", body["title"])

	rec, body = s.do(t, http.MethodPost, "/api/applications", map[string]string{"jobId": jobID, "resumeUrl": "https://cv"}, aliceTok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appID := body["id"].(string)
	assert.NotContains(t, body, "jobPostedBy")

	rec, body = s.do(t, http.MethodPost, "/api/applications", map[string]string{"jobId": jobID}, aliceTok)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "You have already applied for this job", body["message"])

	rec, _ = s.do(t, http.MethodGet, "/api/applications/me", nil, aliceTok)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 1)

	rec, _ = s.do(t, http.MethodGet, "/api/applications/admin/other@x.com", nil, bossTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/applications/admin/boss@x.com", nil, bossTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), appID)

	rec, _ = s.do(t, http.MethodPut, "/api/applications/"+appID+"/status", map[string]string{"status": "Accepted"}, aliceTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.do(t, http.MethodPut, "/api/applications/"+appID+"/status", map[string]string{"status": "Maybe"}, bossTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", body["message"])

	rec, body = s.do(t, http.MethodPut, "/api/applications/"+appID+"/status", map[string]string{"status": "Accepted"}, bossTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Accepted", body["status"])

	rec, _ = s.do(t, http.MethodPut, "/api/applications/"+appID+"/status", map[string]string{"status": "Rejected"}, bossTok)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/jobs/"+jobID, nil, otherTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.do(t, http.MethodDelete, "/api/jobs/"+jobID, nil, bossTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Job deleted successfully", body["message"])

	rec, body = s.do(t, http.MethodGet, "/api/jobs/"+jobID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found", body["message"])
}

func TestApply_ClosedJob(t *testing.T) {
	t.Parallel()

	s := newServer(t, nil)
	alice := s.register(t, "Alice", "a@x.com", "secret123", "")
	bossTok := s.token(t, "boss-id", "admin", "boss@x.com")
	aliceTok := s.token(t, alice["id"].(string), "user", "a@x.com")

	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	rec, body := s.do(t, http.MethodPost, "/api/jobs", map[string]any{"title": "Old", "deadline": past}, bossTok)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body = s.do(t, http.MethodPost, "/api/applications", map[string]string{"jobId": body["id"].(string)}, aliceTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Applications for this job are closed", body["message"])

	rec, _ = s.do(t, http.MethodPost, "/api/applications", map[string]string{}, aliceTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newServer(t, nil)
	rec, _ := s.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:  &AuthHTTP{},
		AdminHandler: &AdminHTTP{},
		JobsHandler:  &JobsHTTP{},
		JWTSecret:    testSecret,
		Store:        failingPinger{},
	})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
