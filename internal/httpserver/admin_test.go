package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/job_portal/internal/models"
)

func (s *server) requestAdmin(t *testing.T, name, email string) string {
	t.Helper()
	rec, body := s.do(t, http.MethodPost, "/api/auth/request-admin",
		map[string]string{"name": name, "email": email, "department": "CSE"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Request submitted successfully", body["message"])
	created := body["newRequest"].(map[string]any)
	assert.Equal(t, models.StatusPending, created["status"])
	return created["id"].(string)
}

func TestRequestAdmin(t *testing.T) {
	t.Parallel()

	s := newServer(t, nil)
	s.requestAdmin(t, "Ann", "ann@x.com")

	rec, body := s.do(t, http.MethodPost, "/api/auth/request-admin",
		map[string]string{"name": "Ann", "email": "ann@x.com", "department": "CSE"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request already submitted", body["message"])

	rec, body = s.do(t, http.MethodPost, "/api/auth/request-admin", map[string]string{"name": "Bob"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields required", body["message"])
}

func TestHandleAdminRequest_OpenWithoutSuperAdmins(t *testing.T) {
	t.Parallel()

	s := newServer(t, nil)
	id := s.requestAdmin(t, "Ann", "ann@x.com")

	rec, _ := s.do(t, http.MethodGet, "/api/auth/admin-requests", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ann@x.com")

	rec, body := s.do(t, http.MethodPost, "/api/auth/handle-admin-request/"+id, map[string]string{"action": "promote"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid action", body["message"])

	rec, body = s.do(t, http.MethodPost, "/api/auth/handle-admin-request/missing", map[string]string{"action": "accept"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Request not found", body["message"])

	rec, body = s.do(t, http.MethodPost, "/api/auth/handle-admin-request/"+id, map[string]string{"action": "accept"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin approved and email sent to ann@x.com", body["message"])

	rec, body = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@x.com", "password": "Tmp12345"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", body["role"])

	rec, body = s.do(t, http.MethodPost, "/api/auth/handle-admin-request/"+id, map[string]string{"action": "reject"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Request already handled", body["message"])

	rec, _ = s.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, rec.Body.String(), `portal_admin_decisions_total{action="accept"} 1`)
}

func TestHandleAdminRequest_MessageVariants(t *testing.T) {
	t.Parallel()

	s := newServer(t, nil)
	s.register(t, "Boss", "boss@x.com", "secret123", "admin")

	id := s.requestAdmin(t, "Boss", "boss@x.com")
	rec, body := s.do(t, http.MethodPost, "/api/auth/handle-admin-request/"+id, map[string]string{"action": "accept"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User already an admin", body["message"])
	assert.Empty(t, s.mail.Messages())

	id = s.requestAdmin(t, "Rex", "rex@x.com")
	rec, body = s.do(t, http.MethodPost, "/api/auth/handle-admin-request/"+id, map[string]string{"action": "reject"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin request rejected and email sent", body["message"])

	s.mail.Err = errors.New("smtp down")
	id = s.requestAdmin(t, "Ann", "ann@x.com")
	rec, body = s.do(t, http.MethodPost, "/api/auth/handle-admin-request/"+id, map[string]string{"action": "accept"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin approved but email could not be sent to ann@x.com", body["message"])

	stored, err := s.repo.FindAdminRequestByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, stored.Status)
}

func TestSuperAdminGuard(t *testing.T) {
	t.Parallel()

	s := newServer(t, []string{superAdminEmail})
	id := s.requestAdmin(t, "Ann", "ann@x.com")
	root := s.token(t, "root-id", "user", superAdminEmail)
	someone := s.token(t, "u-1", "admin", "someone@x.com")

	rec, _ := s.do(t, http.MethodGet, "/api/auth/admin-requests", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/auth/handle-admin-request/"+id, map[string]string{"action": "accept"}, someone)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/auth/admin-requests", nil, root)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := s.do(t, http.MethodPost, "/api/superadmin/handle/"+id, map[string]string{"action": "accept"}, root)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin approved and email sent to ann@x.com", body["message"])

	rec, body = s.do(t, http.MethodGet, "/api/superadmin/requests", nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["requests"], 1)
	admins := body["admins"].([]any)
	require.Len(t, admins, 1)
	adminID := admins[0].(map[string]any)["id"].(string)

	rec, _ = s.do(t, http.MethodDelete, "/api/superadmin/delete-admin/"+adminID, nil, someone)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.do(t, http.MethodDelete, "/api/superadmin/delete-admin/"+adminID, nil, root)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin deleted successfully", body["message"])

	rec, body = s.do(t, http.MethodDelete, "/api/superadmin/delete-admin/"+adminID, nil, root)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Admin not found", body["message"])
}

func TestSuperAdminRoutesClosedWithoutList(t *testing.T) {
	t.Parallel()

	s := newServer(t, nil)
	tok := s.token(t, "u-1", "admin", "boss@x.com")

	rec, _ := s.do(t, http.MethodGet, "/api/superadmin/requests", nil, tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
