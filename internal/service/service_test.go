package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/job_portal/internal/db"
	"github.com/Skotchmaster/job_portal/internal/events"
	"github.com/Skotchmaster/job_portal/internal/google"
	"github.com/Skotchmaster/job_portal/internal/models"
	"github.com/Skotchmaster/job_portal/internal/notify"
	"github.com/Skotchmaster/job_portal/internal/repo"
	"github.com/Skotchmaster/job_portal/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

type fakeVerifier map[string]*google.Identity

func (f fakeVerifier) Verify(_ context.Context, raw string) (*google.Identity, error) {
	if id, ok := f[raw]; ok {
		return id, nil
	}
	return nil, google.ErrInvalidIDToken
}

type testEnv struct {
	repo   *repo.GormRepo
	mail   *notify.Recorder
	events *events.Recorder
	auth   *AuthService
	admin  *AdminService
	jobs   *JobService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.NewGormRepo(gdb)
	mail := &notify.Recorder{}
	ev := &events.Recorder{}

	return &testEnv{
		repo:   r,
		mail:   mail,
		events: ev,
		auth: &AuthService{
			Users:  r,
			Tokens: tokens.NewIssuer(testSecret, 7*24*time.Hour),
			Google: fakeVerifier{
				"good-token": {Subject: "g-1", Email: "Gina@Example.com", EmailVerified: true, Name: "Gina", Picture: "https://example.com/g.png"},
				"unverified": {Subject: "g-2", Email: "u@example.com"},
			},
			Mailer:    mail,
			Events:    ev,
			ClientURL: "http://localhost:3000",
		},
		admin: &AdminService{
			Users:        r,
			Requests:     r,
			Mailer:       mail,
			Events:       ev,
			TempPassword: func() (string, error) { return "Tmp12345", nil },
		},
		jobs: &JobService{
			Jobs:         r,
			Applications: r,
			Users:        r,
			Mailer:       mail,
			Events:       ev,
		},
	}
}

func (e *testEnv) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.repo.DB.Model(&models.User{}).Count(&n).Error)
	return n
}

func (e *testEnv) register(t *testing.T, name, email, password, role string) *models.PublicUser {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password, Department: "CSE", Role: role})
	require.NoError(t, err)
	return u
}

func (e *testEnv) googleUser(t *testing.T) *models.PublicUser {
	t.Helper()
	s, err := e.auth.GoogleLogin(context.Background(), "good-token")
	require.NoError(t, err)
	return &s.User
}
