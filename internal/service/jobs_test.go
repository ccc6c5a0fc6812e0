package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/job_portal/internal/events"
	"github.com/Skotchmaster/job_portal/internal/models"
)

func TestJobService_CreateListGet(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.jobs.CreateJob(ctx, "boss@x.com", JobInput{Title: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, title := range []string{"Backend", "Frontend", "Data"} {
		_, err := env.jobs.CreateJob(ctx, "Boss@X.com", JobInput{
			Title:          title,
			Department:     "CSE",
			RequiredSkills: []string{"Go", " go ", "", "SQL"},
		})
		require.NoError(t, err)
	}

	page, err := env.jobs.ListJobs(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 2)

	job, err := env.jobs.GetJob(ctx, page.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "boss@x.com", job.PostedBy)
	assert.Equal(t, []string{"Go", "SQL"}, job.RequiredSkills)

	_, err = env.jobs.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, env.events.Types(), events.TypeJobPosted)
}

func TestJobService_UpdateAndDelete_OwnerOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	job, err := env.jobs.CreateJob(ctx, "boss@x.com", JobInput{Title: "Backend", Description: "old"})
	require.NoError(t, err)

	desc := "new"
	_, err = env.jobs.UpdateJob(ctx, "other@x.com", job.ID, JobPatch{Description: &desc})
	assert.ErrorIs(t, err, ErrForbidden)

	empty := ""
	_, err = env.jobs.UpdateJob(ctx, "boss@x.com", job.ID, JobPatch{Title: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := env.jobs.UpdateJob(ctx, "boss@x.com", job.ID, JobPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, "Backend", updated.Title)

	assert.ErrorIs(t, env.jobs.DeleteJob(ctx, "other@x.com", job.ID), ErrForbidden)
	require.NoError(t, env.jobs.DeleteJob(ctx, "boss@x.com", job.ID))
	_, err = env.jobs.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobService_Apply(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.jobs.Now = func() time.Time { return now }

	u := env.register(t, "Alice", "a@x.com", "secret123", "user")
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)

	open, err := env.jobs.CreateJob(ctx, "boss@x.com", JobInput{Title: "Open", Deadline: &future})
	require.NoError(t, err)
	closed, err := env.jobs.CreateJob(ctx, "boss@x.com", JobInput{Title: "Closed", Deadline: &past})
	require.NoError(t, err)

	app, err := env.jobs.Apply(ctx, u.ID, open.ID, " https://cv.example.com/alice.pdf ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "Open", app.JobTitle)
	assert.Equal(t, "https://cv.example.com/alice.pdf", app.ResumeURL)

	_, err = env.jobs.Apply(ctx, u.ID, open.ID, "")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.jobs.Apply(ctx, u.ID, closed.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.jobs.Apply(ctx, u.ID, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := env.jobs.MyApplications(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, app.ID, mine[0].ID)
}

func TestJobService_UpdateApplicationStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "Alice", "a@x.com", "secret123", "user")

	job, err := env.jobs.CreateJob(ctx, "boss@x.com", JobInput{Title: "Backend"})
	require.NoError(t, err)
	app, err := env.jobs.Apply(ctx, u.ID, job.ID, "")
	require.NoError(t, err)

	forBoss, err := env.jobs.ApplicationsForAdmin(ctx, "boss@x.com")
	require.NoError(t, err)
	require.Len(t, forBoss, 1)

	forOther, err := env.jobs.ApplicationsForAdmin(ctx, "other@x.com")
	require.NoError(t, err)
	assert.Empty(t, forOther)

	_, err = env.jobs.UpdateApplicationStatus(ctx, "boss@x.com", app.ID, models.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.jobs.UpdateApplicationStatus(ctx, "other@x.com", app.ID, models.StatusAccepted)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.jobs.UpdateApplicationStatus(ctx, "boss@x.com", "missing", models.StatusAccepted)
	assert.ErrorIs(t, err, ErrNotFound)

	decided, err := env.jobs.UpdateApplicationStatus(ctx, "boss@x.com", app.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, decided.Status)

	_, err = env.jobs.UpdateApplicationStatus(ctx, "boss@x.com", app.ID, models.StatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyHandled)

	msgs := env.mail.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "a@x.com", msgs[0].To)
	assert.Contains(t, msgs[0].HTML, "accepted")
}

func TestJobService_DeleteJobRemovesApplications(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "Alice", "a@x.com", "secret123", "user")

	job, err := env.jobs.CreateJob(ctx, "boss@x.com", JobInput{Title: "Backend"})
	require.NoError(t, err)
	_, err = env.jobs.Apply(ctx, u.ID, job.ID, "")
	require.NoError(t, err)

	require.NoError(t, env.jobs.DeleteJob(ctx, "boss@x.com", job.ID))

	mine, err := env.jobs.MyApplications(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestCleanSkills(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, cleanSkills(nil))
	assert.Equal(t, []string{"Go", "Rust"}, cleanSkills([]string{" Go", "GO", "Rust", "  "}))
}
