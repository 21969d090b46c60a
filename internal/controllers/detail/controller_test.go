package detail

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"application-admin/internal/client"
	"application-admin/internal/common/cache"
	apperrors "application-admin/internal/common/errors"
	apphttp "application-admin/internal/common/http"
	"application-admin/internal/common/logger"
	"application-admin/internal/controllers"
	"application-admin/internal/models"
	"application-admin/internal/testutil/fakebackend"
)

type notices struct{ messages []string }

func (n *notices) Notify(message string) { n.messages = append(n.messages, message) }

func setup(t *testing.T, confirm controllers.Confirmer) (*Controller, *fakebackend.Server, *notices) {
	t.Helper()
	rating := 2
	srv := fakebackend.New(models.BackendRecord{
		ID:         "42",
		UserID:     "u-1",
		UserName:   "Noor",
		Department: models.FullDepartment("7", "Research"),
		Status:     "draft",
		Rating:     &rating,
		FormData: []models.BackendStep{
			{StepID: "intro", StepTitle: "Introduction", Data: map[string]interface{}{"motivation": "curiosity"}, Completed: true},
		},
	})
	t.Cleanup(srv.Close)

	remote := client.New(client.Options{
		HTTP:   apphttp.NewClient(apphttp.Options{BaseURL: srv.URL, Timeout: 2 * time.Second}),
		Cache:  cache.NewMemoryStore(time.Minute),
		Logger: logger.NewTestLogger(t),
	})
	n := &notices{}
	c := New(Options{Service: remote, Confirmer: confirm, Notifier: n, Logger: logger.NewTestLogger(t)})
	return c, srv, n
}

func TestLoad(t *testing.T) {
	c, _, _ := setup(t, nil)

	require.NoError(t, c.Load(context.Background(), "42"))
	app := c.Application()
	require.NotNil(t, app)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "7", app.DepartmentID)
	assert.Len(t, app.Steps, 1)
	assert.NoError(t, c.Error())
}

func TestLoad_NotFound(t *testing.T) {
	c, _, n := setup(t, nil)

	err := c.Load(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperrors.Is(c.Error(), apperrors.ErrNotFound))
	assert.Nil(t, c.Application())
	assert.Empty(t, n.messages, "load failures render inline, not as a notice")
}

func TestActionsRequireLoad(t *testing.T) {
	c, _, _ := setup(t, nil)
	assert.Error(t, c.ChangeStatus(context.Background(), models.StatusApproved))
	assert.Error(t, c.SubmitRating(context.Background(), 3, ""))
	assert.Error(t, c.Delete(context.Background()))
}

func TestChangeStatus(t *testing.T) {
	c, srv, n := setup(t, nil)
	require.NoError(t, c.Load(context.Background(), "42"))

	require.NoError(t, c.ChangeStatus(context.Background(), models.StatusApproved))
	assert.Equal(t, models.StatusApproved, c.Application().Status)
	assert.Empty(t, n.messages)

	rec, _ := srv.Record("42")
	assert.Equal(t, "approved", rec.Status)
}

func TestChangeStatus_FailureKeepsStatus(t *testing.T) {
	c, srv, n := setup(t, nil)
	require.NoError(t, c.Load(context.Background(), "42"))
	srv.Fail(fakebackend.OpStatus, "42", http.StatusServiceUnavailable, "maintenance")

	err := c.ChangeStatus(context.Background(), models.StatusRejected)
	require.Error(t, err)
	assert.Equal(t, models.StatusPending, c.Application().Status)
	assert.Equal(t, []string{"Request failed. Please try again."}, n.messages)
}

func TestSubmitRating_ClosesForm(t *testing.T) {
	c, srv, n := setup(t, nil)
	require.NoError(t, c.Load(context.Background(), "42"))
	c.OpenRatingForm()
	require.True(t, c.RatingFormVisible())

	require.NoError(t, c.SubmitRating(context.Background(), 5, "  Excellent fit  "))
	assert.False(t, c.RatingFormVisible())
	assert.Empty(t, n.messages)

	app := c.Application()
	require.NotNil(t, app.Rating)
	assert.Equal(t, 5, *app.Rating)
	require.NotNil(t, app.RatingComment)
	assert.Equal(t, "Excellent fit", *app.RatingComment)
	assert.Equal(t, 2, srv.Count(fakebackend.OpGet), "detail refetched after invalidation")
}

func TestSubmitRating_FailureKeepsFormOpen(t *testing.T) {
	c, srv, n := setup(t, nil)
	require.NoError(t, c.Load(context.Background(), "42"))
	c.OpenRatingForm()
	srv.Fail(fakebackend.OpRating, "42", http.StatusInternalServerError, "boom")

	require.Error(t, c.SubmitRating(context.Background(), 4, ""))
	assert.True(t, c.RatingFormVisible())
	assert.Len(t, n.messages, 1)
	assert.Equal(t, 2, *c.Application().Rating)
}

func TestSubmitRating_OutOfRange(t *testing.T) {
	c, srv, n := setup(t, nil)
	require.NoError(t, c.Load(context.Background(), "42"))
	c.OpenRatingForm()

	err := c.SubmitRating(context.Background(), 6, "too generous")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRating))
	assert.True(t, c.RatingFormVisible())
	assert.Equal(t, []string{"Invalid rating"}, n.messages)
	assert.Zero(t, srv.Count(fakebackend.OpRating))
}

func TestDelete(t *testing.T) {
	c, srv, _ := setup(t, nil)
	require.NoError(t, c.Load(context.Background(), "42"))

	require.NoError(t, c.Delete(context.Background()))
	assert.True(t, c.Deleted())
	assert.Nil(t, c.Application())
	_, exists := srv.Record("42")
	assert.False(t, exists)
}

func TestDelete_Declined(t *testing.T) {
	c, srv, _ := setup(t, controllers.ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil }))
	require.NoError(t, c.Load(context.Background(), "42"))

	err := c.Delete(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.ErrConfirmationDeclined))
	assert.False(t, c.Deleted())
	assert.Zero(t, srv.Count(fakebackend.OpDelete))
}

type flakyService struct {
	Service
	gets int
}

func (f *flakyService) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	f.gets++
	if f.gets > 1 {
		return nil, errors.New("timeout")
	}
	return &models.Application{ID: id, Status: models.StatusPending}, nil
}

func (f *flakyService) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Acknowledgement, error) {
	return &models.Acknowledgement{Success: true}, nil
}

func (f *flakyService) UpdateRating(ctx context.Context, id string, rating int, comment *string) (*models.Acknowledgement, error) {
	return &models.Acknowledgement{Success: true}, nil
}

func TestAcknowledgedChangeSurvivesFailedReload(t *testing.T) {
	svc := &flakyService{}
	c := New(Options{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, c.Load(context.Background(), "9"))

	require.NoError(t, c.ChangeStatus(context.Background(), models.StatusRejected))
	assert.Equal(t, models.StatusRejected, c.Application().Status)

	require.NoError(t, c.SubmitRating(context.Background(), 3, ""))
	assert.Equal(t, 3, *c.Application().Rating)
	assert.Nil(t, c.Application().RatingComment)
}
