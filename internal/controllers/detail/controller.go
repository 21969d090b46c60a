// Package detail owns the state of a single application's view: the loaded record,
// the rating form visibility, and the status, rating and delete actions.
package detail

import (
	"context"
	"fmt"
	"strings"
	"sync"

	apperrors "application-admin/internal/common/errors"
	"application-admin/internal/common/logger"
	"application-admin/internal/controllers"
	"application-admin/internal/models"
)

// Service is the subset of the remote client the detail view uses.
type Service interface {
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Acknowledgement, error)
	UpdateRating(ctx context.Context, id string, rating int, comment *string) (*models.Acknowledgement, error)
	DeleteApplication(ctx context.Context, id string) (*models.Acknowledgement, error)
}

type Options struct {
	Service   Service
	Confirmer controllers.Confirmer
	Notifier  controllers.Notifier
	Logger    logger.Logger
}

type Controller struct {
	svc     Service
	confirm controllers.Confirmer
	notify  controllers.Notifier
	log     logger.Logger
	errs    *apperrors.ErrorHandler

	mu                sync.Mutex
	id                string
	app               *models.Application
	loadErr           error
	ratingFormVisible bool
	deleted           bool
}

// ActionDelete names the delete action in confirmation errors.
const ActionDelete = "delete"

var errNotLoaded = apperrors.New("no application loaded")

func New(opts Options) *Controller {
	confirm := opts.Confirmer
	if confirm == nil {
		confirm = controllers.AlwaysConfirm
	}
	notify := opts.Notifier
	if notify == nil {
		notify = controllers.DiscardNotices
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"component": "detail"})
	return &Controller{
		svc:     opts.Service,
		confirm: confirm,
		notify:  notify,
		log:     log,
		errs:    apperrors.NewErrorHandler(log),
	}
}

// Load fetches id. A failure is kept for Error() rather than notified.
func (c *Controller) Load(ctx context.Context, id string) error {
	app, err := c.svc.GetApplication(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
	c.loadErr = err
	c.deleted = false
	if err != nil {
		c.app = nil
		return err
	}
	c.app = app
	return nil
}

// Application returns a copy of the loaded record, or nil.
func (c *Controller) Application() *models.Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.app == nil {
		return nil
	}
	out := *c.app
	return &out
}

func (c *Controller) Error() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

func (c *Controller) Deleted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleted
}

func (c *Controller) RatingFormVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ratingFormVisible
}

func (c *Controller) OpenRatingForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ratingFormVisible = true
}

func (c *Controller) CloseRatingForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ratingFormVisible = false
}

// ChangeStatus asks the backend for a new status. The displayed status only
// changes after the backend acknowledges; on failure the user is notified and the
// previous status stays.
func (c *Controller) ChangeStatus(ctx context.Context, status models.Status) error {
	id, err := c.loadedID()
	if err != nil {
		return err
	}

	ack, err := c.svc.UpdateStatus(ctx, id, status)
	if err != nil {
		return c.fail("status change", id, err)
	}

	if ack.Application != nil {
		c.setApplication(ack.Application)
		return nil
	}
	c.reload(ctx, id, func(app *models.Application) { app.Status = status })
	return nil
}

// SubmitRating saves a 1..5 rating with an optional comment. On success the form
// closes; on failure it stays open and the user is notified.
func (c *Controller) SubmitRating(ctx context.Context, rating int, comment string) error {
	id, err := c.loadedID()
	if err != nil {
		return err
	}
	if rating < 1 || rating > 5 {
		return c.fail("rating", id,
			apperrors.NewInvalidRatingError(fmt.Sprintf("rating: must be between 1 and 5, got %d", rating)))
	}

	var commentPtr *string
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		commentPtr = &trimmed
	}

	if _, err := c.svc.UpdateRating(ctx, id, rating, commentPtr); err != nil {
		return c.fail("rating", id, err)
	}

	c.CloseRatingForm()
	c.reload(ctx, id, func(app *models.Application) {
		app.Rating = &rating
		app.RatingComment = commentPtr
	})
	return nil
}

// Delete removes the loaded application after confirmation.
func (c *Controller) Delete(ctx context.Context) error {
	id, err := c.loadedID()
	if err != nil {
		return err
	}

	ok, err := c.confirm.Confirm(ctx, fmt.Sprintf("Delete application %s?", id))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewConfirmationDeclinedError(ActionDelete)
	}

	if _, err := c.svc.DeleteApplication(ctx, id); err != nil {
		return c.fail(ActionDelete, id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.app = nil
	c.deleted = true
	c.ratingFormVisible = false
	return nil
}

func (c *Controller) loadedID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.app == nil {
		return "", errNotLoaded
	}
	return c.id, nil
}

func (c *Controller) setApplication(app *models.Application) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := *app
	c.app = &out
}

// reload refetches after an acknowledged mutation. If the refetch fails, the
// acknowledged change is applied to the local copy instead.
func (c *Controller) reload(ctx context.Context, id string, apply func(*models.Application)) {
	app, err := c.svc.GetApplication(ctx, id)
	if err == nil {
		c.setApplication(app)
		return
	}

	c.log.Warn("reload after update failed", map[string]interface{}{"applicationId": id, "error": err})
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.app != nil {
		updated := *c.app
		apply(&updated)
		c.app = &updated
	}
}

func (c *Controller) fail(action, id string, err error) error {
	c.notify.Notify(c.errs.HandleActionError(action, id, err))
	return err
}
