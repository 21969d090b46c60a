// Package client is the data access layer for the applications dashboard backend.
// Reads go through a tagged cache; successful mutations invalidate the tags their
// result depends on so the next read refetches.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"application-admin/internal/common/cache"
	apperrors "application-admin/internal/common/errors"
	apphttp "application-admin/internal/common/http"
	"application-admin/internal/common/logger"
	"application-admin/internal/common/observability"
	"application-admin/internal/common/validation"
	"application-admin/internal/models"
	"application-admin/internal/transform"
)

const basePath = "/dashboard/applications"

// Operation names used for logs, spans and metric labels.
const (
	OpListApplications  = "listApplications"
	OpGetApplication    = "getApplication"
	OpUpdateStatus      = "updateStatus"
	OpUpdateRating      = "updateRating"
	OpDeleteApplication = "deleteApplication"
)

type Options struct {
	HTTP          *apphttp.Client
	Cache         cache.Store
	Logger        logger.Logger
	Observability *observability.Observability
}

// Client issues the five dashboard operations.
type Client struct {
	http  *apphttp.Client
	cache cache.Store
	log   logger.Logger
	obs   *observability.Observability
}

func New(opts Options) *Client {
	store := opts.Cache
	if store == nil {
		store = cache.NewMemoryStore(0)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	obs := opts.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Client{
		http:  opts.HTTP,
		cache: store,
		log:   log.WithFields(map[string]interface{}{"component": "client"}),
		obs:   obs,
	}
}

// ListApplications fetches one page. Empty filter values are left out of the query.
func (c *Client) ListApplications(ctx context.Context, filters models.ListFilters) (*models.ListResult, error) {
	query, err := listQuery(filters)
	if err != nil {
		return nil, err
	}
	key := "list?" + query.Encode()

	var result models.ListResult
	if c.cached(ctx, key, &result) {
		return &result, nil
	}

	err = c.observe(ctx, OpListApplications, "", func(ctx context.Context) error {
		var env listEnvelope
		if _, err := c.http.DoJSON(ctx, apphttp.Request{
			Operation: OpListApplications,
			Method:    http.MethodGet,
			Path:      basePath,
			Query:     query,
		}, &env); err != nil {
			return err
		}
		if !env.Success {
			return unsuccessful(OpListApplications, env.Message)
		}
		result = models.ListResult{
			Applications: transform.Applications(env.Data),
			Pagination:   transform.Pagination(env.Pagination),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, result, cache.TagApplicationList)
	return &result, nil
}

// GetApplication fetches a single record. A 404 or an empty payload is NotFound.
func (c *Client) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	key := "detail:" + id

	var app models.Application
	if c.cached(ctx, key, &app) {
		return &app, nil
	}

	err := c.observe(ctx, OpGetApplication, id, func(ctx context.Context) error {
		var env recordEnvelope
		status, err := c.http.DoJSON(ctx, apphttp.Request{
			Operation: OpGetApplication,
			Method:    http.MethodGet,
			Path:      recordPath(id),
		}, &env)
		if status == http.StatusNotFound {
			return apperrors.NewNotFoundError(id)
		}
		if err != nil {
			return err
		}
		if env.Data == nil {
			if env.Success || env.Message == "" {
				return apperrors.NewNotFoundError(id)
			}
			return unsuccessful(OpGetApplication, env.Message)
		}
		app = transform.Application(*env.Data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, app, cache.ApplicationTag(id))
	return &app, nil
}

// UpdateStatus sets the review status. draft cannot be set.
func (c *Client) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Acknowledgement, error) {
	body := statusBody{Status: status}
	res, err := validation.StatusUpdateSchema.Validate(body)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, apperrors.NewInvalidStatusError(string(status))
	}

	return c.mutate(ctx, OpUpdateStatus, id, http.MethodPut, recordPath(id)+"/status", body,
		cache.ApplicationTag(id), cache.TagApplicationList)
}

// UpdateRating stores a 1..5 rating with an optional comment.
func (c *Client) UpdateRating(ctx context.Context, id string, rating int, comment *string) (*models.Acknowledgement, error) {
	body := ratingBody{Rating: rating, RatingComment: comment}
	res, err := validation.RatingUpdateSchema.Validate(body)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, apperrors.NewInvalidRatingError(res.Summary())
	}

	return c.mutate(ctx, OpUpdateRating, id, http.MethodPut, recordPath(id)+"/rating", body,
		cache.ApplicationTag(id), cache.TagApplicationList)
}

// DeleteApplication removes a record. Only the list tag is invalidated; a cached
// detail entry for the id lapses with its TTL.
func (c *Client) DeleteApplication(ctx context.Context, id string) (*models.Acknowledgement, error) {
	return c.mutate(ctx, OpDeleteApplication, id, http.MethodDelete, recordPath(id), nil,
		cache.TagApplicationList)
}

func (c *Client) mutate(ctx context.Context, op, id, method, path string, body interface{}, tags ...string) (*models.Acknowledgement, error) {
	var ack *models.Acknowledgement
	err := c.observe(ctx, op, id, func(ctx context.Context) error {
		var env ackEnvelope
		status, err := c.http.DoJSON(ctx, apphttp.Request{
			Operation: op,
			Method:    method,
			Path:      path,
			Body:      body,
		}, &env)
		if status == http.StatusNotFound {
			return apperrors.NewNotFoundError(id)
		}
		if err != nil {
			return err
		}
		ack = env.acknowledgement(status)
		if !ack.Success {
			return unsuccessful(op, ack.Message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Invalidate(ctx, tags...); err != nil {
		// The mutation already happened; a stale read is the worst case.
		c.log.Warn("cache invalidation failed", map[string]interface{}{
			"operation": op, "applicationId": id, "tags": tags, "error": err,
		})
	}
	return ack, nil
}

func (c *Client) observe(ctx context.Context, op, id string, fn func(context.Context) error) error {
	fields := map[string]interface{}{"operation": op}
	if id != "" {
		fields["applicationId"] = id
	}
	c.log.Debug("request started", fields)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)
	c.obs.RecordOperation(ctx, op, duration, err)

	fields["durationMs"] = duration.Milliseconds()
	if err != nil {
		fields["error"] = err
		var stdErr *apperrors.StandardError
		if apperrors.As(err, &stdErr) {
			if reqID, ok := stdErr.Metadata["requestId"]; ok {
				fields["requestId"] = reqID
			}
		}
		c.log.Error("request failed", fields)
		return err
	}
	c.log.Info("request completed", fields)
	return nil
}

func (c *Client) cached(ctx context.Context, key string, out interface{}) bool {
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("cache entry unreadable", map[string]interface{}{"key": key, "error": err})
		return false
	}
	return true
}

func (c *Client) store(ctx context.Context, key string, value interface{}, tags ...string) {
	raw, err := json.Marshal(value)
	if err == nil {
		err = c.cache.Set(ctx, key, raw, tags...)
	}
	if err != nil {
		c.log.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func listQuery(f models.ListFilters) (url.Values, error) {
	if f.Status != "" && !f.Status.IsSettable() {
		return nil, apperrors.NewInvalidFilterError(fmt.Sprintf("status: %q", f.Status))
	}
	if f.Page < 0 {
		return nil, apperrors.NewInvalidFilterError(fmt.Sprintf("page: %d", f.Page))
	}

	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.DepartmentID != "" {
		q.Set("department_id", f.DepartmentID)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q, nil
}

func recordPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func unsuccessful(op, message string) error {
	if message == "" {
		message = "backend reported failure"
	}
	return apperrors.NewNetworkOrServerError(op, 0, apperrors.New(message)).
		WithMetadata("unsuccessful", true)
}
