package list

import (
	"context"
	"fmt"
	"sort"
	"sync"

	apperrors "application-admin/internal/common/errors"
	"application-admin/internal/common/metrics"
	"application-admin/internal/models"
)

// Bulk action names.
const (
	ActionDelete = "delete"
	ActionStatus = "status change"
)

// BatchResult is the outcome of a best-effort bulk action. Items that succeeded
// stay applied when others fail.
type BatchResult struct {
	Action    string
	Total     int
	Succeeded []string
	Failed    map[string]error
}

func (r *BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// FailedIDs returns the failed ids, sorted.
func (r *BatchResult) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BulkDelete asks for confirmation, then deletes every selected id concurrently.
// A declined prompt changes nothing. Otherwise the selection is cleared once the
// batch settles and a single notice is shown if any item failed.
func (c *Controller) BulkDelete(ctx context.Context) (*BatchResult, error) {
	ids := c.Selected()
	if len(ids) == 0 {
		return &BatchResult{Action: ActionDelete, Failed: map[string]error{}}, nil
	}

	ok, err := c.confirm.Confirm(ctx, fmt.Sprintf("Delete %d selected application(s)?", len(ids)))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConfirmationDeclinedError(ActionDelete)
	}

	return c.runBulk(ctx, ActionDelete, ids, func(ctx context.Context, id string) error {
		_, err := c.svc.DeleteApplication(ctx, id)
		return err
	})
}

// BulkUpdateStatus sets status on every selected id concurrently, with the same
// failure policy as BulkDelete.
func (c *Controller) BulkUpdateStatus(ctx context.Context, status models.Status) (*BatchResult, error) {
	if !status.IsSettable() {
		return nil, apperrors.NewInvalidStatusError(string(status))
	}
	ids := c.Selected()
	if len(ids) == 0 {
		return &BatchResult{Action: ActionStatus, Failed: map[string]error{}}, nil
	}

	return c.runBulk(ctx, ActionStatus, ids, func(ctx context.Context, id string) error {
		_, err := c.svc.UpdateStatus(ctx, id, status)
		return err
	})
}

func (c *Controller) runBulk(ctx context.Context, action string, ids []string, apply func(context.Context, string) error) (*BatchResult, error) {
	result := c.fanOut(ctx, action, ids, apply)
	c.ClearSelection()

	if len(result.Succeeded) > 0 {
		// Mutations invalidated the cached list; reload so the view reflects them.
		_ = c.Refresh(ctx)
	}

	if !result.HasFailures() {
		c.log.Info("bulk action completed", map[string]interface{}{"action": action, "total": result.Total})
		return result, nil
	}

	batchErr := apperrors.NewBulkPartialFailureError(action, len(result.Failed), result.Total).
		WithMetadata("failedIds", result.FailedIDs())
	c.notify.Notify(c.errs.HandleActionError(action, "", batchErr))
	return result, batchErr
}

// fanOut applies fn to every id concurrently and waits for all of them.
func (c *Controller) fanOut(ctx context.Context, action string, ids []string, apply func(context.Context, string) error) *BatchResult {
	result := &BatchResult{
		Action: action,
		Total:  len(ids),
		Failed: make(map[string]error),
	}

	var sem chan struct{}
	if c.maxConcurrency > 0 {
		sem = make(chan struct{}, c.maxConcurrency)
	}
	inFlight := metrics.BulkInFlight.WithLabelValues(action)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			inFlight.Inc()
			err := apply(ctx, id)
			inFlight.Dec()
			metrics.BulkItemsTotal.WithLabelValues(action, metrics.Outcome(err)).Inc()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err
				c.log.Warn("bulk item failed", map[string]interface{}{
					"action": action, "applicationId": id, "error": err,
				})
				return
			}
			result.Succeeded = append(result.Succeeded, id)
		}(id)
	}
	wg.Wait()

	sort.Strings(result.Succeeded)
	return result
}
