// Package list owns the state of the applications list view: filters, search,
// pagination and the page-scoped selection, plus bulk actions over the selection.
package list

import (
	"context"
	"sort"
	"sync"

	apperrors "application-admin/internal/common/errors"
	"application-admin/internal/common/logger"
	"application-admin/internal/controllers"
	"application-admin/internal/models"
)

// Service is the subset of the remote client the list view uses.
type Service interface {
	ListApplications(ctx context.Context, filters models.ListFilters) (*models.ListResult, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Acknowledgement, error)
	DeleteApplication(ctx context.Context, id string) (*models.Acknowledgement, error)
}

type Options struct {
	Service   Service
	Confirmer controllers.Confirmer
	Notifier  controllers.Notifier
	Logger    logger.Logger
	// MaxConcurrency bounds in-flight bulk requests. 0 sends all at once.
	MaxConcurrency int
}

type Controller struct {
	svc            Service
	confirm        controllers.Confirmer
	notify         controllers.Notifier
	log            logger.Logger
	errs           *apperrors.ErrorHandler
	maxConcurrency int

	mu               sync.Mutex
	searchTerm       string
	statusFilter     models.Status
	departmentFilter string
	currentPage      int
	selected         map[string]struct{}

	result     *models.ListResult
	loading    bool
	loadErr    error
	generation uint64
}

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
	log = log.WithFields(map[string]interface{}{"component": "list"})
	return &Controller{
		svc:            opts.Service,
		confirm:        confirm,
		notify:         notify,
		log:            log,
		errs:           apperrors.NewErrorHandler(log),
		maxConcurrency: opts.MaxConcurrency,
		currentPage:    1,
		selected:       make(map[string]struct{}),
	}
}

// SetSearchTerm changes the search and goes back to page 1.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = term
	c.currentPage = 1
}

// SetStatusFilter changes the status filter and goes back to page 1. The empty
// status clears the filter.
func (c *Controller) SetStatusFilter(status models.Status) error {
	if status != "" && !status.IsSettable() {
		return apperrors.NewInvalidFilterError("status: " + string(status))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusFilter = status
	c.currentPage = 1
	return nil
}

// SetDepartmentFilter changes the department filter and goes back to page 1.
func (c *Controller) SetDepartmentFilter(departmentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.departmentFilter = departmentID
	c.currentPage = 1
}

// ClearFilters resets search, status and department.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = ""
	c.statusFilter = ""
	c.departmentFilter = ""
	c.currentPage = 1
}

// Filters derives the query for the current state.
func (c *Controller) Filters() models.ListFilters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtersLocked()
}

func (c *Controller) filtersLocked() models.ListFilters {
	return models.ListFilters{
		Status:       c.statusFilter,
		DepartmentID: c.departmentFilter,
		Search:       c.searchTerm,
		Page:         c.currentPage,
	}
}

func (c *Controller) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchTerm
}

func (c *Controller) StatusFilter() models.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusFilter
}

func (c *Controller) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// Refresh loads the page for the current filters. A failure is kept for Error()
// and the previously loaded page stays visible. Results of a superseded refresh
// are dropped.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	filters := c.filtersLocked()
	c.generation++
	gen := c.generation
	c.loading = true
	c.mu.Unlock()

	result, err := c.svc.ListApplications(ctx, filters)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return err
	}
	c.loading = false
	c.loadErr = err
	if err != nil {
		c.log.Warn("failed to load applications", map[string]interface{}{
			"page": filters.Page, "status": string(filters.Status), "error": err,
		})
		return err
	}
	c.result = result
	return nil
}

// Applications returns the loaded page, or nil before the first load.
func (c *Controller) Applications() []models.Application {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	return append([]models.Application(nil), c.result.Applications...)
}

func (c *Controller) Pagination() models.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return models.Pagination{CurrentPage: c.currentPage, TotalPages: 1}
	}
	return c.result.Pagination
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Error is the last load failure, cleared by the next successful Refresh.
func (c *Controller) Error() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// GoToPage moves to page, clamped to [1, total pages]. It does nothing while a
// load is in flight and reports whether the page changed.
func (c *Controller) GoToPage(page int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return false
	}

	totalPages := 1
	if c.result != nil && c.result.Pagination.TotalPages > 1 {
		totalPages = c.result.Pagination.TotalPages
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page == c.currentPage {
		return false
	}
	c.currentPage = page
	return true
}

func (c *Controller) NextPage() bool {
	return c.GoToPage(c.CurrentPage() + 1)
}

func (c *Controller) PrevPage() bool {
	return c.GoToPage(c.CurrentPage() - 1)
}

func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// ToggleSelect adds or removes one id.
func (c *Controller) ToggleSelect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return
	}
	c.selected[id] = struct{}{}
}

// SelectAll clears the selection when every loaded id is selected, and otherwise
// selects exactly the loaded ids.
func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ids []string
	if c.result != nil {
		ids = c.result.IDs()
	}

	all := len(ids) > 0 && len(ids) == len(c.selected)
	for _, id := range ids {
		if _, ok := c.selected[id]; !ok {
			all = false
			break
		}
	}

	c.selected = make(map[string]struct{}, len(ids))
	if all {
		return
	}
	for _, id := range ids {
		c.selected[id] = struct{}{}
	}
}

func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[string]struct{})
}

// Selected returns the selected ids, sorted.
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
