package models

// Status is the canonical review status shown in the UI.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"

	// StatusDraft only ever arrives from the backend; it is read as pending.
	StatusDraft Status = "draft"
)

// SettableStatuses lists the statuses a reviewer can choose, in display order.
var SettableStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

// IsSettable reports whether s may be sent in a status update.
func (s Status) IsSettable() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// NormalizeStatus maps a backend status onto the three canonical statuses.
// draft and anything unrecognised read as pending.
func NormalizeStatus(raw string) Status {
	s := Status(raw)
	if s.IsSettable() {
		return s
	}
	return StatusPending
}

// Application is the canonical, UI-facing projection of a backend record.
// DepartmentID is empty whenever the backend only sent a department name.
type Application struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"userId"`
	UserName             string  `json:"userName"`
	DepartmentID         string  `json:"departmentId"`
	DepartmentName       string  `json:"departmentName"`
	Status               Status  `json:"status"`
	Rating               *int    `json:"rating,omitempty"`
	RatingComment        *string `json:"ratingComment,omitempty"`
	Steps                []Step  `json:"steps"`
	CompletionPercentage float64 `json:"completionPercentage"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

// Step is one section of an application's multi-step form.
type Step struct {
	StepID    string                 `json:"stepId"`
	StepTitle string                 `json:"stepTitle"`
	FormData  map[string]interface{} `json:"formData"`
	Completed bool                   `json:"completed"`
}

// Pagination describes the page a list result came from.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
	PerPage     int `json:"perPage"`
}

func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 1
}

func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// ListFilters are the optional list query parameters. Empty values are omitted
// from the request entirely.
type ListFilters struct {
	Status       Status
	DepartmentID string
	Search       string
	Page         int
}

// ListResult is one page of applications.
type ListResult struct {
	Applications []Application `json:"applications"`
	Pagination   Pagination    `json:"pagination"`
}

// IDs returns the ids of the loaded applications in order.
func (r ListResult) IDs() []string {
	ids := make([]string, 0, len(r.Applications))
	for _, app := range r.Applications {
		ids = append(ids, app.ID)
	}
	return ids
}

// Acknowledgement is the result of a mutation. Application is set when the
// backend echoed the updated record.
type Acknowledgement struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Application *Application `json:"application,omitempty"`
}
