package models

// BackendRecord is an application as the dashboard backend sends it. List and
// detail endpoints disagree on several fields, so most are optional.
type BackendRecord struct {
	ID                   FlexString    `json:"id"`
	UserID               FlexString    `json:"user_id"`
	UserName             string        `json:"user_name"`
	Department           Department    `json:"department"`
	Status               string        `json:"status"`
	Rating               *int          `json:"rating"`
	RatingComment        *string       `json:"rating_comment,omitempty"`
	FormData             []BackendStep `json:"form_data,omitempty"`
	CompletionPercentage *float64      `json:"completion_percentage,omitempty"`
	Completion           *float64      `json:"completion,omitempty"`
	CreatedAt            string        `json:"created_at"`
	UpdatedAt            string        `json:"updated_at"`
}

// BackendStep is one entry of form_data.
type BackendStep struct {
	StepID    FlexString             `json:"step_id"`
	StepTitle string                 `json:"step_title"`
	Data      map[string]interface{} `json:"data"`
	Completed bool                   `json:"completed"`
}

// BackendPagination is the pagination block of list responses.
type BackendPagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
}
