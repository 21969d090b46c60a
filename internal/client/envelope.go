package client

import (
	"bytes"
	"encoding/json"
	"net/http"

	"application-admin/internal/models"
	"application-admin/internal/transform"
)

// listEnvelope is the GET /dashboard/applications response body.
type listEnvelope struct {
	Success    bool                     `json:"success"`
	Data       []models.BackendRecord   `json:"data"`
	Pagination models.BackendPagination `json:"pagination"`
	Message    string                   `json:"message,omitempty"`
}

// recordEnvelope is the GET /dashboard/applications/{id} response body.
type recordEnvelope struct {
	Success bool                  `json:"success"`
	Data    *models.BackendRecord `json:"data"`
	Message string                `json:"message,omitempty"`
}

// ackEnvelope is returned by every mutation. Data may echo the updated record.
type ackEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// acknowledgement converts the envelope. A 204 leaves the envelope zero valued and
// counts as success.
func (e ackEnvelope) acknowledgement(status int) *models.Acknowledgement {
	ack := &models.Acknowledgement{Success: e.Success, Message: e.Message}
	if status == http.StatusNoContent {
		ack.Success = true
	}

	raw := bytes.TrimSpace(e.Data)
	if len(raw) == 0 || raw[0] != '{' {
		return ack
	}
	var rec models.BackendRecord
	if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == "" {
		return ack
	}
	app := transform.Application(rec)
	ack.Application = &app
	return ack
}

type statusBody struct {
	Status models.Status `json:"status"`
}

type ratingBody struct {
	Rating        int     `json:"rating"`
	RatingComment *string `json:"rating_comment"`
}
