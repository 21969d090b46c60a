// Package transform maps backend application records onto the canonical UI model.
// Every function here is pure and total: absent optional fields fall back to
// defaults instead of failing.
package transform

import (
	"application-admin/internal/models"
)

// Application converts one backend record.
func Application(rec models.BackendRecord) models.Application {
	app := models.Application{
		ID:             string(rec.ID),
		UserID:         string(rec.UserID),
		UserName:       rec.UserName,
		DepartmentID:   rec.Department.ID(),
		DepartmentName: rec.Department.Name(),
		Status:         models.NormalizeStatus(rec.Status),
		Rating:         copyInt(rec.Rating),
		RatingComment:  copyString(rec.RatingComment),
		Steps:          Steps(rec.FormData),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}

	switch {
	case rec.CompletionPercentage != nil:
		app.CompletionPercentage = *rec.CompletionPercentage
	case rec.Completion != nil:
		app.CompletionPercentage = *rec.Completion
	}

	return app
}

// Applications converts a list of records, preserving order.
func Applications(recs []models.BackendRecord) []models.Application {
	out := make([]models.Application, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Application(rec))
	}
	return out
}

// Steps converts form_data; a missing list becomes an empty, non-nil slice.
func Steps(steps []models.BackendStep) []models.Step {
	out := make([]models.Step, 0, len(steps))
	for _, s := range steps {
		data := s.Data
		if data == nil {
			data = map[string]interface{}{}
		}
		out = append(out, models.Step{
			StepID:    string(s.StepID),
			StepTitle: s.StepTitle,
			FormData:  data,
			Completed: s.Completed,
		})
	}
	return out
}

// Pagination converts the list pagination block.
func Pagination(p models.BackendPagination) models.Pagination {
	return models.Pagination{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		Total:       p.Total,
		PerPage:     p.PerPage,
	}
}

// ToBackend is the inverse encoding: it produces the backend record that
// Application maps back onto app. A department without an id is encoded in its
// list-view (name only) form.
func ToBackend(app models.Application) models.BackendRecord {
	dept := models.NamedDepartment(app.DepartmentName)
	if app.DepartmentID != "" {
		dept = models.FullDepartment(app.DepartmentID, app.DepartmentName)
	}

	completion := app.CompletionPercentage
	steps := make([]models.BackendStep, 0, len(app.Steps))
	for _, s := range app.Steps {
		steps = append(steps, models.BackendStep{
			StepID:    models.FlexString(s.StepID),
			StepTitle: s.StepTitle,
			Data:      s.FormData,
			Completed: s.Completed,
		})
	}

	return models.BackendRecord{
		ID:                   models.FlexString(app.ID),
		UserID:               models.FlexString(app.UserID),
		UserName:             app.UserName,
		Department:           dept,
		Status:               string(app.Status),
		Rating:               copyInt(app.Rating),
		RatingComment:        copyString(app.RatingComment),
		FormData:             steps,
		CompletionPercentage: &completion,
		CreatedAt:            app.CreatedAt,
		UpdatedAt:            app.UpdatedAt,
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
