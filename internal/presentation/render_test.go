package presentation

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"application-admin/internal/models"
)

func TestStatusIconAndColor(t *testing.T) {
	assert.Equal(t, "✔", StatusIcon(models.StatusApproved))
	assert.Equal(t, "✘", StatusIcon(models.StatusRejected))
	assert.Equal(t, "◷", StatusIcon(models.StatusPending))
	assert.Equal(t, "?", StatusIcon("archived"))

	assert.Equal(t, DefaultTheme.StatusApproved, DefaultTheme.StatusColor(models.StatusApproved))
	assert.Equal(t, DefaultTheme.FaintText, DefaultTheme.StatusColor(models.StatusDraft))
}

func TestStatusBadge(t *testing.T) {
	r := NewRenderer(DefaultTheme)
	assert.Contains(t, r.StatusBadge(models.StatusApproved), "approved")
	assert.Contains(t, r.StatusBadge(models.StatusPending), "◷")
}

func TestCompletionBar(t *testing.T) {
	r := NewRenderer(DefaultTheme)

	tests := []struct {
		pct    float64
		filled int
		label  string
	}{
		{pct: 0, filled: 0, label: "  0%"},
		{pct: 50, filled: 5, label: " 50%"},
		{pct: 100, filled: 10, label: "100%"},
		{pct: 140, filled: 10, label: "100%"},
		{pct: -5, filled: 0, label: "  0%"},
	}
	for _, tt := range tests {
		bar := r.CompletionBar(tt.pct)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "pct %v", tt.pct)
		assert.Equal(t, barWidth-tt.filled, strings.Count(bar, "░"), "pct %v", tt.pct)
		assert.True(t, strings.HasSuffix(bar, tt.label), bar)
	}
}

func TestRatingStars(t *testing.T) {
	r := NewRenderer(DefaultTheme)
	three := 3
	stars := r.RatingStars(&three)
	assert.Equal(t, 3, strings.Count(stars, "★"))
	assert.Equal(t, 2, strings.Count(stars, "☆"))
	assert.Contains(t, r.RatingStars(nil), "unrated")
}

func TestRenderList(t *testing.T) {
	r := NewRenderer(DefaultTheme)
	apps := []models.Application{
		{ID: "1", UserName: "Ada Lovelace", DepartmentName: "Engineering", Status: models.StatusApproved, CompletionPercentage: 100},
		{ID: "2", UserName: "A very long applicant name that will not fit", DepartmentName: "Ops", Status: models.StatusPending},
	}

	out := r.RenderList(apps, models.Pagination{CurrentPage: 2, TotalPages: 3, Total: 25}, func(id string) bool { return id == "2" })
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "APPLICANT")
	assert.Contains(t, lines[1], "[ ]")
	assert.Contains(t, lines[1], "Ada Lovelace")
	assert.Contains(t, lines[2], "[x]")
	assert.Contains(t, lines[2], "…")
	assert.Contains(t, lines[3], "‹ Page 2 of 3 · 25 total ›")
}

func TestRenderList_Empty(t *testing.T) {
	out := NewRenderer(DefaultTheme).RenderList(nil, models.Pagination{}, nil)
	assert.Contains(t, out, "No applications found")
	assert.Contains(t, out, "Page 0 of 1")
}

func TestRenderDetail(t *testing.T) {
	rating := 4
	comment := "Solid"
	app := models.Application{
		ID:             "42",
		UserID:         "u-1",
		UserName:       "Noor",
		DepartmentID:   "7",
		DepartmentName: "Research",
		Status:         models.StatusRejected,
		Rating:         &rating,
		RatingComment:  &comment,
		Steps: []models.Step{
			{StepTitle: "Profile", Completed: true, FormData: map[string]interface{}{
				"b_age": 31.0, "a_cv": "https://files.example.com/cv.pdf", "c_extra": map[string]interface{}{"x": 1},
			}},
			{StepTitle: "Documents", FormData: map[string]interface{}{}},
		},
	}

	out := NewRenderer(DefaultTheme).RenderDetail(app, true)
	assert.Contains(t, out, "Application 42")
	assert.Contains(t, out, "Research (#7)")
	assert.Contains(t, out, "Solid")
	assert.Contains(t, out, "1. Profile")
	assert.Contains(t, out, "2. Documents")
	assert.Contains(t, out, `{"x":1}`)
	assert.Contains(t, out, "Rate this application")
	assert.Less(t, strings.Index(out, "https://files.example.com/cv.pdf"), strings.Index(out, "31"))

	withoutForm := NewRenderer(DefaultTheme).RenderDetail(models.Application{ID: "1", DepartmentName: "Ops"}, false)
	assert.NotContains(t, withoutForm, "Rate this application")
	assert.NotContains(t, withoutForm, "(#")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	out := truncate("abcdefghijkl", 5)
	assert.Equal(t, 5, lipgloss.Width(out))
	assert.True(t, strings.HasSuffix(out, "…"))
}
