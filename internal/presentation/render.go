package presentation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"application-admin/internal/models"
)

const (
	columnWidthID         = 8
	columnWidthUser       = 22
	columnWidthDepartment = 18
	columnWidthStatus     = 12
	barWidth              = 10
)

type Renderer struct {
	theme Theme
}

func NewRenderer(theme Theme) Renderer {
	return Renderer{theme: theme}
}

// StatusBadge renders icon and status name in the status color.
func (r Renderer) StatusBadge(status models.Status) string {
	return lipgloss.NewStyle().
		Foreground(r.theme.StatusColor(status)).
		Bold(status == models.StatusRejected).
		Render(StatusIcon(status) + " " + string(status))
}

// CompletionBar renders a fixed-width bar with the percentage, clamped to 0..100.
func (r Renderer) CompletionBar(percentage float64) string {
	pct := math.Max(0, math.Min(100, percentage))
	filled := int(math.Round(pct / 100 * barWidth))

	bar := lipgloss.NewStyle().Foreground(r.theme.BarFilled).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(r.theme.BarEmpty).Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, pct)
}

// RatingStars renders five stars, or "unrated".
func (r Renderer) RatingStars(rating *int) string {
	if rating == nil {
		return lipgloss.NewStyle().Foreground(r.theme.FaintText).Render("unrated")
	}
	n := *rating
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return lipgloss.NewStyle().Foreground(r.theme.Stars).Render(strings.Repeat("★", n)) +
		lipgloss.NewStyle().Foreground(r.theme.FaintText).Render(strings.Repeat("☆", 5-n))
}

// RenderList renders one page as a table. selected may be nil.
func (r Renderer) RenderList(apps []models.Application, pagination models.Pagination, selected func(id string) bool) string {
	var b strings.Builder

	header := lipgloss.NewStyle().Foreground(r.theme.Header).Bold(true)
	b.WriteString(header.Render(fmt.Sprintf("    %-*s%-*s%-*s%-*s%s",
		columnWidthID, "ID",
		columnWidthUser, "APPLICANT",
		columnWidthDepartment, "DEPARTMENT",
		columnWidthStatus, "STATUS",
		"COMPLETION")))
	b.WriteString("\n")

	if len(apps) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(r.theme.FaintText).Render("    No applications found"))
		b.WriteString("\n")
	}

	for _, app := range apps {
		marker := "[ ]"
		if selected != nil && selected(app.ID) {
			marker = lipgloss.NewStyle().Foreground(r.theme.Selected).Render("[x]")
		}
		cell := func(text string, width int) string {
			return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(truncate(text, width-1))
		}
		b.WriteString(marker + " " +
			cell(app.ID, columnWidthID) +
			cell(app.UserName, columnWidthUser) +
			cell(app.DepartmentName, columnWidthDepartment) +
			lipgloss.NewStyle().Width(columnWidthStatus).Render(r.StatusBadge(app.Status)) +
			r.CompletionBar(app.CompletionPercentage))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(r.theme.FaintText).Render(paginationLine(pagination)))
	b.WriteString("\n")
	return b.String()
}

func paginationLine(p models.Pagination) string {
	totalPages := p.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	line := fmt.Sprintf("Page %d of %d · %d total", p.CurrentPage, totalPages, p.Total)
	if p.HasPrev() {
		line = "‹ " + line
	}
	if p.HasNext() {
		line += " ›"
	}
	return line
}

// RenderDetail renders one application with its steps.
func (r Renderer) RenderDetail(app models.Application, ratingFormVisible bool) string {
	var b strings.Builder
	label := lipgloss.NewStyle().Foreground(r.theme.FaintText).Width(14)
	title := lipgloss.NewStyle().Foreground(r.theme.Header).Bold(true)

	b.WriteString(title.Render("Application "+app.ID) + "  " + r.StatusBadge(app.Status) + "\n\n")

	department := app.DepartmentName
	if app.DepartmentID != "" {
		department = fmt.Sprintf("%s (#%s)", app.DepartmentName, app.DepartmentID)
	}
	rows := [][2]string{
		{"Applicant", fmt.Sprintf("%s (%s)", app.UserName, app.UserID)},
		{"Department", department},
		{"Completion", r.CompletionBar(app.CompletionPercentage)},
		{"Rating", r.RatingStars(app.Rating)},
		{"Submitted", app.CreatedAt},
		{"Updated", app.UpdatedAt},
	}
	if app.RatingComment != nil {
		rows = append(rows, [2]string{"Comment", *app.RatingComment})
	}
	for _, row := range rows {
		b.WriteString(label.Render(row[0]) + row[1] + "\n")
	}

	if len(app.Steps) > 0 {
		b.WriteString("\n" + title.Render("Steps") + "\n")
	}
	for i, step := range app.Steps {
		check := lipgloss.NewStyle().Foreground(r.theme.FaintText).Render("○")
		if step.Completed {
			check = lipgloss.NewStyle().Foreground(r.theme.StatusApproved).Render("●")
		}
		b.WriteString(fmt.Sprintf("%s %d. %s\n", check, i+1, step.StepTitle))

		keys := make([]string, 0, len(step.FormData))
		for k := range step.FormData {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("     " + label.Render(k) + formatValue(step.FormData[k]) + "\n")
		}
	}

	if ratingFormVisible {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(r.theme.Selected).Render("Rate this application (1-5) with an optional comment") + "\n")
	}
	return b.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	case float64:
		if val == math.Trunc(val) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%g", val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	}
}

func truncate(text string, maxWidth int) string {
	if lipgloss.Width(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for i := len(runes) - 1; i > 0; i-- {
		candidate := string(runes[:i]) + "…"
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return "…"
}
