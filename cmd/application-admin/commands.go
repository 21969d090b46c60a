package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "application-admin/internal/common/errors"
	"application-admin/internal/controllers/detail"
	"application-admin/internal/controllers/list"
	"application-admin/internal/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newListCmd(a *app) *cobra.Command {
	var (
		status     string
		department string
		search     string
		page       int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications with optional filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := a.listController()
			if err := ctl.SetStatusFilter(models.Status(status)); err != nil {
				return err
			}
			ctl.SetDepartmentFilter(department)
			ctl.SetSearchTerm(search)

			if err := ctl.Refresh(cmd.Context()); err != nil {
				return loadFailed(a, err)
			}
			if page > 1 && ctl.GoToPage(page) {
				if err := ctl.Refresh(cmd.Context()); err != nil {
					return loadFailed(a, err)
				}
			}

			if asJSON {
				return writeJSON(a.out, models.ListResult{
					Applications: ctl.Applications(),
					Pagination:   ctl.Pagination(),
				})
			}
			fmt.Fprint(a.out, a.renderer.RenderList(ctl.Applications(), ctl.Pagination(), nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, approved, rejected)")
	cmd.Flags().StringVar(&department, "department", "", "Filter by department id")
	cmd.Flags().StringVar(&search, "search", "", "Search applicant or department")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one application with its form steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := loadDetail(cmd, a, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, ctl.Application())
			}
			fmt.Fprint(a.out, a.renderer.RenderDetail(*ctl.Application(), ctl.RatingFormVisible()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newSetStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <pending|approved|rejected>",
		Short: "Change an application's review status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.Status(args[1])
			if !status.IsSettable() {
				return apperrors.NewInvalidStatusError(args[1])
			}
			ctl, err := loadDetail(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := ctl.ChangeStatus(cmd.Context(), status); err != nil {
				return reported(err)
			}
			fmt.Fprintf(a.out, "Application %s is now %s\n", args[0], a.renderer.StatusBadge(ctl.Application().Status))
			return nil
		},
	}
}

func newRateCmd(a *app) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "rate <id> <1-5>",
		Short: "Rate an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return apperrors.NewInvalidRatingError(fmt.Sprintf("rating: %q is not a number", args[1]))
			}
			ctl, err := loadDetail(cmd, a, args[0])
			if err != nil {
				return err
			}
			ctl.OpenRatingForm()
			if err := ctl.SubmitRating(cmd.Context(), rating, comment); err != nil {
				return reported(err)
			}
			fmt.Fprintf(a.out, "Application %s rated %s\n", args[0], a.renderer.RatingStars(ctl.Application().Rating))
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "Optional rating comment")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := loadDetail(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := ctl.Delete(cmd.Context()); err != nil {
				if apperrors.Is(err, apperrors.ErrConfirmationDeclined) {
					fmt.Fprintln(a.err, apperrors.UserMessage(err))
				}
				return reported(err)
			}
			fmt.Fprintf(a.out, "Application %s deleted\n", args[0])
			return nil
		},
	}
}

func newBulkDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-delete <id>...",
		Short: "Delete several applications concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := selectIDs(a.listController(), args)
			result, err := ctl.BulkDelete(cmd.Context())
			return reportBatch(a, result, err)
		},
	}
}

func newBulkStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-status <pending|approved|rejected> <id>...",
		Short: "Change the status of several applications concurrently",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := selectIDs(a.listController(), args[1:])
			result, err := ctl.BulkUpdateStatus(cmd.Context(), models.Status(args[0]))
			return reportBatch(a, result, err)
		},
	}
}

func selectIDs(ctl *list.Controller, ids []string) *list.Controller {
	for _, id := range ids {
		if !ctl.IsSelected(id) {
			ctl.ToggleSelect(id)
		}
	}
	return ctl
}

// reportBatch prints the per-item outcome. The aggregate notice has already been
// shown by the controller.
func reportBatch(a *app, result *list.BatchResult, err error) error {
	if result == nil {
		if apperrors.Is(err, apperrors.ErrConfirmationDeclined) {
			fmt.Fprintln(a.err, apperrors.UserMessage(err))
			return reported(err)
		}
		return err
	}

	fmt.Fprintf(a.out, "%s: %d of %d succeeded\n", result.Action, len(result.Succeeded), result.Total)
	for _, id := range result.FailedIDs() {
		fmt.Fprintf(a.out, "  failed %s: %s\n", id, apperrors.UserMessage(result.Failed[id]))
	}
	return reported(err)
}

func loadDetail(cmd *cobra.Command, a *app, id string) (*detail.Controller, error) {
	ctl := a.detailController()
	if err := ctl.Load(cmd.Context(), id); err != nil {
		return nil, loadFailed(a, err)
	}
	return ctl, nil
}

// loadFailed renders the inline "failed to load" state.
func loadFailed(a *app, err error) error {
	fmt.Fprintf(a.err, "Failed to load: %s\n", apperrors.UserMessage(err))
	return reported(err)
}
