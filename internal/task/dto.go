package task

import (
	"strings"

	"github.com/rahadianw/siteops/internal"
)

type CreateDTO struct {
	SiteID      int64          `json:"site_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	AssignedTo  int64          `json:"assigned_to"`
	Priority    string         `json:"priority"`
	DueDate     *internal.Date `json:"due_date"`
}

func (d CreateDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.SiteID <= 0 {
		errs.Add("site_id", "site ID is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		errs.Add("title", "task title is required")
	}
	if d.AssignedTo <= 0 {
		errs.Add("assigned_to", "assigned to user ID is required")
	}
	if d.Priority != "" && !ValidPriority(d.Priority) {
		errs.Add("priority", "invalid priority")
	}

	return errs.ErrorOrNil()
}

type UpdateDTO struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      *string        `json:"status"`
	Priority    *string        `json:"priority"`
	DueDate     *internal.Date `json:"due_date"`
	AssignedTo  *int64         `json:"assigned_to"`
}

func (d UpdateDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.Title != nil && strings.TrimSpace(*d.Title) == "" {
		errs.Add("title", "task title cannot be empty")
	}
	if d.Status != nil && !ValidStatus(*d.Status) {
		errs.Add("status", "invalid task status")
	}
	if d.Priority != nil && !ValidPriority(*d.Priority) {
		errs.Add("priority", "invalid priority")
	}

	return errs.ErrorOrNil()
}

type ProgressDTO struct {
	ProgressPercentage int     `json:"progress_percentage"`
	Notes              *string `json:"notes"`
}

func (d ProgressDTO) Validate() error {
	if d.ProgressPercentage < 0 || d.ProgressPercentage > 100 {
		return internal.NewValidationFieldError("progress_percentage", "progress must be between 0 and 100", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ActivityDTO struct {
	SiteID       int64          `json:"site_id"`
	Description  string         `json:"description"`
	ActivityDate *internal.Date `json:"activity_date"`
	HoursWorked  *float64       `json:"hours_worked"`
}

func (d ActivityDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.SiteID <= 0 {
		errs.Add("site_id", "site ID is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		errs.Add("description", "activity description is required")
	}

	return errs.ErrorOrNil()
}
