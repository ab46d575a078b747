package site

import (
	"strings"

	"github.com/rahadianw/siteops/internal"
)

type CreateDTO struct {
	ProjectID    int64   `json:"project_id"`
	Name         string  `json:"name"`
	Location     *string `json:"location"`
	SupervisorID *int64  `json:"supervisor_id"`
	Status       string  `json:"status"`
}

func (d CreateDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.ProjectID <= 0 {
		errs.Add("project_id", "project ID is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		errs.Add("name", "site name is required")
	}

	return errs.ErrorOrNil()
}

type UpdateDTO struct {
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	SupervisorID *int64  `json:"supervisor_id"`
	Status       *string `json:"status"`
}

func (d UpdateDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		errs.Add("name", "site name cannot be empty")
	}

	return errs.ErrorOrNil()
}

func (d UpdateDTO) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if d.Name != nil {
		changes["name"] = *d.Name
	}
	if d.Location != nil {
		changes["location"] = *d.Location
	}
	if d.SupervisorID != nil {
		changes["supervisor_id"] = *d.SupervisorID
	}
	if d.Status != nil {
		changes["status"] = *d.Status
	}
	return changes
}

type AssignWorkerDTO struct {
	WorkerID int64 `json:"worker_id"`
}

func (d AssignWorkerDTO) Validate() error {
	if d.WorkerID <= 0 {
		return internal.NewValidationFieldError("worker_id", "worker ID is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
