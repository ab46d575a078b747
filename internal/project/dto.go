package project

import (
	"strings"

	"github.com/rahadianw/siteops/internal"
)

type CreateDTO struct {
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Location    *string        `json:"location"`
	StartDate   *internal.Date `json:"start_date"`
	EndDate     *internal.Date `json:"end_date"`
	Status      string         `json:"status"`
	ManagerID   *int64         `json:"manager_id"`
}

func (d CreateDTO) Validate() error {
	var errs internal.ValidationErrors

	if strings.TrimSpace(d.Name) == "" {
		errs.Add("name", "project name is required")
	}
	if d.Status != "" && !ValidStatus(d.Status) {
		errs.Add("status", "invalid project status")
	}

	return errs.ErrorOrNil()
}

type UpdateDTO struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Location    *string        `json:"location"`
	StartDate   *internal.Date `json:"start_date"`
	EndDate     *internal.Date `json:"end_date"`
	Status      *string        `json:"status"`
	ManagerID   *int64         `json:"manager_id"`
}

func (d UpdateDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		errs.Add("name", "project name cannot be empty")
	}
	if d.Status != nil && !ValidStatus(*d.Status) {
		errs.Add("status", "invalid project status")
	}

	return errs.ErrorOrNil()
}

func (d UpdateDTO) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if d.Name != nil {
		changes["name"] = *d.Name
	}
	if d.Description != nil {
		changes["description"] = *d.Description
	}
	if d.Location != nil {
		changes["location"] = *d.Location
	}
	if d.StartDate != nil {
		changes["start_date"] = *d.StartDate
	}
	if d.EndDate != nil {
		changes["end_date"] = *d.EndDate
	}
	if d.Status != nil {
		changes["status"] = *d.Status
	}
	if d.ManagerID != nil {
		changes["manager_id"] = *d.ManagerID
	}
	return changes
}
