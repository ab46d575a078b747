package equipment

import (
	"strings"
	"time"

	"github.com/rahadianw/siteops/internal"
)

type CreateDTO struct {
	Name                string         `json:"name"`
	Type                string         `json:"type"`
	Model               *string        `json:"model"`
	SerialNumber        *string        `json:"serial_number"`
	PurchaseDate        *internal.Date `json:"purchase_date"`
	LastMaintenanceDate *internal.Date `json:"last_maintenance_date"`
	NextMaintenanceDate *internal.Date `json:"next_maintenance_date"`
}

func (d CreateDTO) Validate() error {
	var errs internal.ValidationErrors

	if strings.TrimSpace(d.Name) == "" {
		errs.Add("name", "equipment name is required")
	}
	if strings.TrimSpace(d.Type) == "" {
		errs.Add("type", "equipment type is required")
	}

	return errs.ErrorOrNil()
}

type UpdateDTO struct {
	Name                *string        `json:"name"`
	Type                *string        `json:"type"`
	Model               *string        `json:"model"`
	SerialNumber        *string        `json:"serial_number"`
	Status              *string        `json:"status"`
	LastMaintenanceDate *internal.Date `json:"last_maintenance_date"`
	NextMaintenanceDate *internal.Date `json:"next_maintenance_date"`
}

func (d UpdateDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		errs.Add("name", "equipment name cannot be empty")
	}
	if d.Status != nil && !ValidStatus(*d.Status) {
		errs.Add("status", "invalid equipment status")
	}

	return errs.ErrorOrNil()
}

func (d UpdateDTO) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if d.Name != nil {
		changes["name"] = *d.Name
	}
	if d.Type != nil {
		changes["type"] = *d.Type
	}
	if d.Model != nil {
		changes["model"] = *d.Model
	}
	if d.SerialNumber != nil {
		changes["serial_number"] = *d.SerialNumber
	}
	if d.Status != nil {
		changes["status"] = *d.Status
	}
	if d.LastMaintenanceDate != nil {
		changes["last_maintenance_date"] = *d.LastMaintenanceDate
	}
	if d.NextMaintenanceDate != nil {
		changes["next_maintenance_date"] = *d.NextMaintenanceDate
	}
	return changes
}

type StartUsageDTO struct {
	SiteID    int64      `json:"site_id"`
	StartDate *time.Time `json:"start_date"`
	Notes     *string    `json:"notes"`
}

func (d StartUsageDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.SiteID <= 0 {
		errs.Add("site_id", "site ID is required")
	}
	if d.StartDate == nil {
		errs.Add("start_date", "start date is required")
	}

	return errs.ErrorOrNil()
}

type BreakdownDTO struct {
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Notes       *string `json:"notes"`
}

func (d BreakdownDTO) Validate() error {
	var errs internal.ValidationErrors

	if strings.TrimSpace(d.Description) == "" {
		errs.Add("description", "description is required")
	}
	if !ValidSeverity(d.Severity) {
		errs.Add("severity", "invalid severity")
	}

	return errs.ErrorOrNil()
}

type BreakdownUpdateDTO struct {
	Status     *string  `json:"status"`
	RepairCost *float64 `json:"repair_cost"`
	Notes      *string  `json:"notes"`
}

func (d BreakdownUpdateDTO) Validate() error {
	if d.Status != nil && !ValidBreakdownStatus(*d.Status) {
		return internal.NewValidationFieldError("status", "invalid breakdown status", internal.ErrCodeInvalidStatus)
	}
	return nil
}
