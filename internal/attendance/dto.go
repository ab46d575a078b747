package attendance

import (
	"strings"
	"time"

	"github.com/rahadianw/siteops/internal"
)

type ClockDTO struct {
	SiteID int64 `json:"site_id"`
}

func (d ClockDTO) Validate() error {
	if d.SiteID <= 0 {
		return internal.NewValidationFieldError("site_id", "site ID is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type MarkDTO struct {
	UserID         int64          `json:"user_id"`
	SiteID         int64          `json:"site_id"`
	AttendanceDate *internal.Date `json:"attendance_date"`
	Status         string         `json:"status"`
	ClockIn        *time.Time     `json:"clock_in"`
	ClockOut       *time.Time     `json:"clock_out"`
	HoursWorked    *float64       `json:"hours_worked"`
	Notes          *string        `json:"notes"`
}

func (d MarkDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.UserID <= 0 {
		errs.Add("user_id", "user ID is required")
	}
	if d.SiteID <= 0 {
		errs.Add("site_id", "site ID is required")
	}
	if d.AttendanceDate == nil {
		errs.Add("attendance_date", "attendance date is required")
	}
	if !ValidStatus(d.Status) {
		errs.Add("status", "invalid attendance status")
	}

	return errs.ErrorOrNil()
}

type LeaveRequestDTO struct {
	LeaveType string         `json:"leave_type"`
	StartDate *internal.Date `json:"start_date"`
	EndDate   *internal.Date `json:"end_date"`
	Reason    string         `json:"reason"`
}

func (d LeaveRequestDTO) Validate() error {
	var errs internal.ValidationErrors

	if !ValidLeaveType(d.LeaveType) {
		errs.Add("leave_type", "invalid leave type")
	}
	if d.StartDate == nil {
		errs.Add("start_date", "start date is required")
	}
	if d.EndDate == nil {
		errs.Add("end_date", "end date is required")
	}
	if strings.TrimSpace(d.Reason) == "" {
		errs.Add("reason", "reason is required")
	}

	return errs.ErrorOrNil()
}

type LeaveDecisionDTO struct {
	Status string `json:"status"`
}

func (d LeaveDecisionDTO) Validate() error {
	if d.Status != LeaveApproved && d.Status != LeaveRejected {
		return internal.NewValidationFieldError("status", "status must be approved or rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}
