package attendance

import (
	"time"

	"github.com/rahadianw/siteops/internal"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
	StatusLeave   = "leave"
)

const (
	LeaveSick      = "sick"
	LeaveVacation  = "vacation"
	LeavePersonal  = "personal"
	LeaveEmergency = "emergency"
)

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusLeave:
		return true
	}
	return false
}

func ValidLeaveType(t string) bool {
	switch t {
	case LeaveSick, LeaveVacation, LeavePersonal, LeaveEmergency:
		return true
	}
	return false
}

// Attendance is the unique (user, date, site) record. hours_worked is
// computed once at clock-out and never recomputed.
type Attendance struct {
	ID             int64         `json:"id" gorm:"primaryKey"`
	UserID         int64         `json:"user_id" gorm:"column:user_id;not null"`
	SiteID         int64         `json:"site_id" gorm:"column:site_id;not null"`
	AttendanceDate internal.Date `json:"attendance_date" gorm:"column:attendance_date;not null"`
	ClockIn        *time.Time    `json:"clock_in,omitempty" gorm:"column:clock_in"`
	ClockOut       *time.Time    `json:"clock_out,omitempty" gorm:"column:clock_out"`
	HoursWorked    *float64      `json:"hours_worked,omitempty" gorm:"column:hours_worked"`
	Status         string        `json:"status" gorm:"default:present"`
	Notes          *string       `json:"notes,omitempty"`
	MarkedBy       *int64        `json:"marked_by,omitempty" gorm:"column:marked_by"`
	UserName       *string       `json:"user_name,omitempty" gorm:"->;-:migration"`
	SiteName       *string       `json:"site_name,omitempty" gorm:"->;-:migration"`
	CreatedAt      time.Time     `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Attendance) TableName() string {
	return "attendance"
}

// LeaveRequest is independent of attendance rows: pending until an admin
// or manager decides.
type LeaveRequest struct {
	ID         int64         `json:"id" gorm:"primaryKey"`
	UserID     int64         `json:"user_id" gorm:"column:user_id;not null"`
	LeaveType  string        `json:"leave_type" gorm:"column:leave_type;not null"`
	StartDate  internal.Date `json:"start_date" gorm:"column:start_date;not null"`
	EndDate    internal.Date `json:"end_date" gorm:"column:end_date;not null"`
	Reason     string        `json:"reason" gorm:"not null"`
	Status     string        `json:"status" gorm:"default:pending"`
	ApprovedBy *int64        `json:"approved_by,omitempty" gorm:"column:approved_by"`
	ApprovedAt *time.Time    `json:"approved_at,omitempty" gorm:"column:approved_at"`
	UserName   *string       `json:"user_name,omitempty" gorm:"->;-:migration"`
	CreatedAt  time.Time     `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  *time.Time    `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Filter narrows attendance listings. UserID doubles as the worker
// visibility scope.
type Filter struct {
	UserID         *int64
	SiteID         *int64
	AttendanceDate *internal.Date
	StartDate      *internal.Date
	EndDate        *internal.Date
}

// LeaveFilter narrows leave request listings.
type LeaveFilter struct {
	Status string
	UserID *int64
}

// Repository defines storage operations for attendance and leave.
type Repository interface {
	List(filter Filter) ([]Attendance, error)
	// FindForDay returns the (user, date, site) record, or nil when the
	// day has no record yet.
	FindForDay(userID, siteID int64, date internal.Date) (*Attendance, error)
	Create(a *Attendance) error
	Update(id int64, changes map[string]interface{}) (*Attendance, error)
	// Mark upserts on the (user, date, site) uniqueness, overwriting the
	// clock fields, status and hours atomically.
	Mark(a *Attendance) error
	CreateLeaveRequest(lr *LeaveRequest) error
	ListLeaveRequests(filter LeaveFilter) ([]LeaveRequest, error)
	DecideLeaveRequest(id int64, status string, approverID int64) (*LeaveRequest, error)
	AdminManagerIDs() ([]int64, error)
}
