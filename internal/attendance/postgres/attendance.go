package postgres

import (
	"errors"
	"time"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/attendance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceRepository implements attendance.Repository using GORM.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) List(filter attendance.Filter) ([]attendance.Attendance, error) {
	var records []attendance.Attendance

	query := r.db.Model(&attendance.Attendance{}).
		Select("attendance.*, u.full_name AS user_name, s.name AS site_name").
		Joins("LEFT JOIN users u ON attendance.user_id = u.id").
		Joins("LEFT JOIN sites s ON attendance.site_id = s.id")

	if filter.UserID != nil {
		query = query.Where("attendance.user_id = ?", *filter.UserID)
	}
	if filter.SiteID != nil {
		query = query.Where("attendance.site_id = ?", *filter.SiteID)
	}
	if filter.AttendanceDate != nil {
		query = query.Where("attendance.attendance_date = ?", *filter.AttendanceDate)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("attendance.attendance_date BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	}

	err := query.Order("attendance.attendance_date DESC, attendance.clock_in DESC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) FindForDay(userID, siteID int64, date internal.Date) (*attendance.Attendance, error) {
	var a attendance.Attendance
	err := r.db.Where("user_id = ? AND site_id = ? AND attendance_date = ?", userID, siteID, date).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttendanceRepository) Create(a *attendance.Attendance) error {
	return r.db.Create(a).Error
}

func (r *AttendanceRepository) Update(id int64, changes map[string]interface{}) (*attendance.Attendance, error) {
	if err := r.db.Model(&attendance.Attendance{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, err
	}

	var a attendance.Attendance
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Mark upserts on the (user_id, attendance_date, site_id) uniqueness,
// overwriting the record wholesale.
func (r *AttendanceRepository) Mark(a *attendance.Attendance) error {
	now := time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "attendance_date"}, {Name: "site_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":       a.Status,
			"clock_in":     a.ClockIn,
			"clock_out":    a.ClockOut,
			"hours_worked": a.HoursWorked,
			"notes":        a.Notes,
			"marked_by":    a.MarkedBy,
			"updated_at":   now,
		}),
	}).Create(a).Error
}

func (r *AttendanceRepository) CreateLeaveRequest(lr *attendance.LeaveRequest) error {
	return r.db.Create(lr).Error
}

func (r *AttendanceRepository) ListLeaveRequests(filter attendance.LeaveFilter) ([]attendance.LeaveRequest, error) {
	var requests []attendance.LeaveRequest

	query := r.db.Model(&attendance.LeaveRequest{}).
		Select("leave_requests.*, u.full_name AS user_name").
		Joins("LEFT JOIN users u ON leave_requests.user_id = u.id")

	if filter.Status != "" {
		query = query.Where("leave_requests.status = ?", filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("leave_requests.user_id = ?", *filter.UserID)
	}

	err := query.Order("leave_requests.created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *AttendanceRepository) DecideLeaveRequest(id int64, status string, approverID int64) (*attendance.LeaveRequest, error) {
	result := r.db.Model(&attendance.LeaveRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"approved_by": approverID,
		"approved_at": time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var lr attendance.LeaveRequest
	if err := r.db.First(&lr, id).Error; err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *AttendanceRepository) AdminManagerIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Table("users").
		Where("role IN ?", []string{"admin", "manager"}).
		Pluck("id", &ids).Error
	return ids, err
}
