package postgres

import (
	"github.com/rahadianw/siteops/internal/equipment"
	"github.com/rahadianw/siteops/internal/project"
	"github.com/rahadianw/siteops/internal/report"
	"github.com/rahadianw/siteops/internal/task"
	"gorm.io/gorm"
)

// ReportRepository implements report.Repository using GORM.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Overview(scope report.TaskScope) (*report.Overview, error) {
	var o report.Overview

	if err := r.db.Model(&project.Project{}).
		Where("status = ?", project.StatusActive).
		Count(&o.ActiveProjects).Error; err != nil {
		return nil, err
	}

	tasks := r.db.Model(&task.Task{}).Where("status = ?", task.StatusPending)
	if scope.AssignedTo != nil {
		tasks = tasks.Where("assigned_to = ?", *scope.AssignedTo)
	}
	if scope.SupervisorID != nil {
		tasks = tasks.Where("EXISTS (SELECT 1 FROM sites s WHERE s.id = tasks.site_id AND s.supervisor_id = ?)", *scope.SupervisorID)
	}
	if err := tasks.Count(&o.PendingTasks).Error; err != nil {
		return nil, err
	}

	if err := r.db.Table("material_inventory").
		Where("quantity <= min_threshold").
		Count(&o.LowStockMaterials).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&equipment.Equipment{}).
		Where("status IN ?", []string{equipment.StatusMaintenance, equipment.StatusBroken}).
		Count(&o.EquipmentIssues).Error; err != nil {
		return nil, err
	}

	if err := r.db.Table("attendance").
		Where("attendance_date = CURRENT_DATE AND status = 'present'").
		Count(&o.PresentToday).Error; err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *ReportRepository) TodayActivities(userID *int64, limit int) ([]task.DailyActivity, error) {
	var activities []task.DailyActivity

	query := r.db.Model(&task.DailyActivity{}).
		Select("daily_activities.*, s.name AS site_name, u.full_name AS user_name").
		Joins("LEFT JOIN sites s ON daily_activities.site_id = s.id").
		Joins("LEFT JOIN users u ON daily_activities.user_id = u.id").
		Where("daily_activities.activity_date = CURRENT_DATE")

	if userID != nil {
		query = query.Where("daily_activities.user_id = ?", *userID)
	}
	query = query.Order("daily_activities.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&activities).Error
	return activities, err
}

func (r *ReportRepository) TaskProgress(filter report.ProgressFilter) ([]report.TaskProgressRow, error) {
	var rows []report.TaskProgressRow

	query := r.db.Model(&task.Task{}).
		Select(`status,
			COUNT(*) AS count,
			COUNT(*) FILTER (WHERE priority = 'urgent') AS urgent_count,
			COUNT(*) FILTER (WHERE priority = 'high') AS high_count`)

	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("created_at BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	}

	err := query.Group("status").Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) MaterialUsage(filter report.UsageFilter) ([]report.MaterialUsageRow, error) {
	var rows []report.MaterialUsageRow

	query := r.db.Table("materials m").
		Select(`m.name,
			m.unit,
			SUM(CASE WHEN mt.transaction_type = 'delivery' THEN mt.quantity ELSE 0 END) AS delivered,
			SUM(CASE WHEN mt.transaction_type = 'usage' THEN mt.quantity ELSE 0 END) AS used,
			COALESCE(mi.quantity, 0) AS current_stock`).
		Joins("LEFT JOIN material_transactions mt ON m.id = mt.material_id").
		Joins("LEFT JOIN material_inventory mi ON m.id = mi.material_id AND mi.site_id = ?", filter.SiteID)

	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("mt.created_at BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	}

	err := query.Group("m.id, m.name, m.unit, mi.quantity").Order("m.name").Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) AttendanceSummary(filter report.SummaryFilter) ([]report.AttendanceSummaryRow, error) {
	var rows []report.AttendanceSummaryRow

	query := r.db.Table("users u").
		Select(`u.id,
			u.full_name,
			COUNT(*) FILTER (WHERE a.status = 'present') AS present_days,
			COUNT(*) FILTER (WHERE a.status = 'absent') AS absent_days,
			COUNT(*) FILTER (WHERE a.status = 'late') AS late_days,
			SUM(a.hours_worked) AS total_hours`).
		Joins("LEFT JOIN attendance a ON u.id = a.user_id").
		Where("u.role = 'worker'")

	if filter.SiteID != nil {
		query = query.Where("a.site_id = ?", *filter.SiteID)
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("a.attendance_date BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
	}

	err := query.Group("u.id, u.full_name").Order("u.full_name").Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) EquipmentStatus() ([]report.EquipmentStatusRow, error) {
	var rows []report.EquipmentStatusRow
	err := r.db.Model(&equipment.Equipment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}
