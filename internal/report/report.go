package report

import (
	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/task"
)

// Overview is the dashboard headline counters.
type Overview struct {
	ActiveProjects    int64 `json:"activeProjects"`
	PendingTasks      int64 `json:"pendingTasks"`
	LowStockMaterials int64 `json:"lowStockMaterials"`
	EquipmentIssues   int64 `json:"equipmentIssues"`
	PresentToday      int64 `json:"presentToday"`
}

// Dashboard bundles the counters with today's activity feed.
type Dashboard struct {
	Overview         Overview             `json:"overview"`
	RecentActivities []task.DailyActivity `json:"recentActivities"`
}

// TaskScope narrows the pending-task counter to what the actor may see.
type TaskScope struct {
	// AssignedTo restricts to tasks assigned to this user.
	AssignedTo *int64
	// SupervisorID restricts to tasks on sites supervised by this user.
	SupervisorID *int64
}

// TaskProgressRow is one status bucket of the task progress report.
type TaskProgressRow struct {
	Status      string `json:"status"`
	Count       int64  `json:"count"`
	UrgentCount int64  `json:"urgent_count" gorm:"column:urgent_count"`
	HighCount   int64  `json:"high_count" gorm:"column:high_count"`
}

// ProgressFilter narrows the task progress report.
type ProgressFilter struct {
	SiteID    *int64
	StartDate *internal.Date
	EndDate   *internal.Date
}

// MaterialUsageRow aggregates deliveries and usage per material, with
// the current stock at the requested site.
type MaterialUsageRow struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Delivered    float64 `json:"delivered"`
	Used         float64 `json:"used"`
	CurrentStock float64 `json:"current_stock" gorm:"column:current_stock"`
}

// UsageFilter narrows the material usage report. SiteID is required.
type UsageFilter struct {
	SiteID    int64
	StartDate *internal.Date
	EndDate   *internal.Date
}

// AttendanceSummaryRow aggregates one worker's attendance.
type AttendanceSummaryRow struct {
	UserID      int64    `json:"id" gorm:"column:id"`
	FullName    string   `json:"full_name" gorm:"column:full_name"`
	PresentDays int64    `json:"present_days" gorm:"column:present_days"`
	AbsentDays  int64    `json:"absent_days" gorm:"column:absent_days"`
	LateDays    int64    `json:"late_days" gorm:"column:late_days"`
	TotalHours  *float64 `json:"total_hours" gorm:"column:total_hours"`
}

// SummaryFilter narrows the attendance summary report.
type SummaryFilter struct {
	SiteID    *int64
	StartDate *internal.Date
	EndDate   *internal.Date
}

// EquipmentStatusRow is one status bucket of the fleet.
type EquipmentStatusRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Repository defines the aggregate queries backing the reports.
type Repository interface {
	Overview(scope TaskScope) (*Overview, error)
	// TodayActivities returns today's daily activities; userID scopes to one
	// user, limit caps the feed (0 means no cap).
	TodayActivities(userID *int64, limit int) ([]task.DailyActivity, error)
	TaskProgress(filter ProgressFilter) ([]TaskProgressRow, error)
	MaterialUsage(filter UsageFilter) ([]MaterialUsageRow, error)
	AttendanceSummary(filter SummaryFilter) ([]AttendanceSummaryRow, error)
	EquipmentStatus() ([]EquipmentStatusRow, error)
}
