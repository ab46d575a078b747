package task

import (
	"time"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/notification"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is a unit of site work assigned to one user.
type Task struct {
	ID             int64          `json:"id" gorm:"primaryKey"`
	SiteID         int64          `json:"site_id" gorm:"column:site_id;not null"`
	Title          string         `json:"title" gorm:"not null"`
	Description    *string        `json:"description,omitempty"`
	AssignedTo     int64          `json:"assigned_to" gorm:"column:assigned_to;not null"`
	AssignedBy     int64          `json:"assigned_by" gorm:"column:assigned_by;not null"`
	Status         string         `json:"status" gorm:"default:pending"`
	Priority       string         `json:"priority" gorm:"default:medium"`
	DueDate        *internal.Date `json:"due_date,omitempty" gorm:"column:due_date"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty" gorm:"column:completed_at"`
	SiteName       *string        `json:"site_name,omitempty" gorm:"->;-:migration"`
	AssignedToName *string        `json:"assigned_to_name,omitempty" gorm:"->;-:migration"`
	AssignedByName *string        `json:"assigned_by_name,omitempty" gorm:"->;-:migration"`
	CreatedAt      time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// Update is a task_updates row: an appended progress report. progress=100
// forces the parent task to completed.
type Update struct {
	ID                 int64     `json:"id" gorm:"primaryKey"`
	TaskID             int64     `json:"task_id" gorm:"column:task_id;not null"`
	UpdatedBy          int64     `json:"updated_by" gorm:"column:updated_by;not null"`
	ProgressPercentage int       `json:"progress_percentage" gorm:"column:progress_percentage"`
	Notes              *string   `json:"notes,omitempty"`
	UpdatedByName      *string   `json:"updated_by_name,omitempty" gorm:"->;-:migration"`
	CreatedAt          time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (Update) TableName() string {
	return "task_updates"
}

// Detail is a task with its ordered progress history.
type Detail struct {
	Task
	Updates []Update `json:"updates"`
}

// DailyActivity is an append-only site log entry.
type DailyActivity struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	SiteID       int64         `json:"site_id" gorm:"column:site_id;not null"`
	UserID       int64         `json:"user_id" gorm:"column:user_id;not null"`
	ActivityDate internal.Date `json:"activity_date" gorm:"column:activity_date"`
	Description  string        `json:"description" gorm:"not null"`
	HoursWorked  *float64      `json:"hours_worked,omitempty" gorm:"column:hours_worked"`
	SiteName     *string       `json:"site_name,omitempty" gorm:"->;-:migration"`
	UserName     *string       `json:"user_name,omitempty" gorm:"->;-:migration"`
	CreatedAt    time.Time     `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (DailyActivity) TableName() string {
	return "daily_activities"
}

// Filter narrows task listings. AssignedTo doubles as the worker
// visibility scope.
type Filter struct {
	SiteID     *int64
	Status     string
	AssignedTo *int64
	Priority   string
}

// ActivityFilter narrows daily activity listings.
type ActivityFilter struct {
	SiteID       *int64
	ActivityDate *internal.Date
	UserID       *int64
}

// Repository defines storage operations for tasks, progress updates and
// daily activities.
type Repository interface {
	List(filter Filter) ([]Task, error)
	FindByID(id int64) (*Task, error)
	ListUpdates(taskID int64) ([]Update, error)
	// Create inserts the task and the assignee notification in one
	// transaction; either both exist or neither does.
	Create(t *Task, notify *notification.Notification) error
	Update(id int64, changes map[string]interface{}) (*Task, error)
	// AppendUpdate inserts the progress row and, when completeParent is
	// set, marks the parent task completed in the same transaction.
	AppendUpdate(u *Update, completeParent bool) error
	ListDailyActivities(filter ActivityFilter) ([]DailyActivity, error)
	CreateDailyActivity(a *DailyActivity) error
}
