package project

import (
	"time"

	"github.com/rahadianw/siteops/internal"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusOnHold    = "on_hold"
	StatusCancelled = "cancelled"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// Project is the top-level unit of work; sites hang off it.
type Project struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description *string        `json:"description,omitempty"`
	Location    *string        `json:"location,omitempty"`
	StartDate   *internal.Date `json:"start_date,omitempty" gorm:"column:start_date"`
	EndDate     *internal.Date `json:"end_date,omitempty" gorm:"column:end_date"`
	Status      string         `json:"status" gorm:"default:active"`
	ManagerID   *int64         `json:"manager_id,omitempty" gorm:"column:manager_id"`
	ManagerName *string        `json:"manager_name,omitempty" gorm:"->;-:migration"`
	CreatedAt   time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// Filter narrows project listings. WorkerID scopes visibility to projects
// whose sites the worker belongs to.
type Filter struct {
	Status    string
	ManagerID *int64
	WorkerID  *int64
}

// Repository defines storage operations for projects.
type Repository interface {
	List(filter Filter) ([]Project, error)
	FindByID(id int64) (*Project, error)
	Create(p *Project) error
	Update(id int64, changes map[string]interface{}) (*Project, error)
}
