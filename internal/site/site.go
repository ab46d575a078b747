package site

import (
	"time"
)

// Site is a physical work location under a project; the unit of team
// assignment and most operational activity.
type Site struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	ProjectID      int64      `json:"project_id" gorm:"column:project_id;not null"`
	Name           string     `json:"name" gorm:"not null"`
	Location       *string    `json:"location,omitempty"`
	SupervisorID   *int64     `json:"supervisor_id,omitempty" gorm:"column:supervisor_id"`
	Status         string     `json:"status" gorm:"default:active"`
	ProjectName    *string    `json:"project_name,omitempty" gorm:"->;-:migration"`
	SupervisorName *string    `json:"supervisor_name,omitempty" gorm:"->;-:migration"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Site) TableName() string {
	return "sites"
}

// TeamAssignment is a site_teams row: a worker belongs to a site at most once.
type TeamAssignment struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	SiteID       int64     `json:"site_id" gorm:"column:site_id;not null"`
	WorkerID     int64     `json:"worker_id" gorm:"column:worker_id;not null"`
	AssignedDate time.Time `json:"assigned_date" gorm:"column:assigned_date"`
}

// TableName returns the table name for GORM
func (TeamAssignment) TableName() string {
	return "site_teams"
}

// TeamMember is the joined view of an assigned worker.
type TeamMember struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Phone        *string   `json:"phone,omitempty"`
	AssignedDate time.Time `json:"assigned_date"`
}

// Filter narrows site listings. WorkerID scopes visibility to assigned sites.
type Filter struct {
	ProjectID    *int64
	Status       string
	SupervisorID *int64
	WorkerID     *int64
}

// Repository defines storage operations for sites and their teams.
type Repository interface {
	List(filter Filter) ([]Site, error)
	FindByID(id int64) (*Site, error)
	Create(s *Site) error
	Update(id int64, changes map[string]interface{}) (*Site, error)
	AssignWorker(siteID, workerID int64) (*TeamAssignment, error)
	Team(siteID int64) ([]TeamMember, error)
	RemoveWorker(siteID, workerID int64) (bool, error)
}
