package notification

import (
	"time"
)

const (
	TypeTask       = "task"
	TypeMaterial   = "material"
	TypeEquipment  = "equipment"
	TypeAttendance = "attendance"
	TypeSystem     = "system"
)

func ValidType(t string) bool {
	switch t {
	case TypeTask, TypeMaterial, TypeEquipment, TypeAttendance, TypeSystem:
		return true
	}
	return false
}

// Notification is a per-user inbox entry created as a side effect of domain
// workflows (task assignment, low stock, breakdowns, approvals).
type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null"`
	IsRead    bool      `json:"is_read" gorm:"column:is_read;default:false"`
	RelatedID *int64    `json:"related_id,omitempty" gorm:"column:related_id"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// Filter narrows inbox listings.
type Filter struct {
	IsRead *bool
	Type   string
}

// Repository defines storage operations for the notification inbox.
type Repository interface {
	Create(n *Notification) error
	ListForUser(userID int64, filter Filter) ([]Notification, error)
	UnreadCount(userID int64) (int64, error)
	MarkRead(id, userID int64) (bool, error)
	MarkAllRead(userID int64) error
	Delete(id, userID int64) (bool, error)
}

// Notifier is the write-side interface other domain services use to push
// notifications without depending on the full inbox service.
type Notifier interface {
	Notify(n *Notification) error
	NotifyAll(ns []*Notification) error
}
