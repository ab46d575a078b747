package audit

import (
	"encoding/json"
	"time"
)

// EventHTTPRequest is published for every authenticated mutating request.
const EventHTTPRequest = "audit.http_request"

// Entry is one append-only audit row. Entries are never updated or
// deleted through the API.
type Entry struct {
	ID         int64           `json:"id" gorm:"primaryKey"`
	UserID     *int64          `json:"user_id,omitempty" gorm:"column:user_id"`
	Action     string          `json:"action" gorm:"not null"`
	EntityType string          `json:"entity_type" gorm:"column:entity_type;not null"`
	EntityID   *int64          `json:"entity_id,omitempty" gorm:"column:entity_id"`
	OldValues  json.RawMessage `json:"old_values,omitempty" gorm:"column:old_values;type:jsonb"`
	NewValues  json.RawMessage `json:"new_values,omitempty" gorm:"column:new_values;type:jsonb"`
	IPAddress  string          `json:"ip_address" gorm:"column:ip_address"`
	UserAgent  string          `json:"user_agent" gorm:"column:user_agent"`
	CreatedAt  time.Time       `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "audit_logs"
}

// Filter narrows audit listings.
type Filter struct {
	UserID     *int64
	EntityType string
	Limit      int
}

// Repository defines storage operations for audit entries.
type Repository interface {
	Create(e *Entry) error
	List(filter Filter) ([]Entry, error)
}
