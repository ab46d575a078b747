package equipment

import (
	"time"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/notification"
)

const (
	StatusAvailable   = "available"
	StatusInUse       = "in_use"
	StatusMaintenance = "maintenance"
	StatusBroken      = "broken"
	StatusRetired     = "retired"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

const (
	BreakdownReported   = "reported"
	BreakdownInRepair   = "in_repair"
	BreakdownFixed      = "fixed"
	BreakdownWrittenOff = "written_off"
)

const (
	UsageActive    = "active"
	UsageCompleted = "completed"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusInUse, StatusMaintenance, StatusBroken, StatusRetired:
		return true
	}
	return false
}

func ValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

func ValidBreakdownStatus(status string) bool {
	switch status {
	case BreakdownReported, BreakdownInRepair, BreakdownFixed, BreakdownWrittenOff:
		return true
	}
	return false
}

// Equipment.status is the single source of truth shared by the usage and
// breakdown flows.
type Equipment struct {
	ID                  int64          `json:"id" gorm:"primaryKey"`
	Name                string         `json:"name" gorm:"not null"`
	Type                string         `json:"type" gorm:"not null"`
	Model               *string        `json:"model,omitempty"`
	SerialNumber        *string        `json:"serial_number,omitempty" gorm:"column:serial_number"`
	Status              string         `json:"status" gorm:"default:available"`
	PurchaseDate        *internal.Date `json:"purchase_date,omitempty" gorm:"column:purchase_date"`
	LastMaintenanceDate *internal.Date `json:"last_maintenance_date,omitempty" gorm:"column:last_maintenance_date"`
	NextMaintenanceDate *internal.Date `json:"next_maintenance_date,omitempty" gorm:"column:next_maintenance_date"`
	CreatedAt           time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt           *time.Time     `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Equipment) TableName() string {
	return "equipment"
}

// Usage is one checkout session of a piece of equipment at a site.
type Usage struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	EquipmentID int64      `json:"equipment_id" gorm:"column:equipment_id;not null"`
	SiteID      int64      `json:"site_id" gorm:"column:site_id;not null"`
	UserID      int64      `json:"user_id" gorm:"column:user_id;not null"`
	StartDate   time.Time  `json:"start_date" gorm:"column:start_date;not null"`
	EndDate     *time.Time `json:"end_date,omitempty" gorm:"column:end_date"`
	Status      string     `json:"status" gorm:"default:active"`
	Notes       *string    `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (Usage) TableName() string {
	return "equipment_usage"
}

// Breakdown is a damage report. Fixing one is the only path back to
// available after broken.
type Breakdown struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	EquipmentID    int64      `json:"equipment_id" gorm:"column:equipment_id;not null"`
	ReportedBy     int64      `json:"reported_by" gorm:"column:reported_by;not null"`
	Description    string     `json:"description" gorm:"not null"`
	Severity       string     `json:"severity" gorm:"not null"`
	Status         string     `json:"status" gorm:"default:reported"`
	RepairCost     *float64   `json:"repair_cost,omitempty" gorm:"column:repair_cost"`
	Notes          *string    `json:"notes,omitempty"`
	FixedAt        *time.Time `json:"fixed_at,omitempty" gorm:"column:fixed_at"`
	EquipmentName  *string    `json:"equipment_name,omitempty" gorm:"->;-:migration"`
	EquipmentType  *string    `json:"equipment_type,omitempty" gorm:"->;-:migration"`
	ReportedByName *string    `json:"reported_by_name,omitempty" gorm:"->;-:migration"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Breakdown) TableName() string {
	return "equipment_breakdowns"
}

// Filter narrows equipment listings.
type Filter struct {
	Status string
	Type   string
}

// BreakdownFilter narrows breakdown listings.
type BreakdownFilter struct {
	Status   string
	Severity string
}

// Repository defines storage operations for the equipment domain.
type Repository interface {
	List(filter Filter) ([]Equipment, error)
	FindByID(id int64) (*Equipment, error)
	Create(e *Equipment) error
	Update(id int64, changes map[string]interface{}) (*Equipment, error)
	// StartUsage inserts the usage row and flips the equipment to in_use
	// in one transaction, gated on the equipment being available.
	StartUsage(u *Usage) error
	// EndUsage completes the usage row and restores the equipment to
	// available in one transaction. Returns nil when the row is missing.
	EndUsage(usageID int64) (*Usage, error)
	// ReportBreakdown inserts the report, forces the equipment to broken,
	// and fans notifications out to every admin and manager, all in one
	// transaction. openUsageID reports a usage session left dangling.
	ReportBreakdown(b *Breakdown, compose func(equipmentName string, recipient int64) *notification.Notification) (openUsageID *int64, err error)
	ListBreakdowns(filter BreakdownFilter) ([]Breakdown, error)
	// UpdateBreakdown applies the changes; marking it fixed restores the
	// equipment to available in the same transaction.
	UpdateBreakdown(id int64, changes map[string]interface{}, fixed bool) (*Breakdown, error)
}
