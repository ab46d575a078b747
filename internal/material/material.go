package material

import (
	"time"

	"github.com/rahadianw/siteops/internal/notification"
)

const (
	TransactionDelivery   = "delivery"
	TransactionUsage      = "usage"
	TransactionAdjustment = "adjustment"
	TransactionReturn     = "return"
)

const (
	RequisitionPending  = "pending"
	RequisitionApproved = "approved"
	RequisitionRejected = "rejected"
	// RequisitionFulfilled exists in the schema; nothing transitions to it.
	RequisitionFulfilled = "fulfilled"
)

func ValidTransactionType(t string) bool {
	switch t {
	case TransactionDelivery, TransactionUsage, TransactionAdjustment, TransactionReturn:
		return true
	}
	return false
}

// SignedDelta converts a transaction into its effect on the balance:
// deliveries and returns add, usage and adjustments subtract.
func SignedDelta(transactionType string, quantity float64) float64 {
	if transactionType == TransactionDelivery || transactionType == TransactionReturn {
		return quantity
	}
	return -quantity
}

// Material is a catalog entry.
type Material struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	Unit        string    `json:"unit" gorm:"not null"`
	Category    *string   `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// Inventory is the unique (site, material) balance. The quantity is only
// ever adjusted through transactions; the ledger and the balance are
// written together.
type Inventory struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	SiteID       int64      `json:"site_id" gorm:"column:site_id;not null"`
	MaterialID   int64      `json:"material_id" gorm:"column:material_id;not null"`
	Quantity     float64    `json:"quantity" gorm:"default:0"`
	MinThreshold float64    `json:"min_threshold" gorm:"column:min_threshold;default:0"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Inventory) TableName() string {
	return "material_inventory"
}

// InventoryItem is the per-site inventory view with catalog fields and the
// computed low-stock flag.
type InventoryItem struct {
	Inventory
	MaterialName string  `json:"material_name" gorm:"->;-:migration"`
	Unit         string  `json:"unit" gorm:"->;-:migration"`
	Category     *string `json:"category,omitempty" gorm:"->;-:migration"`
	LowStock     bool    `json:"low_stock" gorm:"->;-:migration"`
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	SiteID          int64     `json:"site_id" gorm:"column:site_id;not null"`
	MaterialID      int64     `json:"material_id" gorm:"column:material_id;not null"`
	TransactionType string    `json:"transaction_type" gorm:"column:transaction_type;not null"`
	Quantity        float64   `json:"quantity" gorm:"not null"`
	UnitPrice       *float64  `json:"unit_price,omitempty" gorm:"column:unit_price"`
	Supplier        *string   `json:"supplier,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedBy       int64     `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "material_transactions"
}

// Requisition is a worker request for material at a site.
type Requisition struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	SiteID          int64      `json:"site_id" gorm:"column:site_id;not null"`
	MaterialID      int64      `json:"material_id" gorm:"column:material_id;not null"`
	Quantity        float64    `json:"quantity" gorm:"not null"`
	RequestedBy     int64      `json:"requested_by" gorm:"column:requested_by;not null"`
	Status          string     `json:"status" gorm:"default:pending"`
	ApprovedBy      *int64     `json:"approved_by,omitempty" gorm:"column:approved_by"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" gorm:"column:approved_at"`
	Notes           *string    `json:"notes,omitempty"`
	SiteName        *string    `json:"site_name,omitempty" gorm:"->;-:migration"`
	MaterialName    *string    `json:"material_name,omitempty" gorm:"->;-:migration"`
	Unit            *string    `json:"unit,omitempty" gorm:"->;-:migration"`
	RequestedByName *string    `json:"requested_by_name,omitempty" gorm:"->;-:migration"`
	ApprovedByName  *string    `json:"approved_by_name,omitempty" gorm:"->;-:migration"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Requisition) TableName() string {
	return "material_requisitions"
}

// CatalogFilter narrows material catalog listings.
type CatalogFilter struct {
	Category string
	Search   string
}

// RequisitionFilter narrows requisition listings. RequestedBy doubles as
// the worker visibility scope.
type RequisitionFilter struct {
	SiteID      *int64
	Status      string
	RequestedBy *int64
}

// LowStockAlert carries the facts known only inside the transaction when
// the post-update balance sits at or below the threshold.
type LowStockAlert struct {
	MaterialName string
	Remaining    float64
	SupervisorID int64
}

// Repository defines storage operations for the material domain.
type Repository interface {
	ListMaterials(filter CatalogFilter) ([]Material, error)
	CreateMaterial(m *Material) error
	MaterialName(id int64) (string, error)
	SiteInventory(siteID int64) ([]InventoryItem, error)
	// RecordTransaction inserts the ledger entry and applies its signed
	// delta to the balance in one transaction. When the resulting balance
	// is at or below the threshold and the site has a supervisor, compose
	// is called and a non-nil result is inserted in the same transaction.
	// dedupe skips the insert while an unread alert for the same material
	// is already pending for that supervisor.
	RecordTransaction(txn *Transaction, dedupe bool, compose func(alert LowStockAlert) *notification.Notification) error
	CreateRequisition(rq *Requisition) error
	ListRequisitions(filter RequisitionFilter) ([]Requisition, error)
	DecideRequisition(id int64, status string, approverID int64) (*Requisition, error)
	AdminManagerIDs() ([]int64, error)
}
