package postgres

import (
	"time"

	"github.com/rahadianw/siteops/internal/material"
	"github.com/rahadianw/siteops/internal/notification"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaterialRepository implements material.Repository using GORM.
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) material.Repository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) ListMaterials(filter material.CatalogFilter) ([]material.Material, error) {
	var materials []material.Material

	query := r.db.Model(&material.Material{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	err := query.Order("name").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) CreateMaterial(m *material.Material) error {
	return r.db.Create(m).Error
}

func (r *MaterialRepository) MaterialName(id int64) (string, error) {
	var m material.Material
	if err := r.db.Select("name").First(&m, id).Error; err != nil {
		return "", err
	}
	return m.Name, nil
}

func (r *MaterialRepository) SiteInventory(siteID int64) ([]material.InventoryItem, error) {
	var items []material.InventoryItem
	err := r.db.Model(&material.Inventory{}).
		Select(`material_inventory.*, m.name AS material_name, m.unit, m.category,
			CASE WHEN material_inventory.quantity <= material_inventory.min_threshold THEN true ELSE false END AS low_stock`).
		Joins("JOIN materials m ON material_inventory.material_id = m.id").
		Where("material_inventory.site_id = ?", siteID).
		Order("m.name").
		Find(&items).Error
	return items, err
}

// RecordTransaction writes the ledger entry, applies the signed delta to
// the balance via an insert-or-merge, re-reads the result, and inserts a
// low-stock notification when the threshold is breached. Everything rides
// one transaction.
func (r *MaterialRepository) RecordTransaction(txn *material.Transaction, dedupe bool, compose func(alert material.LowStockAlert) *notification.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		delta := material.SignedDelta(txn.TransactionType, txn.Quantity)
		now := time.Now()
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "site_id"}, {Name: "material_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("material_inventory.quantity + ?", delta),
				"updated_at": now,
			}),
		}).Create(&material.Inventory{
			SiteID:       txn.SiteID,
			MaterialID:   txn.MaterialID,
			Quantity:     delta,
			MinThreshold: 0,
		}).Error
		if err != nil {
			return err
		}

		var inv material.Inventory
		if err := tx.Where("site_id = ? AND material_id = ?", txn.SiteID, txn.MaterialID).First(&inv).Error; err != nil {
			return err
		}
		if inv.Quantity > inv.MinThreshold {
			return nil
		}

		var site struct {
			SupervisorID *int64
		}
		if err := tx.Table("sites").Select("supervisor_id").Where("id = ?", txn.SiteID).Scan(&site).Error; err != nil {
			return err
		}
		if site.SupervisorID == nil {
			return nil
		}
		supervisorID := site.SupervisorID

		if dedupe {
			var pending int64
			err := tx.Model(&notification.Notification{}).
				Where("user_id = ? AND type = ? AND related_id = ? AND is_read = ?",
					*supervisorID, notification.TypeMaterial, txn.MaterialID, false).
				Count(&pending).Error
			if err != nil {
				return err
			}
			if pending > 0 {
				return nil
			}
		}

		var m material.Material
		if err := tx.Select("name").First(&m, txn.MaterialID).Error; err != nil {
			return err
		}

		n := compose(material.LowStockAlert{
			MaterialName: m.Name,
			Remaining:    inv.Quantity,
			SupervisorID: *supervisorID,
		})
		if n == nil {
			return nil
		}
		return tx.Create(n).Error
	})
}

func (r *MaterialRepository) CreateRequisition(rq *material.Requisition) error {
	return r.db.Create(rq).Error
}

func (r *MaterialRepository) ListRequisitions(filter material.RequisitionFilter) ([]material.Requisition, error) {
	var requisitions []material.Requisition

	query := r.db.Model(&material.Requisition{}).
		Select(`material_requisitions.*, s.name AS site_name, m.name AS material_name, m.unit,
			u1.full_name AS requested_by_name, u2.full_name AS approved_by_name`).
		Joins("LEFT JOIN sites s ON material_requisitions.site_id = s.id").
		Joins("LEFT JOIN materials m ON material_requisitions.material_id = m.id").
		Joins("LEFT JOIN users u1 ON material_requisitions.requested_by = u1.id").
		Joins("LEFT JOIN users u2 ON material_requisitions.approved_by = u2.id")

	if filter.SiteID != nil {
		query = query.Where("material_requisitions.site_id = ?", *filter.SiteID)
	}
	if filter.Status != "" {
		query = query.Where("material_requisitions.status = ?", filter.Status)
	}
	if filter.RequestedBy != nil {
		query = query.Where("material_requisitions.requested_by = ?", *filter.RequestedBy)
	}

	err := query.Order("material_requisitions.created_at DESC").Find(&requisitions).Error
	return requisitions, err
}

func (r *MaterialRepository) DecideRequisition(id int64, status string, approverID int64) (*material.Requisition, error) {
	result := r.db.Model(&material.Requisition{}).Where("id = ?", id).Updates(map[string]interface{}{
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

	var rq material.Requisition
	if err := r.db.First(&rq, id).Error; err != nil {
		return nil, err
	}
	return &rq, nil
}

func (r *MaterialRepository) AdminManagerIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Table("users").
		Where("role IN ?", []string{"admin", "manager"}).
		Pluck("id", &ids).Error
	return ids, err
}
