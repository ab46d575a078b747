package postgres

import (
	"errors"
	"time"

	"github.com/rahadianw/siteops/internal/equipment"
	"github.com/rahadianw/siteops/internal/notification"
	"gorm.io/gorm"
)

// EquipmentRepository implements equipment.Repository using GORM.
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.Repository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) List(filter equipment.Filter) ([]equipment.Equipment, error) {
	var items []equipment.Equipment

	query := r.db.Model(&equipment.Equipment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	err := query.Order("name").Find(&items).Error
	return items, err
}

func (r *EquipmentRepository) FindByID(id int64) (*equipment.Equipment, error) {
	var e equipment.Equipment
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) Create(e *equipment.Equipment) error {
	return r.db.Create(e).Error
}

func (r *EquipmentRepository) Update(id int64, changes map[string]interface{}) (*equipment.Equipment, error) {
	result := r.db.Model(&equipment.Equipment{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(id)
}

// StartUsage gates on status available, then inserts the usage row and
// flips the status in one transaction.
func (r *EquipmentRepository) StartUsage(u *equipment.Usage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var e equipment.Equipment
		if err := tx.Select("id, status").First(&e, u.EquipmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return equipment.ErrNotFound
			}
			return err
		}
		if e.Status != equipment.StatusAvailable {
			return equipment.ErrNotAvailable
		}

		if err := tx.Create(u).Error; err != nil {
			return err
		}

		return tx.Model(&equipment.Equipment{}).
			Where("id = ?", u.EquipmentID).
			Update("status", equipment.StatusInUse).Error
	})
}

func (r *EquipmentRepository) EndUsage(usageID int64) (*equipment.Usage, error) {
	var u equipment.Usage

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, usageID).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&equipment.Usage{}).Where("id = ?", usageID).Updates(map[string]interface{}{
			"end_date": now,
			"status":   equipment.UsageCompleted,
		}).Error; err != nil {
			return err
		}
		u.EndDate = &now
		u.Status = equipment.UsageCompleted

		return tx.Model(&equipment.Equipment{}).
			Where("id = ?", u.EquipmentID).
			Update("status", equipment.StatusAvailable).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ReportBreakdown inserts the report, forces status broken, and notifies
// every admin and manager inside one transaction. An active usage row is
// reported back, not touched.
func (r *EquipmentRepository) ReportBreakdown(b *equipment.Breakdown, compose func(equipmentName string, recipient int64) *notification.Notification) (*int64, error) {
	var openUsageID *int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var e equipment.Equipment
		if err := tx.Select("id, name").First(&e, b.EquipmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return equipment.ErrNotFound
			}
			return err
		}

		var open equipment.Usage
		err := tx.Select("id").
			Where("equipment_id = ? AND status = ?", b.EquipmentID, equipment.UsageActive).
			First(&open).Error
		if err == nil {
			openUsageID = &open.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(b).Error; err != nil {
			return err
		}

		if err := tx.Model(&equipment.Equipment{}).
			Where("id = ?", b.EquipmentID).
			Update("status", equipment.StatusBroken).Error; err != nil {
			return err
		}

		var recipients []int64
		if err := tx.Table("users").
			Where("role IN ?", []string{"admin", "manager"}).
			Pluck("id", &recipients).Error; err != nil {
			return err
		}

		for _, recipient := range recipients {
			n := compose(e.Name, recipient)
			if n == nil {
				continue
			}
			if err := tx.Create(n).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return openUsageID, nil
}

func (r *EquipmentRepository) ListBreakdowns(filter equipment.BreakdownFilter) ([]equipment.Breakdown, error) {
	var breakdowns []equipment.Breakdown

	query := r.db.Model(&equipment.Breakdown{}).
		Select("equipment_breakdowns.*, e.name AS equipment_name, e.type AS equipment_type, u.full_name AS reported_by_name").
		Joins("LEFT JOIN equipment e ON equipment_breakdowns.equipment_id = e.id").
		Joins("LEFT JOIN users u ON equipment_breakdowns.reported_by = u.id")

	if filter.Status != "" {
		query = query.Where("equipment_breakdowns.status = ?", filter.Status)
	}
	if filter.Severity != "" {
		query = query.Where("equipment_breakdowns.severity = ?", filter.Severity)
	}

	err := query.Order("equipment_breakdowns.created_at DESC").Find(&breakdowns).Error
	return breakdowns, err
}

func (r *EquipmentRepository) UpdateBreakdown(id int64, changes map[string]interface{}, fixed bool) (*equipment.Breakdown, error) {
	var b equipment.Breakdown

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&equipment.Breakdown{}).Where("id = ?", id).Updates(changes)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.First(&b, id).Error; err != nil {
			return err
		}

		if fixed {
			return tx.Model(&equipment.Equipment{}).
				Where("id = ?", b.EquipmentID).
				Update("status", equipment.StatusAvailable).Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
