package postgres

import (
	"github.com/rahadianw/siteops/internal/audit"
	"gorm.io/gorm"
)

// defaultListLimit caps unbounded trail listings.
const defaultListLimit = 100

// AuditRepository implements audit.Repository using GORM.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(e *audit.Entry) error {
	return r.db.Create(e).Error
}

func (r *AuditRepository) List(filter audit.Filter) ([]audit.Entry, error) {
	var entries []audit.Entry

	query := r.db.Model(&audit.Entry{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
