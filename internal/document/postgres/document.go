package postgres

import (
	"errors"

	"github.com/rahadianw/siteops/internal/document"
	"gorm.io/gorm"
)

// DocumentRepository implements document.Repository using GORM.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) baseQuery() *gorm.DB {
	return r.db.Model(&document.Document{}).
		Select("documents.*, u.full_name AS uploaded_by_name").
		Joins("LEFT JOIN users u ON documents.uploaded_by = u.id")
}

func (r *DocumentRepository) List(filter document.Filter) ([]document.Document, error) {
	var docs []document.Document

	query := r.baseQuery()
	if filter.SiteID != nil {
		query = query.Where("documents.site_id = ?", *filter.SiteID)
	}
	if filter.ProjectID != nil {
		query = query.Where("documents.project_id = ?", *filter.ProjectID)
	}
	if filter.Category != "" {
		query = query.Where("documents.category = ?", filter.Category)
	}

	err := query.Order("documents.created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) FindByID(id int64) (*document.Document, error) {
	var d document.Document
	err := r.baseQuery().Where("documents.id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) Create(d *document.Document) error {
	return r.db.Create(d).Error
}

func (r *DocumentRepository) Delete(id int64) (bool, error) {
	result := r.db.Delete(&document.Document{}, id)
	return result.RowsAffected > 0, result.Error
}
