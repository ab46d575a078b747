package document

import (
	"time"
)

// Category values are free-form in the schema; these are the ones the
// frontend offers.
const (
	CategoryContract = "contract"
	CategoryPermit   = "permit"
	CategoryDrawing  = "drawing"
	CategoryReport   = "report"
	CategoryPhoto    = "photo"
	CategoryOther    = "other"
)

// Document is file metadata; the payload lives on disk at FilePath.
type Document struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	SiteID         *int64     `json:"site_id,omitempty" gorm:"column:site_id"`
	ProjectID      *int64     `json:"project_id,omitempty" gorm:"column:project_id"`
	Name           string     `json:"name" gorm:"not null"`
	FilePath       string     `json:"file_path" gorm:"column:file_path;not null"`
	FileType       string     `json:"file_type" gorm:"column:file_type"`
	FileSize       int64      `json:"file_size" gorm:"column:file_size"`
	Category       *string    `json:"category,omitempty"`
	Description    *string    `json:"description,omitempty"`
	UploadedBy     int64      `json:"uploaded_by" gorm:"column:uploaded_by"`
	UploadedByName *string    `json:"uploaded_by_name,omitempty" gorm:"->;-:migration"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// Filter narrows document listings.
type Filter struct {
	SiteID    *int64
	ProjectID *int64
	Category  string
}

// Repository defines storage operations for document metadata.
type Repository interface {
	List(filter Filter) ([]Document, error)
	// FindByID returns nil, nil when the document does not exist.
	FindByID(id int64) (*Document, error)
	Create(d *Document) error
	// Delete reports whether a row was removed.
	Delete(id int64) (bool, error)
}
