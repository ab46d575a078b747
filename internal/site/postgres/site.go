package postgres

import (
	"github.com/rahadianw/siteops/internal/site"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteRepository implements site.Repository using GORM.
type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) site.Repository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) baseQuery() *gorm.DB {
	return r.db.Model(&site.Site{}).
		Select("sites.*, p.name AS project_name, u.full_name AS supervisor_name").
		Joins("LEFT JOIN projects p ON sites.project_id = p.id").
		Joins("LEFT JOIN users u ON sites.supervisor_id = u.id")
}

func (r *SiteRepository) List(filter site.Filter) ([]site.Site, error) {
	var sites []site.Site

	query := r.baseQuery()
	if filter.ProjectID != nil {
		query = query.Where("sites.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Where("sites.status = ?", filter.Status)
	}
	if filter.SupervisorID != nil {
		query = query.Where("sites.supervisor_id = ?", *filter.SupervisorID)
	}
	if filter.WorkerID != nil {
		query = query.Where(`EXISTS (
			SELECT 1 FROM site_teams st WHERE st.site_id = sites.id AND st.worker_id = ?
		)`, *filter.WorkerID)
	}

	err := query.Order("sites.created_at DESC").Find(&sites).Error
	return sites, err
}

func (r *SiteRepository) FindByID(id int64) (*site.Site, error) {
	var s site.Site
	err := r.baseQuery().Where("sites.id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SiteRepository) Create(s *site.Site) error {
	return r.db.Create(s).Error
}

func (r *SiteRepository) Update(id int64, changes map[string]interface{}) (*site.Site, error) {
	result := r.db.Model(&site.Site{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(id)
}

// AssignWorker inserts the (site, worker) pair, ignoring the insert when the
// pair already exists. Returns nil when nothing was inserted.
func (r *SiteRepository) AssignWorker(siteID, workerID int64) (*site.TeamAssignment, error) {
	assignment := &site.TeamAssignment{
		SiteID:   siteID,
		WorkerID: workerID,
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "site_id"}, {Name: "worker_id"}},
		DoNothing: true,
	}).Create(assignment)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return assignment, nil
}

func (r *SiteRepository) Team(siteID int64) ([]site.TeamMember, error) {
	var members []site.TeamMember
	err := r.db.Table("site_teams st").
		Select("u.id, u.username, u.full_name, u.role, u.phone, st.assigned_date").
		Joins("JOIN users u ON st.worker_id = u.id").
		Where("st.site_id = ?", siteID).
		Order("st.assigned_date DESC").
		Scan(&members).Error
	return members, err
}

func (r *SiteRepository) RemoveWorker(siteID, workerID int64) (bool, error) {
	result := r.db.Where("site_id = ? AND worker_id = ?", siteID, workerID).
		Delete(&site.TeamAssignment{})
	return result.RowsAffected > 0, result.Error
}
