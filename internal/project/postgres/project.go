package postgres

import (
	"github.com/rahadianw/siteops/internal/project"
	"gorm.io/gorm"
)

// ProjectRepository implements project.Repository using GORM.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) baseQuery() *gorm.DB {
	return r.db.Model(&project.Project{}).
		Select("projects.*, u.full_name AS manager_name").
		Joins("LEFT JOIN users u ON projects.manager_id = u.id")
}

func (r *ProjectRepository) List(filter project.Filter) ([]project.Project, error) {
	var projects []project.Project

	query := r.baseQuery()
	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}
	if filter.ManagerID != nil {
		query = query.Where("projects.manager_id = ?", *filter.ManagerID)
	}
	if filter.WorkerID != nil {
		query = query.Where(`EXISTS (
			SELECT 1 FROM sites s
			JOIN site_teams st ON s.id = st.site_id
			WHERE s.project_id = projects.id AND st.worker_id = ?
		)`, *filter.WorkerID)
	}

	err := query.Order("projects.created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) FindByID(id int64) (*project.Project, error) {
	var p project.Project
	err := r.baseQuery().Where("projects.id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(p *project.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) Update(id int64, changes map[string]interface{}) (*project.Project, error) {
	result := r.db.Model(&project.Project{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(id)
}
