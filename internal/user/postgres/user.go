package postgres

import (
	"errors"

	"github.com/rahadianw/siteops/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(filter user.Filter) ([]user.User, error) {
	var users []user.User

	query := r.db.Model(&user.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR full_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	err := query.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByID(id int64) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(id int64, changes map[string]interface{}) (*user.User, error) {
	result := r.db.Model(&user.User{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByID(id)
}

func (r *UserRepository) Deactivate(id int64) (*user.User, error) {
	result := r.db.Model(&user.User{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	u, err := r.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return u, err
}
