package postgres

import (
	"github.com/rahadianw/siteops/internal/auth"
	"gorm.io/gorm"
)

// AuthRepository implements auth.Repository using GORM over the users table.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.Repository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) FindByLogin(login string) (*auth.Account, error) {
	var account auth.Account
	err := r.db.Where("username = ? OR email = ?", login, login).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AuthRepository) FindByID(id int64) (*auth.Account, error) {
	var account auth.Account
	err := r.db.Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AuthRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&auth.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *AuthRepository) Create(account *auth.Account) error {
	return r.db.Create(account).Error
}
