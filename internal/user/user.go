package user

import (
	"errors"
	"time"
)

var (
	ErrDuplicateUser = errors.New("username or email already exists")
)

// User is the administrative view of an account. The auth package owns
// credentials and token handling; this package owns user administration.
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	Role         string     `json:"role" gorm:"not null"`
	FullName     string     `json:"full_name" gorm:"column:full_name;not null"`
	Phone        *string    `json:"phone,omitempty"`
	IsActive     bool       `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// Filter narrows user listings.
type Filter struct {
	Role   string
	Search string
}

// Repository defines storage operations for user administration.
type Repository interface {
	List(filter Filter) ([]User, error)
	FindByID(id int64) (*User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	Create(u *User) error
	Update(id int64, changes map[string]interface{}) (*User, error)
	Deactivate(id int64) (*User, error)
}
