package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
	RoleWorker     = "worker"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleSupervisor, RoleWorker:
		return true
	}
	return false
}

// Account is the authenticated identity attached to every request.
type Account struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         string    `json:"role" gorm:"not null"`
	FullName     string    `json:"full_name" gorm:"column:full_name;not null"`
	Phone        *string   `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "users"
}

// Claims represents JWT token claims
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates bearer tokens.
type TokenGenerator interface {
	GenerateToken(account *Account) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthResponse struct {
	Message string   `json:"message"`
	User    *Account `json:"user"`
	Token   string   `json:"token"`
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*Account, bool) {
	account, ok := ctx.Value(ContextUserKey).(*Account)
	return account, ok
}

func ContextWithUser(ctx context.Context, account *Account) context.Context {
	return context.WithValue(ctx, ContextUserKey, account)
}
