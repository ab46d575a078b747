package user

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
)

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(filter Filter) ([]User, error) {
	if filter.Role != "" && !auth.ValidRole(filter.Role) {
		return nil, internal.NewValidationFieldError("role", "invalid role", internal.ErrCodeInvalidRole)
	}
	return s.repo.List(filter)
}

// Get returns a user. Non-elevated actors may only look at themselves.
func (s *Service) Get(actor *auth.Account, id int64) (*User, error) {
	if actor.Role != auth.RoleAdmin && actor.Role != auth.RoleManager && actor.ID != id {
		return nil, internal.ErrInsufficientPermissions
	}

	u, err := s.repo.FindByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeNotFound)
	}
	return u, nil
}

func (s *Service) Create(dto CreateDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(dto.Username, dto.Email)
	if err != nil {
		s.logger.Error("create user: uniqueness check failed", "error", err, "username", dto.Username)
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         dto.Role,
		FullName:     dto.FullName,
		Phone:        dto.Phone,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("create user failed", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) Update(id int64, dto UpdateDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.Changes()
	if len(changes) == 0 {
		return nil, internal.NewValidationError("No fields to update", internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.Update(id, changes)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeNotFound)
	}
	return u, nil
}

// Deactivate soft-disables an account. Users are never hard-deleted.
func (s *Service) Deactivate(id int64) (*User, error) {
	u, err := s.repo.Deactivate(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeNotFound)
	}

	s.logger.Info("user deactivated", "user_id", id)
	return u, nil
}
