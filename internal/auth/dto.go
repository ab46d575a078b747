package auth

import (
	"errors"
	"strings"
)

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if strings.TrimSpace(dto.Username) == "" {
		return errors.New("username is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type RegisterDTO struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

func (dto RegisterDTO) Validate() error {
	if len(strings.TrimSpace(dto.Username)) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("invalid email")
	}
	if len(dto.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if !ValidRole(dto.Role) {
		return errors.New("invalid role")
	}
	if strings.TrimSpace(dto.FullName) == "" {
		return errors.New("full name is required")
	}
	return nil
}
