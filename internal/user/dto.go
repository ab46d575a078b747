package user

import (
	"strings"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
)

type CreateDTO struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
}

func (d CreateDTO) Validate() error {
	var errs internal.ValidationErrors

	if len(strings.TrimSpace(d.Username)) < 3 {
		errs.Add("username", "username must be at least 3 characters")
	}
	if !strings.Contains(d.Email, "@") {
		errs.Add("email", "invalid email")
	}
	if len(d.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}
	if !auth.ValidRole(d.Role) {
		errs.Add("role", "invalid role")
	}
	if strings.TrimSpace(d.FullName) == "" {
		errs.Add("full_name", "full name is required")
	}

	return errs.ErrorOrNil()
}

// UpdateDTO is a partial update; nil fields are left untouched.
type UpdateDTO struct {
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

func (d UpdateDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.Email != nil && !strings.Contains(*d.Email, "@") {
		errs.Add("email", "invalid email")
	}
	if d.Role != nil && !auth.ValidRole(*d.Role) {
		errs.Add("role", "invalid role")
	}
	if d.FullName != nil && strings.TrimSpace(*d.FullName) == "" {
		errs.Add("full_name", "full name cannot be empty")
	}

	return errs.ErrorOrNil()
}

// Changes maps the set fields onto column updates.
func (d UpdateDTO) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if d.Email != nil {
		changes["email"] = *d.Email
	}
	if d.Role != nil {
		changes["role"] = *d.Role
	}
	if d.FullName != nil {
		changes["full_name"] = *d.FullName
	}
	if d.Phone != nil {
		changes["phone"] = *d.Phone
	}
	if d.IsActive != nil {
		changes["is_active"] = *d.IsActive
	}
	return changes
}
