package project

import (
	"log/slog"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns projects visible to the actor. Workers only see projects
// whose sites they are assigned to.
func (s *Service) List(actor *auth.Account, filter Filter) ([]Project, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, internal.NewValidationFieldError("status", "invalid project status", internal.ErrCodeInvalidStatus)
	}

	if actor.Role == auth.RoleWorker {
		filter.WorkerID = &actor.ID
	}

	return s.repo.List(filter)
}

func (s *Service) Get(id int64) (*Project, error) {
	p, err := s.repo.FindByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("Project not found", internal.ErrCodeNotFound)
	}
	return p, nil
}

// Create makes a project. A manager creating without naming a manager
// becomes the project's manager.
func (s *Service) Create(actor *auth.Account, dto CreateDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusActive
	}

	managerID := dto.ManagerID
	if managerID == nil && actor.Role == auth.RoleManager {
		managerID = &actor.ID
	}

	p := &Project{
		Name:        dto.Name,
		Description: dto.Description,
		Location:    dto.Location,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		Status:      status,
		ManagerID:   managerID,
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("create project failed", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("project created", "project_id", p.ID, "created_by", actor.ID)
	return p, nil
}

func (s *Service) Update(id int64, dto UpdateDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.Changes()
	if len(changes) == 0 {
		return nil, internal.NewValidationError("No fields to update", internal.ErrCodeValidationFailed)
	}

	p, err := s.repo.Update(id, changes)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, internal.NewNotFoundError("Project not found", internal.ErrCodeNotFound)
	}
	return p, nil
}
