package site

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

// List returns sites visible to the actor. Workers only see sites they
// are assigned to.
func (s *Service) List(actor *auth.Account, filter Filter) ([]Site, error) {
	if actor.Role == auth.RoleWorker {
		filter.WorkerID = &actor.ID
	}
	return s.repo.List(filter)
}

func (s *Service) Get(id int64) (*Site, error) {
	site, err := s.repo.FindByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("Site not found", internal.ErrCodeNotFound)
	}
	return site, nil
}

// ListByProject returns all sites of one project, newest first.
func (s *Service) ListByProject(projectID int64) ([]Site, error) {
	return s.repo.List(Filter{ProjectID: &projectID})
}

// Create makes a site. A supervisor creating without naming one becomes
// the site's supervisor.
func (s *Service) Create(actor *auth.Account, dto CreateDTO) (*Site, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = "active"
	}

	supervisorID := dto.SupervisorID
	if supervisorID == nil && actor.Role == auth.RoleSupervisor {
		supervisorID = &actor.ID
	}

	site := &Site{
		ProjectID:    dto.ProjectID,
		Name:         dto.Name,
		Location:     dto.Location,
		SupervisorID: supervisorID,
		Status:       status,
	}

	if err := s.repo.Create(site); err != nil {
		s.logger.Error("create site failed", "error", err, "project_id", dto.ProjectID)
		return nil, err
	}

	s.logger.Info("site created", "site_id", site.ID, "project_id", site.ProjectID)
	return site, nil
}

func (s *Service) Update(id int64, dto UpdateDTO) (*Site, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.Changes()
	if len(changes) == 0 {
		return nil, internal.NewValidationError("No fields to update", internal.ErrCodeValidationFailed)
	}

	site, err := s.repo.Update(id, changes)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, internal.NewNotFoundError("Site not found", internal.ErrCodeNotFound)
	}
	return site, nil
}

// AssignWorker adds a worker to the site team. The (site, worker) pair is
// unique; a repeat assignment is rejected as a conflict.
func (s *Service) AssignWorker(siteID int64, dto AssignWorkerDTO) (*TeamAssignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	assignment, err := s.repo.AssignWorker(siteID, dto.WorkerID)
	if err != nil {
		s.logger.Error("assign worker failed", "error", err, "site_id", siteID, "worker_id", dto.WorkerID)
		return nil, err
	}
	if assignment == nil {
		return nil, internal.NewConflictError("Worker already assigned to this site", internal.ErrCodeDuplicateEntry)
	}

	return assignment, nil
}

func (s *Service) Team(siteID int64) ([]TeamMember, error) {
	return s.repo.Team(siteID)
}

func (s *Service) RemoveWorker(siteID, workerID int64) error {
	removed, err := s.repo.RemoveWorker(siteID, workerID)
	if err != nil {
		return err
	}
	if !removed {
		return internal.NewNotFoundError("Worker not found in site team", internal.ErrCodeNotFound)
	}
	return nil
}
