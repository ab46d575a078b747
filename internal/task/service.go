package task

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/notification"
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

// List returns tasks visible to the actor. Workers only see their own.
func (s *Service) List(actor *auth.Account, filter Filter) ([]Task, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, internal.NewValidationFieldError("status", "invalid task status", internal.ErrCodeInvalidStatus)
	}
	if filter.Priority != "" && !ValidPriority(filter.Priority) {
		return nil, internal.NewValidationFieldError("priority", "invalid priority", internal.ErrCodeValidationFailed)
	}

	if actor.Role == auth.RoleWorker {
		filter.AssignedTo = &actor.ID
	}

	return s.repo.List(filter)
}

// Get returns a task with its progress history, newest update first.
func (s *Service) Get(id int64) (*Detail, error) {
	t, err := s.repo.FindByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("Task not found", internal.ErrCodeNotFound)
	}

	updates, err := s.repo.ListUpdates(id)
	if err != nil {
		return nil, err
	}

	return &Detail{Task: *t, Updates: updates}, nil
}

// Create makes a task and notifies the assignee in the same transaction.
func (s *Service) Create(actor *auth.Account, dto CreateDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := &Task{
		SiteID:      dto.SiteID,
		Title:       dto.Title,
		Description: dto.Description,
		AssignedTo:  dto.AssignedTo,
		AssignedBy:  actor.ID,
		Status:      StatusPending,
		Priority:    priority,
		DueDate:     dto.DueDate,
	}

	notify := &notification.Notification{
		UserID:  dto.AssignedTo,
		Title:   "New Task Assigned",
		Message: fmt.Sprintf("You have been assigned a new task: %s", dto.Title),
		Type:    notification.TypeTask,
	}

	if err := s.repo.Create(t, notify); err != nil {
		s.logger.Error("create task failed", "error", err, "site_id", dto.SiteID)
		return nil, err
	}

	s.logger.Info("task created", "task_id", t.ID, "assigned_to", t.AssignedTo, "assigned_by", actor.ID)
	return t, nil
}

// Update edits task fields. Elevated roles may edit anything; the assignee
// may edit everything except reassignment, which is silently skipped for
// non-elevated actors. Completing a task stamps completed_at; reverting the
// status later never clears the stamp.
func (s *Service) Update(actor *auth.Account, id int64, dto UpdateDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.FindByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("Task not found", internal.ErrCodeNotFound)
	}

	elevated := auth.IsElevated(actor.Role)
	if !elevated && t.AssignedTo != actor.ID {
		return nil, internal.ErrInsufficientPermissions
	}

	changes := map[string]interface{}{}
	if dto.Title != nil {
		changes["title"] = *dto.Title
	}
	if dto.Description != nil {
		changes["description"] = *dto.Description
	}
	if dto.Status != nil {
		changes["status"] = *dto.Status
		if *dto.Status == StatusCompleted {
			changes["completed_at"] = time.Now()
		}
	}
	if dto.Priority != nil {
		changes["priority"] = *dto.Priority
	}
	if dto.DueDate != nil {
		changes["due_date"] = *dto.DueDate
	}
	if dto.AssignedTo != nil && elevated {
		changes["assigned_to"] = *dto.AssignedTo
	}

	if len(changes) == 0 {
		return nil, internal.NewValidationError("No fields to update", internal.ErrCodeValidationFailed)
	}

	updated, err := s.repo.Update(id, changes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, internal.NewNotFoundError("Task not found", internal.ErrCodeNotFound)
	}
	return updated, nil
}

// AddProgress appends a progress report. Reporting 100% completes the
// parent task regardless of any explicit status change.
func (s *Service) AddProgress(actor *auth.Account, taskID int64, dto ProgressDTO) (*Update, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, internal.NewNotFoundError("Task not found", internal.ErrCodeNotFound)
	}

	if !auth.IsElevated(actor.Role) && t.AssignedTo != actor.ID {
		return nil, internal.ErrInsufficientPermissions
	}

	u := &Update{
		TaskID:             taskID,
		UpdatedBy:          actor.ID,
		ProgressPercentage: dto.ProgressPercentage,
		Notes:              dto.Notes,
	}

	completeParent := dto.ProgressPercentage == 100
	if err := s.repo.AppendUpdate(u, completeParent); err != nil {
		s.logger.Error("append task update failed", "error", err, "task_id", taskID)
		return nil, err
	}

	if completeParent {
		s.logger.Info("task completed via progress update", "task_id", taskID, "updated_by", actor.ID)
	}
	return u, nil
}

// ListDailyActivities returns the activity log, defaulting to today.
// Workers only see their own entries.
func (s *Service) ListDailyActivities(actor *auth.Account, filter ActivityFilter) ([]DailyActivity, error) {
	if filter.ActivityDate == nil {
		today := internal.Today()
		filter.ActivityDate = &today
	}
	if actor.Role == auth.RoleWorker {
		filter.UserID = &actor.ID
	}
	return s.repo.ListDailyActivities(filter)
}

// CreateDailyActivity appends an activity log entry for the actor.
func (s *Service) CreateDailyActivity(actor *auth.Account, dto ActivityDTO) (*DailyActivity, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	activityDate := internal.Today()
	if dto.ActivityDate != nil {
		activityDate = *dto.ActivityDate
	}

	a := &DailyActivity{
		SiteID:       dto.SiteID,
		UserID:       actor.ID,
		ActivityDate: activityDate,
		Description:  dto.Description,
		HoursWorked:  dto.HoursWorked,
	}

	if err := s.repo.CreateDailyActivity(a); err != nil {
		s.logger.Error("create daily activity failed", "error", err, "site_id", dto.SiteID)
		return nil, err
	}
	return a, nil
}
