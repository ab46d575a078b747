package attendance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/notification"
)

type Service struct {
	repo     Repository
	notifier notification.Notifier
	logger   *slog.Logger
	// now is swappable for tests
	now func() time.Time
}

func NewService(repo Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns attendance visible to the actor. Workers only see their own.
func (s *Service) List(actor *auth.Account, filter Filter) ([]Attendance, error) {
	if actor.Role == auth.RoleWorker {
		filter.UserID = &actor.ID
	}
	return s.repo.List(filter)
}

// ClockIn opens today's attendance at the site. A second clock-in on the
// same day is rejected.
func (s *Service) ClockIn(actor *auth.Account, dto ClockDTO) (*Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	today := internal.NewDate(s.now())
	existing, err := s.repo.FindForDay(actor.ID, dto.SiteID, today)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.ClockIn != nil {
		return nil, internal.NewValidationError("Already clocked in today", internal.ErrCodeDuplicateEntry)
	}

	clockIn := s.now()
	if existing != nil {
		return s.repo.Update(existing.ID, map[string]interface{}{
			"clock_in": clockIn,
			"status":   StatusPresent,
		})
	}

	a := &Attendance{
		UserID:         actor.ID,
		SiteID:         dto.SiteID,
		AttendanceDate: today,
		ClockIn:        &clockIn,
		Status:         StatusPresent,
		MarkedBy:       &actor.ID,
	}
	if err := s.repo.Create(a); err != nil {
		s.logger.Error("clock in failed", "error", err, "user_id", actor.ID, "site_id", dto.SiteID)
		return nil, err
	}
	return a, nil
}

// ClockOut closes today's attendance, computing hours_worked exactly once.
func (s *Service) ClockOut(actor *auth.Account, dto ClockDTO) (*Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	today := internal.NewDate(s.now())
	existing, err := s.repo.FindForDay(actor.ID, dto.SiteID, today)
	if err != nil {
		return nil, err
	}

	if existing == nil || existing.ClockIn == nil {
		return nil, internal.NewValidationError("Must clock in first", internal.ErrCodeValidationFailed)
	}
	if existing.ClockOut != nil {
		return nil, internal.NewValidationError("Already clocked out today", internal.ErrCodeDuplicateEntry)
	}

	clockOut := s.now()
	hoursWorked := clockOut.Sub(*existing.ClockIn).Hours()

	return s.repo.Update(existing.ID, map[string]interface{}{
		"clock_out":    clockOut,
		"hours_worked": hoursWorked,
	})
}

// Mark upserts an attendance row directly, bypassing the clock in/out
// state machine. Privileged roles only; router-gated.
func (s *Service) Mark(actor *auth.Account, dto MarkDTO) (*Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a := &Attendance{
		UserID:         dto.UserID,
		SiteID:         dto.SiteID,
		AttendanceDate: *dto.AttendanceDate,
		ClockIn:        dto.ClockIn,
		ClockOut:       dto.ClockOut,
		HoursWorked:    dto.HoursWorked,
		Status:         dto.Status,
		Notes:          dto.Notes,
		MarkedBy:       &actor.ID,
	}

	if err := s.repo.Mark(a); err != nil {
		s.logger.Error("mark attendance failed", "error", err, "user_id", dto.UserID, "site_id", dto.SiteID)
		return nil, err
	}

	s.logger.Info("attendance marked", "user_id", dto.UserID, "site_id", dto.SiteID,
		"date", dto.AttendanceDate.String(), "marked_by", actor.ID)
	return a, nil
}

// CreateLeaveRequest files a request and notifies every admin and manager.
func (s *Service) CreateLeaveRequest(actor *auth.Account, dto LeaveRequestDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	lr := &LeaveRequest{
		UserID:    actor.ID,
		LeaveType: dto.LeaveType,
		StartDate: *dto.StartDate,
		EndDate:   *dto.EndDate,
		Reason:    dto.Reason,
		Status:    LeavePending,
	}

	if err := s.repo.CreateLeaveRequest(lr); err != nil {
		s.logger.Error("create leave request failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	recipients, err := s.repo.AdminManagerIDs()
	if err != nil {
		s.logger.Error("leave request created but recipient lookup failed", "error", err, "leave_request_id", lr.ID)
		return lr, nil
	}

	for _, userID := range recipients {
		n := &notification.Notification{
			UserID:    userID,
			Title:     "Leave Request",
			Message:   fmt.Sprintf("New leave request from %s", actor.Username),
			Type:      notification.TypeAttendance,
			RelatedID: &lr.ID,
		}
		if err := s.notifier.Notify(n); err != nil {
			s.logger.Error("leave request notification failed", "error", err, "user_id", userID)
		}
	}

	return lr, nil
}

// ListLeaveRequests returns requests visible to the actor. Workers only
// see their own.
func (s *Service) ListLeaveRequests(actor *auth.Account, filter LeaveFilter) ([]LeaveRequest, error) {
	if actor.Role == auth.RoleWorker {
		filter.UserID = &actor.ID
	}
	return s.repo.ListLeaveRequests(filter)
}

// DecideLeaveRequest approves or rejects a request and notifies the
// requester.
func (s *Service) DecideLeaveRequest(actor *auth.Account, id int64, dto LeaveDecisionDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	lr, err := s.repo.DecideLeaveRequest(id, dto.Status, actor.ID)
	if err != nil {
		return nil, err
	}
	if lr == nil {
		return nil, internal.NewNotFoundError("Leave request not found", internal.ErrCodeNotFound)
	}

	n := &notification.Notification{
		UserID:    lr.UserID,
		Title:     fmt.Sprintf("Leave Request %s", dto.Status),
		Message:   fmt.Sprintf("Your leave request has been %s", dto.Status),
		Type:      notification.TypeAttendance,
		RelatedID: &lr.ID,
	}
	if err := s.notifier.Notify(n); err != nil {
		s.logger.Error("leave decision notification failed", "error", err, "leave_request_id", lr.ID)
	}

	s.logger.Info("leave request decided", "leave_request_id", lr.ID, "status", dto.Status, "decided_by", actor.ID)
	return lr, nil
}
