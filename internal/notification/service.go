package notification

import (
	"log/slog"

	"github.com/rahadianw/siteops/internal"
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

// Notify creates a single notification. Failures are returned but callers
// generally log and continue; a lost notification never fails a workflow
// that has already committed.
func (s *Service) Notify(n *Notification) error {
	if n.Type == "" {
		n.Type = TypeSystem
	}
	if !ValidType(n.Type) {
		return internal.NewValidationFieldError("type", "invalid notification type", internal.ErrCodeValidationFailed)
	}
	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to create notification", "user_id", n.UserID, "type", n.Type, "error", err)
		return err
	}
	return nil
}

// NotifyAll creates a batch of notifications, one per recipient.
func (s *Service) NotifyAll(ns []*Notification) error {
	for _, n := range ns {
		if err := s.Notify(n); err != nil {
			return err
		}
	}
	return nil
}

// ListForUser returns the newest notifications for a user, capped at 100.
func (s *Service) ListForUser(userID int64, filter Filter) ([]Notification, error) {
	if filter.Type != "" && !ValidType(filter.Type) {
		return nil, internal.NewValidationFieldError("type", "invalid notification type", internal.ErrCodeValidationFailed)
	}
	return s.repo.ListForUser(userID, filter)
}

func (s *Service) UnreadCount(userID int64) (int64, error) {
	return s.repo.UnreadCount(userID)
}

// MarkRead marks a single notification read. Marking someone else's
// notification reports not found.
func (s *Service) MarkRead(id, userID int64) error {
	ok, err := s.repo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return internal.NewNotFoundError("Notification not found", internal.ErrCodeNotFound)
	}
	return nil
}

func (s *Service) MarkAllRead(userID int64) error {
	return s.repo.MarkAllRead(userID)
}

// Delete removes a notification owned by the user.
func (s *Service) Delete(id, userID int64) error {
	ok, err := s.repo.Delete(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return internal.NewNotFoundError("Notification not found", internal.ErrCodeNotFound)
	}
	return nil
}
