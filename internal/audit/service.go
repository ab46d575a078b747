package audit

import (
	"context"
	"log/slog"

	"github.com/rahadianw/siteops/internal/core/events"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SubscribeTo registers the trail writer on the bus. Requests publish
// audit events fire-and-forget; a failed insert only logs.
func (s *Service) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(EventHTTPRequest, s.handleEvent)
}

func (s *Service) handleEvent(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		s.logger.Error("audit event with unexpected payload", "event_id", event.EventID())
		return nil
	}

	e := &Entry{
		Action:     stringField(data, "action"),
		EntityType: stringField(data, "entity_type"),
		IPAddress:  stringField(data, "ip_address"),
		UserAgent:  stringField(data, "user_agent"),
	}
	if v, ok := data["user_id"].(int64); ok {
		e.UserID = &v
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("audit log write failed", "error", err, "action", e.Action)
	}
	return nil
}

func (s *Service) List(filter Filter) ([]Entry, error) {
	return s.repo.List(filter)
}

func stringField(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}
