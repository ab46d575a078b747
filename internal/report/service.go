package report

import (
	"io"
	"log/slog"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
)

// recentActivityLimit caps the dashboard feed for privileged roles;
// workers see all of their own activities for the day.
const recentActivityLimit = 10

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Dashboard assembles the overview counters and today's activities,
// both scoped to the actor's role.
func (s *Service) Dashboard(actor *auth.Account) (*Dashboard, error) {
	scope := TaskScope{}
	switch actor.Role {
	case auth.RoleWorker:
		scope.AssignedTo = &actor.ID
	case auth.RoleSupervisor:
		scope.SupervisorID = &actor.ID
	}

	overview, err := s.repo.Overview(scope)
	if err != nil {
		s.logger.Error("dashboard overview failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	if actor.Role == auth.RoleWorker {
		feed, err := s.repo.TodayActivities(&actor.ID, 0)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Overview: *overview, RecentActivities: feed}, nil
	}

	feed, err := s.repo.TodayActivities(nil, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Overview: *overview, RecentActivities: feed}, nil
}

func (s *Service) TaskProgress(filter ProgressFilter) ([]TaskProgressRow, error) {
	return s.repo.TaskProgress(filter)
}

func (s *Service) MaterialUsage(filter UsageFilter) ([]MaterialUsageRow, error) {
	if filter.SiteID <= 0 {
		return nil, internal.NewValidationFieldError("site_id", "site ID is required", internal.ErrCodeValidationFailed)
	}
	return s.repo.MaterialUsage(filter)
}

func (s *Service) AttendanceSummary(filter SummaryFilter) ([]AttendanceSummaryRow, error) {
	return s.repo.AttendanceSummary(filter)
}

// ExportAttendanceSummary writes the summary as an XLSX workbook.
func (s *Service) ExportAttendanceSummary(filter SummaryFilter, w io.Writer) error {
	rows, err := s.repo.AttendanceSummary(filter)
	if err != nil {
		return err
	}
	return writeAttendanceWorkbook(rows, w)
}

func (s *Service) EquipmentStatus() ([]EquipmentStatusRow, error) {
	return s.repo.EquipmentStatus()
}
