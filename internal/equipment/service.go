package equipment

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/notification"
)

var (
	ErrNotFound     = errors.New("equipment not found")
	ErrNotAvailable = errors.New("equipment is not available")
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

func (s *Service) List(filter Filter) ([]Equipment, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, internal.NewValidationFieldError("status", "invalid equipment status", internal.ErrCodeInvalidStatus)
	}
	return s.repo.List(filter)
}

func (s *Service) Get(id int64) (*Equipment, error) {
	e, err := s.repo.FindByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("Equipment not found", internal.ErrCodeNotFound)
	}
	return e, nil
}

func (s *Service) Create(dto CreateDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e := &Equipment{
		Name:                dto.Name,
		Type:                dto.Type,
		Model:               dto.Model,
		SerialNumber:        dto.SerialNumber,
		Status:              StatusAvailable,
		PurchaseDate:        dto.PurchaseDate,
		LastMaintenanceDate: dto.LastMaintenanceDate,
		NextMaintenanceDate: dto.NextMaintenanceDate,
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("create equipment failed", "error", err, "name", dto.Name)
		return nil, err
	}
	return e, nil
}

func (s *Service) Update(id int64, dto UpdateDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.Changes()
	if len(changes) == 0 {
		return nil, internal.NewValidationError("No fields to update", internal.ErrCodeValidationFailed)
	}

	e, err := s.repo.Update(id, changes)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, internal.NewNotFoundError("Equipment not found", internal.ErrCodeNotFound)
	}
	return e, nil
}

// StartUsage opens a usage session. Only available equipment can be taken;
// the usage row and the in_use flip commit together.
func (s *Service) StartUsage(actor *auth.Account, equipmentID int64, dto StartUsageDTO) (*Usage, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u := &Usage{
		EquipmentID: equipmentID,
		SiteID:      dto.SiteID,
		UserID:      actor.ID,
		StartDate:   *dto.StartDate,
		Status:      UsageActive,
		Notes:       dto.Notes,
	}

	if err := s.repo.StartUsage(u); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, internal.NewNotFoundError("Equipment not found", internal.ErrCodeNotFound)
		case errors.Is(err, ErrNotAvailable):
			return nil, internal.NewValidationError("Equipment is not available", internal.ErrCodeInvalidStatus)
		}
		s.logger.Error("start equipment usage failed", "error", err, "equipment_id", equipmentID)
		return nil, err
	}

	s.logger.Info("equipment usage started", "equipment_id", equipmentID, "usage_id", u.ID, "user_id", actor.ID)
	return u, nil
}

// EndUsage closes a usage session and restores the equipment to available.
func (s *Service) EndUsage(usageID int64) (*Usage, error) {
	u, err := s.repo.EndUsage(usageID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.NewNotFoundError("Usage record not found", internal.ErrCodeNotFound)
	}

	s.logger.Info("equipment usage ended", "usage_id", usageID, "equipment_id", u.EquipmentID)
	return u, nil
}

// ReportBreakdown files a damage report without checking the current
// status: the equipment is forced to broken and every admin and manager is
// notified, all in one transaction. A usage session left open by the
// report is not reconciled, only logged.
func (s *Service) ReportBreakdown(actor *auth.Account, equipmentID int64, dto BreakdownDTO) (*Breakdown, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	b := &Breakdown{
		EquipmentID: equipmentID,
		ReportedBy:  actor.ID,
		Description: dto.Description,
		Severity:    dto.Severity,
		Status:      BreakdownReported,
		Notes:       dto.Notes,
	}

	openUsageID, err := s.repo.ReportBreakdown(b, func(equipmentName string, recipient int64) *notification.Notification {
		return &notification.Notification{
			UserID:    recipient,
			Title:     "Equipment Breakdown",
			Message:   fmt.Sprintf("%s has broken down: %s", equipmentName, dto.Description),
			Type:      notification.TypeEquipment,
			RelatedID: &b.ID,
		}
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("Equipment not found", internal.ErrCodeNotFound)
		}
		s.logger.Error("report breakdown failed", "error", err, "equipment_id", equipmentID)
		return nil, err
	}

	if openUsageID != nil {
		s.logger.Warn("breakdown reported while a usage session is open",
			"equipment_id", equipmentID, "breakdown_id", b.ID, "usage_id", *openUsageID)
	}

	s.logger.Info("breakdown reported", "breakdown_id", b.ID, "equipment_id", equipmentID, "severity", b.Severity)
	return b, nil
}

func (s *Service) ListBreakdowns(filter BreakdownFilter) ([]Breakdown, error) {
	if filter.Severity != "" && !ValidSeverity(filter.Severity) {
		return nil, internal.NewValidationFieldError("severity", "invalid severity", internal.ErrCodeValidationFailed)
	}
	if filter.Status != "" && !ValidBreakdownStatus(filter.Status) {
		return nil, internal.NewValidationFieldError("status", "invalid breakdown status", internal.ErrCodeInvalidStatus)
	}
	return s.repo.ListBreakdowns(filter)
}

// UpdateBreakdown edits a report. Marking it fixed stamps fixed_at and is
// the only path that returns broken equipment to available.
func (s *Service) UpdateBreakdown(id int64, dto BreakdownUpdateDTO) (*Breakdown, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	fixed := false
	if dto.Status != nil {
		changes["status"] = *dto.Status
		if *dto.Status == BreakdownFixed {
			changes["fixed_at"] = time.Now()
			fixed = true
		}
	}
	if dto.RepairCost != nil {
		changes["repair_cost"] = *dto.RepairCost
	}
	if dto.Notes != nil {
		changes["notes"] = *dto.Notes
	}

	if len(changes) == 0 {
		return nil, internal.NewValidationError("No fields to update", internal.ErrCodeValidationFailed)
	}

	b, err := s.repo.UpdateBreakdown(id, changes, fixed)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, internal.NewNotFoundError("Breakdown not found", internal.ErrCodeNotFound)
	}

	if fixed {
		s.logger.Info("breakdown fixed, equipment restored", "breakdown_id", id, "equipment_id", b.EquipmentID)
	}
	return b, nil
}
