package material

import (
	"fmt"
	"log/slog"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/notification"
)

type Service struct {
	repo           Repository
	notifier       notification.Notifier
	dedupeLowStock bool
	logger         *slog.Logger
}

func NewService(repo Repository, notifier notification.Notifier, dedupeLowStock bool, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		notifier:       notifier,
		dedupeLowStock: dedupeLowStock,
		logger:         logger,
	}
}

func (s *Service) ListMaterials(filter CatalogFilter) ([]Material, error) {
	return s.repo.ListMaterials(filter)
}

func (s *Service) CreateMaterial(dto CreateMaterialDTO) (*Material, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m := &Material{
		Name:        dto.Name,
		Description: dto.Description,
		Unit:        dto.Unit,
		Category:    dto.Category,
	}

	if err := s.repo.CreateMaterial(m); err != nil {
		s.logger.Error("create material failed", "error", err, "name", dto.Name)
		return nil, err
	}
	return m, nil
}

func (s *Service) SiteInventory(siteID int64) ([]InventoryItem, error) {
	return s.repo.SiteInventory(siteID)
}

// RecordTransaction writes the ledger entry and the balance together. When
// the resulting balance is at or below the threshold and the site has a
// supervisor, a low-stock notification goes out in the same transaction.
func (s *Service) RecordTransaction(actor *auth.Account, dto TransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	txn := &Transaction{
		SiteID:          dto.SiteID,
		MaterialID:      dto.MaterialID,
		TransactionType: dto.TransactionType,
		Quantity:        dto.Quantity,
		UnitPrice:       dto.UnitPrice,
		Supplier:        dto.Supplier,
		Notes:           dto.Notes,
		CreatedBy:       actor.ID,
	}

	err := s.repo.RecordTransaction(txn, s.dedupeLowStock, func(alert LowStockAlert) *notification.Notification {
		return &notification.Notification{
			UserID:    alert.SupervisorID,
			Title:     "Low Stock Alert",
			Message:   fmt.Sprintf("Material %s is running low (%g remaining)", alert.MaterialName, alert.Remaining),
			Type:      notification.TypeMaterial,
			RelatedID: &dto.MaterialID,
		}
	})
	if err != nil {
		s.logger.Error("record material transaction failed", "error", err,
			"site_id", dto.SiteID, "material_id", dto.MaterialID, "type", dto.TransactionType)
		return nil, err
	}

	return txn, nil
}

// CreateRequisition files a request and notifies every admin and manager.
func (s *Service) CreateRequisition(actor *auth.Account, dto RequisitionDTO) (*Requisition, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rq := &Requisition{
		SiteID:      dto.SiteID,
		MaterialID:  dto.MaterialID,
		Quantity:    dto.Quantity,
		RequestedBy: actor.ID,
		Status:      RequisitionPending,
		Notes:       dto.Notes,
	}

	if err := s.repo.CreateRequisition(rq); err != nil {
		s.logger.Error("create requisition failed", "error", err, "site_id", dto.SiteID)
		return nil, err
	}

	materialName, err := s.repo.MaterialName(dto.MaterialID)
	if err != nil {
		materialName = "Material"
	}

	recipients, err := s.repo.AdminManagerIDs()
	if err != nil {
		s.logger.Error("requisition created but recipient lookup failed", "error", err, "requisition_id", rq.ID)
		return rq, nil
	}

	for _, userID := range recipients {
		n := &notification.Notification{
			UserID:    userID,
			Title:     "Material Requisition Request",
			Message:   fmt.Sprintf("New material requisition: %g %s", dto.Quantity, materialName),
			Type:      notification.TypeMaterial,
			RelatedID: &rq.ID,
		}
		if err := s.notifier.Notify(n); err != nil {
			s.logger.Error("requisition notification failed", "error", err, "user_id", userID)
		}
	}

	return rq, nil
}

// ListRequisitions returns requisitions visible to the actor. Workers only
// see their own.
func (s *Service) ListRequisitions(actor *auth.Account, filter RequisitionFilter) ([]Requisition, error) {
	if actor.Role == auth.RoleWorker {
		filter.RequestedBy = &actor.ID
	}
	return s.repo.ListRequisitions(filter)
}

// DecideRequisition approves or rejects a pending requisition and notifies
// the requester. Approval never creates a fulfilling transaction; that is
// a manual follow-up.
func (s *Service) DecideRequisition(actor *auth.Account, id int64, dto DecisionDTO) (*Requisition, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rq, err := s.repo.DecideRequisition(id, dto.Status, actor.ID)
	if err != nil {
		return nil, err
	}
	if rq == nil {
		return nil, internal.NewNotFoundError("Requisition not found", internal.ErrCodeNotFound)
	}

	n := &notification.Notification{
		UserID:    rq.RequestedBy,
		Title:     fmt.Sprintf("Requisition %s", dto.Status),
		Message:   fmt.Sprintf("Your material requisition has been %s", dto.Status),
		Type:      notification.TypeMaterial,
		RelatedID: &rq.ID,
	}
	if err := s.notifier.Notify(n); err != nil {
		s.logger.Error("requisition decision notification failed", "error", err, "requisition_id", rq.ID)
	}

	s.logger.Info("requisition decided", "requisition_id", rq.ID, "status", dto.Status, "decided_by", actor.ID)
	return rq, nil
}
