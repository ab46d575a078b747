package material_test

import (
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/material"
	"github.com/rahadianw/siteops/internal/notification"
)

func TestMaterial(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Material Suite")
}

type mockMaterialRepository struct {
	materials    map[int64]*material.Material
	requisitions map[int64]*material.Requisition
	nextID       int64

	adminManagerIDs []int64
	lowStockAlert   *material.LowStockAlert

	composedNotification *notification.Notification
	lastDedupe           bool
	lastReqFilter        material.RequisitionFilter

	transactionError error
	requisitionError error
	recipientsError  error
}

func newMockMaterialRepository() *mockMaterialRepository {
	return &mockMaterialRepository{
		materials:    make(map[int64]*material.Material),
		requisitions: make(map[int64]*material.Requisition),
		nextID:       1,
	}
}

func (m *mockMaterialRepository) ListMaterials(filter material.CatalogFilter) ([]material.Material, error) {
	var out []material.Material
	for _, mat := range m.materials {
		out = append(out, *mat)
	}
	return out, nil
}

func (m *mockMaterialRepository) CreateMaterial(mat *material.Material) error {
	mat.ID = m.nextID
	m.nextID++
	stored := *mat
	m.materials[mat.ID] = &stored
	return nil
}

func (m *mockMaterialRepository) MaterialName(id int64) (string, error) {
	mat, ok := m.materials[id]
	if !ok {
		return "", errors.New("record not found")
	}
	return mat.Name, nil
}

func (m *mockMaterialRepository) SiteInventory(siteID int64) ([]material.InventoryItem, error) {
	return nil, nil
}

func (m *mockMaterialRepository) RecordTransaction(txn *material.Transaction, dedupe bool, compose func(material.LowStockAlert) *notification.Notification) error {
	if m.transactionError != nil {
		return m.transactionError
	}
	txn.ID = m.nextID
	m.nextID++
	m.lastDedupe = dedupe
	if m.lowStockAlert != nil {
		m.composedNotification = compose(*m.lowStockAlert)
	}
	return nil
}

func (m *mockMaterialRepository) CreateRequisition(rq *material.Requisition) error {
	if m.requisitionError != nil {
		return m.requisitionError
	}
	rq.ID = m.nextID
	m.nextID++
	stored := *rq
	m.requisitions[rq.ID] = &stored
	return nil
}

func (m *mockMaterialRepository) ListRequisitions(filter material.RequisitionFilter) ([]material.Requisition, error) {
	m.lastReqFilter = filter
	var out []material.Requisition
	for _, rq := range m.requisitions {
		if filter.RequestedBy != nil && rq.RequestedBy != *filter.RequestedBy {
			continue
		}
		out = append(out, *rq)
	}
	return out, nil
}

func (m *mockMaterialRepository) DecideRequisition(id int64, status string, approverID int64) (*material.Requisition, error) {
	rq, ok := m.requisitions[id]
	if !ok {
		return nil, nil
	}
	rq.Status = status
	rq.ApprovedBy = &approverID
	copy := *rq
	return &copy, nil
}

func (m *mockMaterialRepository) AdminManagerIDs() ([]int64, error) {
	if m.recipientsError != nil {
		return nil, m.recipientsError
	}
	return m.adminManagerIDs, nil
}

type mockNotifier struct {
	sent        []*notification.Notification
	notifyError error
}

func (m *mockNotifier) Notify(n *notification.Notification) error {
	if m.notifyError != nil {
		return m.notifyError
	}
	m.sent = append(m.sent, n)
	return nil
}

func (m *mockNotifier) NotifyAll(ns []*notification.Notification) error {
	for _, n := range ns {
		if err := m.Notify(n); err != nil {
			return err
		}
	}
	return nil
}

var _ = Describe("Material Service", func() {
	var (
		repo     *mockMaterialRepository
		notifier *mockNotifier
		service  *material.Service

		manager *auth.Account
		worker  *auth.Account
	)

	BeforeEach(func() {
		repo = newMockMaterialRepository()
		notifier = &mockNotifier{}
		service = material.NewService(repo, notifier, false, slog.Default())

		manager = &auth.Account{ID: 1, Username: "manager", Role: auth.RoleManager}
		worker = &auth.Account{ID: 2, Username: "worker", Role: auth.RoleWorker}
	})

	Describe("CreateMaterial", func() {
		It("should create a catalog entry", func() {
			// Given
			dto := material.CreateMaterialDTO{Name: "Portland Cement", Unit: "bag"}

			// When
			created, err := service.CreateMaterial(dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).ToNot(BeZero())
			Expect(created.Name).To(Equal("Portland Cement"))
		})

		It("should require name and unit", func() {
			// When
			_, err := service.CreateMaterial(material.CreateMaterialDTO{})

			// Then
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("RecordTransaction", func() {
		It("should record a delivery", func() {
			// Given
			dto := material.TransactionDTO{
				SiteID:          10,
				MaterialID:      5,
				TransactionType: material.TransactionDelivery,
				Quantity:        50,
			}

			// When
			txn, err := service.RecordTransaction(worker, dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(txn.ID).ToNot(BeZero())
			Expect(txn.CreatedBy).To(Equal(worker.ID))
			Expect(repo.lastDedupe).To(BeFalse())
		})

		It("should compose a low-stock alert for the site supervisor", func() {
			// Given
			repo.lowStockAlert = &material.LowStockAlert{
				MaterialName: "Portland Cement",
				Remaining:    12.5,
				SupervisorID: 7,
			}
			dto := material.TransactionDTO{
				SiteID:          10,
				MaterialID:      5,
				TransactionType: material.TransactionUsage,
				Quantity:        30,
			}

			// When
			_, err := service.RecordTransaction(worker, dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.composedNotification).ToNot(BeNil())
			Expect(repo.composedNotification.UserID).To(Equal(int64(7)))
			Expect(repo.composedNotification.Title).To(Equal("Low Stock Alert"))
			Expect(repo.composedNotification.Message).To(Equal("Material Portland Cement is running low (12.5 remaining)"))
			Expect(repo.composedNotification.Type).To(Equal(notification.TypeMaterial))
			Expect(repo.composedNotification.RelatedID).ToNot(BeNil())
			Expect(*repo.composedNotification.RelatedID).To(Equal(dto.MaterialID))
		})

		It("should reject an unknown transaction type", func() {
			// Given
			dto := material.TransactionDTO{
				SiteID:          10,
				MaterialID:      5,
				TransactionType: "theft",
				Quantity:        1,
			}

			// When
			_, err := service.RecordTransaction(worker, dto)

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should reject a non-positive quantity", func() {
			// Given
			dto := material.TransactionDTO{
				SiteID:          10,
				MaterialID:      5,
				TransactionType: material.TransactionDelivery,
				Quantity:        0,
			}

			// When
			_, err := service.RecordTransaction(worker, dto)

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should propagate repository failures", func() {
			// Given
			repo.transactionError = errors.New("deadlock detected")
			dto := material.TransactionDTO{
				SiteID:          10,
				MaterialID:      5,
				TransactionType: material.TransactionDelivery,
				Quantity:        50,
			}

			// When
			_, err := service.RecordTransaction(worker, dto)

			// Then
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CreateRequisition", func() {
		BeforeEach(func() {
			Expect(repo.CreateMaterial(&material.Material{Name: "Rebar 12mm", Unit: "ton"})).To(Succeed())
			repo.adminManagerIDs = []int64{1, 3}
		})

		It("should file the request and notify admins and managers", func() {
			// Given
			dto := material.RequisitionDTO{SiteID: 10, MaterialID: 1, Quantity: 2}

			// When
			rq, err := service.CreateRequisition(worker, dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(rq.Status).To(Equal(material.RequisitionPending))
			Expect(rq.RequestedBy).To(Equal(worker.ID))

			Expect(notifier.sent).To(HaveLen(2))
			Expect(notifier.sent[0].Title).To(Equal("Material Requisition Request"))
			Expect(notifier.sent[0].Message).To(Equal("New material requisition: 2 Rebar 12mm"))
			Expect(notifier.sent[0].UserID).To(Equal(int64(1)))
			Expect(notifier.sent[1].UserID).To(Equal(int64(3)))
		})

		It("should still return the requisition when recipient lookup fails", func() {
			// Given
			repo.recipientsError = errors.New("connection refused")
			dto := material.RequisitionDTO{SiteID: 10, MaterialID: 1, Quantity: 2}

			// When
			rq, err := service.CreateRequisition(worker, dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(rq).ToNot(BeNil())
			Expect(notifier.sent).To(BeEmpty())
		})

		It("should reject a non-positive quantity", func() {
			// When
			_, err := service.CreateRequisition(worker, material.RequisitionDTO{SiteID: 10, MaterialID: 1})

			// Then
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListRequisitions", func() {
		It("should scope workers to their own requisitions", func() {
			// When
			_, err := service.ListRequisitions(worker, material.RequisitionFilter{})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastReqFilter.RequestedBy).ToNot(BeNil())
			Expect(*repo.lastReqFilter.RequestedBy).To(Equal(worker.ID))
		})

		It("should not scope elevated roles", func() {
			// When
			_, err := service.ListRequisitions(manager, material.RequisitionFilter{})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastReqFilter.RequestedBy).To(BeNil())
		})
	})

	Describe("DecideRequisition", func() {
		var requisitionID int64

		BeforeEach(func() {
			Expect(repo.CreateMaterial(&material.Material{Name: "Rebar 12mm", Unit: "ton"})).To(Succeed())
			rq, err := service.CreateRequisition(worker, material.RequisitionDTO{SiteID: 10, MaterialID: 1, Quantity: 2})
			Expect(err).ToNot(HaveOccurred())
			requisitionID = rq.ID
			notifier.sent = nil
		})

		It("should approve and notify the requester", func() {
			// When
			rq, err := service.DecideRequisition(manager, requisitionID, material.DecisionDTO{Status: material.RequisitionApproved})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(rq.Status).To(Equal(material.RequisitionApproved))
			Expect(rq.ApprovedBy).ToNot(BeNil())
			Expect(*rq.ApprovedBy).To(Equal(manager.ID))

			Expect(notifier.sent).To(HaveLen(1))
			Expect(notifier.sent[0].UserID).To(Equal(worker.ID))
			Expect(notifier.sent[0].Title).To(Equal("Requisition approved"))
			Expect(notifier.sent[0].Message).To(Equal("Your material requisition has been approved"))
		})

		It("should reject an unknown decision status", func() {
			// When
			_, err := service.DecideRequisition(manager, requisitionID, material.DecisionDTO{Status: "maybe"})

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should return not found for an unknown requisition", func() {
			// When
			_, err := service.DecideRequisition(manager, 404, material.DecisionDTO{Status: material.RequisitionRejected})

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})
})
