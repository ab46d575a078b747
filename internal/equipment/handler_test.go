package equipment_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/equipment"
)

type mockEquipmentService struct {
	startUsageCalled      bool
	startUsageEquipmentID int64
	startUsageActorID     int64
	startUsageDTO         equipment.StartUsageDTO
	startUsageError       error

	breakdownCalled      bool
	breakdownEquipmentID int64
	breakdownDTO         equipment.BreakdownDTO

	endUsageCalled  bool
	endUsageUsageID int64
}

func (m *mockEquipmentService) List(filter equipment.Filter) ([]equipment.Equipment, error) {
	return nil, nil
}

func (m *mockEquipmentService) Get(id int64) (*equipment.Equipment, error) {
	return &equipment.Equipment{ID: id, Name: "CAT 320 Excavator", Type: "excavator", Status: equipment.StatusAvailable}, nil
}

func (m *mockEquipmentService) Create(dto equipment.CreateDTO) (*equipment.Equipment, error) {
	return nil, nil
}

func (m *mockEquipmentService) Update(id int64, dto equipment.UpdateDTO) (*equipment.Equipment, error) {
	return nil, nil
}

func (m *mockEquipmentService) StartUsage(actor *auth.Account, equipmentID int64, dto equipment.StartUsageDTO) (*equipment.Usage, error) {
	m.startUsageCalled = true
	m.startUsageEquipmentID = equipmentID
	m.startUsageActorID = actor.ID
	m.startUsageDTO = dto
	if m.startUsageError != nil {
		return nil, m.startUsageError
	}
	return &equipment.Usage{
		ID:          1,
		EquipmentID: equipmentID,
		SiteID:      dto.SiteID,
		UserID:      actor.ID,
		StartDate:   *dto.StartDate,
		Status:      equipment.UsageActive,
	}, nil
}

func (m *mockEquipmentService) EndUsage(usageID int64) (*equipment.Usage, error) {
	m.endUsageCalled = true
	m.endUsageUsageID = usageID
	return &equipment.Usage{ID: usageID, Status: equipment.UsageCompleted}, nil
}

func (m *mockEquipmentService) ReportBreakdown(actor *auth.Account, equipmentID int64, dto equipment.BreakdownDTO) (*equipment.Breakdown, error) {
	m.breakdownCalled = true
	m.breakdownEquipmentID = equipmentID
	m.breakdownDTO = dto
	return &equipment.Breakdown{
		ID:          1,
		EquipmentID: equipmentID,
		ReportedBy:  actor.ID,
		Description: dto.Description,
		Severity:    dto.Severity,
		Status:      equipment.BreakdownReported,
	}, nil
}

func (m *mockEquipmentService) ListBreakdowns(filter equipment.BreakdownFilter) ([]equipment.Breakdown, error) {
	return nil, nil
}

func (m *mockEquipmentService) UpdateBreakdown(id int64, dto equipment.BreakdownUpdateDTO) (*equipment.Breakdown, error) {
	return nil, nil
}

var _ = Describe("Equipment Handler", func() {
	var (
		service *mockEquipmentService
		router  *chi.Mux

		operator *auth.Account
	)

	mountRoutes := func(h *equipment.Handler) *chi.Mux {
		r := chi.NewRouter()
		r.Route("/equipment", func(ur chi.Router) {
			ur.Get("/breakdowns", h.ListBreakdowns)
			ur.Patch("/usage/{id}/end", h.EndUsage)
			ur.Get("/{id}", h.Get)
			ur.Post("/{id}/usage", h.StartUsage)
			ur.Post("/{id}/breakdown", h.ReportBreakdown)
		})
		return r
	}

	authedRequest := func(method, target string, payload interface{}) *http.Request {
		var body bytes.Buffer
		if payload != nil {
			Expect(json.NewEncoder(&body).Encode(payload)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &body)
		req.Header.Set("Content-Type", "application/json")
		return req.WithContext(auth.ContextWithUser(req.Context(), operator))
	}

	BeforeEach(func() {
		service = &mockEquipmentService{}
		router = mountRoutes(equipment.NewHandler(service))

		operator = &auth.Account{ID: 5, Username: "worker1", Role: auth.RoleWorker}
	})

	Describe("POST /equipment/{id}/usage", func() {
		It("should route the equipment id from the path into the service", func() {
			// Given
			start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
			payload := equipment.StartUsageDTO{SiteID: 10, StartDate: &start}

			// When
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPost, "/equipment/7/usage", payload))

			// Then
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(service.startUsageCalled).To(BeTrue())
			Expect(service.startUsageEquipmentID).To(Equal(int64(7)))
			Expect(service.startUsageActorID).To(Equal(operator.ID))
			Expect(service.startUsageDTO.SiteID).To(Equal(int64(10)))

			var usage equipment.Usage
			Expect(json.NewDecoder(w.Body).Decode(&usage)).To(Succeed())
			Expect(usage.EquipmentID).To(Equal(int64(7)))
			Expect(usage.Status).To(Equal(equipment.UsageActive))
		})

		It("should reject a non-numeric equipment id", func() {
			// When
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPost, "/equipment/abc/usage", equipment.StartUsageDTO{SiteID: 10}))

			// Then
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(service.startUsageCalled).To(BeFalse())
		})

		It("should reject an unauthenticated request", func() {
			// Given
			start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
			var body bytes.Buffer
			Expect(json.NewEncoder(&body).Encode(equipment.StartUsageDTO{SiteID: 10, StartDate: &start})).To(Succeed())
			req := httptest.NewRequest(http.MethodPost, "/equipment/7/usage", &body)

			// When
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(service.startUsageCalled).To(BeFalse())
		})

		It("should surface an unavailable equipment error as a 400", func() {
			// Given
			service.startUsageError = internal.NewValidationError("Equipment is not available", internal.ErrCodeValidationFailed)
			start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

			// When
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPost, "/equipment/7/usage", equipment.StartUsageDTO{SiteID: 10, StartDate: &start}))

			// Then
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Equipment is not available"))
		})
	})

	Describe("POST /equipment/{id}/breakdown", func() {
		It("should route the equipment id from the path into the service", func() {
			// Given
			payload := equipment.BreakdownDTO{Description: "hydraulic hose burst", Severity: equipment.SeverityHigh}

			// When
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPost, "/equipment/7/breakdown", payload))

			// Then
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(service.breakdownCalled).To(BeTrue())
			Expect(service.breakdownEquipmentID).To(Equal(int64(7)))
			Expect(service.breakdownDTO.Description).To(Equal("hydraulic hose burst"))

			var b equipment.Breakdown
			Expect(json.NewDecoder(w.Body).Decode(&b)).To(Succeed())
			Expect(b.EquipmentID).To(Equal(int64(7)))
			Expect(b.Status).To(Equal(equipment.BreakdownReported))
		})

		It("should reject a non-numeric equipment id", func() {
			// When
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPost, "/equipment/abc/breakdown", equipment.BreakdownDTO{Description: "x", Severity: equipment.SeverityLow}))

			// Then
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(service.breakdownCalled).To(BeFalse())
		})

		It("should not shadow the static breakdowns listing", func() {
			// When
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodGet, "/equipment/breakdowns", nil))

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(service.breakdownCalled).To(BeFalse())
		})
	})

	Describe("PATCH /equipment/usage/{id}/end", func() {
		It("should route the usage id from the path into the service", func() {
			// When
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPatch, "/equipment/usage/42/end", nil))

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(service.endUsageCalled).To(BeTrue())
			Expect(service.endUsageUsageID).To(Equal(int64(42)))
		})
	})
})
