package material

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/transport"
	"github.com/rahadianw/siteops/pkg/logger"
)

type ServiceAPI interface {
	ListMaterials(filter CatalogFilter) ([]Material, error)
	CreateMaterial(dto CreateMaterialDTO) (*Material, error)
	SiteInventory(siteID int64) ([]InventoryItem, error)
	RecordTransaction(actor *auth.Account, dto TransactionDTO) (*Transaction, error)
	CreateRequisition(actor *auth.Account, dto RequisitionDTO) (*Requisition, error)
	ListRequisitions(actor *auth.Account, filter RequisitionFilter) ([]Requisition, error)
	DecideRequisition(actor *auth.Account, id int64, dto DecisionDTO) (*Requisition, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := CatalogFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	materials, err := h.Service.ListMaterials(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, materials)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateMaterialDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.CreateMaterial(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) SiteInventory(w http.ResponseWriter, r *http.Request) {
	siteID, err := strconv.ParseInt(chi.URLParam(r, "site_id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid site id")
		return
	}

	items, err := h.Service.SiteInventory(siteID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := h.Service.RecordTransaction(account, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, txn)
}

func (h *Handler) CreateRequisition(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RequisitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rq, err := h.Service.CreateRequisition(account, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rq)
}

func (h *Handler) ListRequisitions(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := RequisitionFilter{Status: r.URL.Query().Get("status")}
	if v := r.URL.Query().Get("site_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid site_id")
			return
		}
		filter.SiteID = &id
	}

	requisitions, err := h.Service.ListRequisitions(account, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requisitions)
}

func (h *Handler) DecideRequisition(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid requisition id")
		return
	}

	var dto DecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rq, err := h.Service.DecideRequisition(account, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rq)
}
