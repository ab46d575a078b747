package attendance

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/transport"
	"github.com/rahadianw/siteops/pkg/logger"
)

type ServiceAPI interface {
	List(actor *auth.Account, filter Filter) ([]Attendance, error)
	ClockIn(actor *auth.Account, dto ClockDTO) (*Attendance, error)
	ClockOut(actor *auth.Account, dto ClockDTO) (*Attendance, error)
	Mark(actor *auth.Account, dto MarkDTO) (*Attendance, error)
	CreateLeaveRequest(actor *auth.Account, dto LeaveRequestDTO) (*LeaveRequest, error)
	ListLeaveRequests(actor *auth.Account, filter LeaveFilter) ([]LeaveRequest, error)
	DecideLeaveRequest(actor *auth.Account, id int64, dto LeaveDecisionDTO) (*LeaveRequest, error)
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
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := Filter{}
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter.UserID = &id
	}
	if v := r.URL.Query().Get("site_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid site_id")
			return
		}
		filter.SiteID = &id
	}
	if v := r.URL.Query().Get("attendance_date"); v != "" {
		date, err := internal.ParseDate(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid attendance_date")
			return
		}
		filter.AttendanceDate = &date
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		date, err := internal.ParseDate(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		filter.StartDate = &date
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		date, err := internal.ParseDate(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		filter.EndDate = &date
	}

	records, err := h.Service.List(account, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.ClockIn(account, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.ClockOut(account, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) Mark(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto MarkDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Mark(account, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto LeaveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lr, err := h.Service.CreateLeaveRequest(account, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, lr)
}

func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := LeaveFilter{Status: r.URL.Query().Get("status")}
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter.UserID = &id
	}

	requests, err := h.Service.ListLeaveRequests(account, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) DecideLeaveRequest(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave request id")
		return
	}

	var dto LeaveDecisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lr, err := h.Service.DecideLeaveRequest(account, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, lr)
}
