package report

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/transport"
	"github.com/rahadianw/siteops/pkg/logger"
)

type ServiceAPI interface {
	Dashboard(actor *auth.Account) (*Dashboard, error)
	TaskProgress(filter ProgressFilter) ([]TaskProgressRow, error)
	MaterialUsage(filter UsageFilter) ([]MaterialUsageRow, error)
	AttendanceSummary(filter SummaryFilter) ([]AttendanceSummaryRow, error)
	ExportAttendanceSummary(filter SummaryFilter, w io.Writer) error
	EquipmentStatus() ([]EquipmentStatusRow, error)
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

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	d, err := h.Service.Dashboard(account)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) TaskProgress(w http.ResponseWriter, r *http.Request) {
	filter := ProgressFilter{}
	if v := r.URL.Query().Get("site_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid site_id")
			return
		}
		filter.SiteID = &id
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.StartDate, filter.EndDate = start, end

	rows, err := h.Service.TaskProgress(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) MaterialUsage(w http.ResponseWriter, r *http.Request) {
	filter := UsageFilter{}
	if v := r.URL.Query().Get("site_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid site_id")
			return
		}
		filter.SiteID = id
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.StartDate, filter.EndDate = start, end

	rows, err := h.Service.MaterialUsage(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := summaryFilterFromQuery(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.Service.AttendanceSummary(*filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) ExportAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := summaryFilterFromQuery(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := fmt.Sprintf("attendance-summary-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.Service.ExportAttendanceSummary(*filter, w); err != nil {
		h.Logger.Error("attendance summary export failed", "error", err)
	}
}

func (h *Handler) EquipmentStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.EquipmentStatus()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func summaryFilterFromQuery(r *http.Request) (*SummaryFilter, error) {
	filter := SummaryFilter{}
	if v := r.URL.Query().Get("site_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid site_id")
		}
		filter.SiteID = &id
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		return nil, err
	}
	filter.StartDate, filter.EndDate = start, end
	return &filter, nil
}

func parseDateRange(r *http.Request) (*internal.Date, *internal.Date, error) {
	var start, end *internal.Date
	if v := r.URL.Query().Get("start_date"); v != "" {
		d, err := internal.ParseDate(v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start_date")
		}
		start = &d
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		d, err := internal.ParseDate(v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end_date")
		}
		end = &d
	}
	return start, end, nil
}
