package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rahadianw/siteops/internal/transport"
	"github.com/rahadianw/siteops/pkg/logger"
)

type ServiceAPI interface {
	List(filter Filter) ([]Entry, error)
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

// List serves the audit trail. Admin only; router-gated.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := Filter{EntityType: r.URL.Query().Get("entity_type")}
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter.UserID = &id
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	entries, err := h.Service.List(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}
