package document

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/transport"
	"github.com/rahadianw/siteops/pkg/logger"
)

type ServiceAPI interface {
	List(filter Filter) ([]Document, error)
	Get(id int64) (*Document, error)
	Upload(actor *auth.Account, dto UploadDTO, filename string, fileType string, r io.Reader) (*Document, error)
	Download(id int64) (*Document, io.ReadCloser, error)
	Delete(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	// maxUploadBytes caps the multipart body size.
	maxUploadBytes int64
}

func NewHandler(svc ServiceAPI, maxUploadBytes int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(lg),
		Service:        svc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := Filter{Category: r.URL.Query().Get("category")}
	if v := r.URL.Query().Get("site_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid site_id")
			return
		}
		filter.SiteID = &id
	}
	if v := r.URL.Query().Get("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid project_id")
			return
		}
		filter.ProjectID = &id
	}

	docs, err := h.Service.List(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, docs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	d, err := h.Service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "file too large or malformed form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	dto := UploadDTO{Name: r.FormValue("name")}
	if v := r.FormValue("description"); v != "" {
		dto.Description = &v
	}
	if v := r.FormValue("category"); v != "" {
		dto.Category = &v
	}
	if v := r.FormValue("site_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid site_id")
			return
		}
		dto.SiteID = &id
	}
	if v := r.FormValue("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid project_id")
			return
		}
		dto.ProjectID = &id
	}

	d, err := h.Service.Upload(account, dto, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	d, rc, err := h.Service.Download(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	if d.FileType != "" {
		w.Header().Set("Content-Type", d.FileType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(d.FileSize, 10))

	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("document stream failed", "document_id", id, "error", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}
