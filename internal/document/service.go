package document

import (
	"io"
	"log/slog"
	"os"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
)

type Service struct {
	repo   Repository
	store  Store
	logger *slog.Logger
}

func NewService(repo Repository, store Store, logger *slog.Logger) *Service {
	return &Service{repo: repo, store: store, logger: logger}
}

func (s *Service) List(filter Filter) ([]Document, error) {
	return s.repo.List(filter)
}

func (s *Service) Get(id int64) (*Document, error) {
	d, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, internal.NewNotFoundError("Document not found", internal.ErrCodeNotFound)
	}
	return d, nil
}

// Upload stores the payload first, then the metadata row. The file is
// removed again when the row cannot be written.
func (s *Service) Upload(actor *auth.Account, dto UploadDTO, filename string, fileType string, r io.Reader) (*Document, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if !AllowedExtension(filename) {
		return nil, internal.NewValidationFieldError("file", "Invalid file type", internal.ErrCodeValidationFailed)
	}

	path, size, err := s.store.Save(filename, r)
	if err != nil {
		s.logger.Error("store upload failed", "error", err, "filename", filename)
		return nil, internal.NewInternalError("failed to store file", err)
	}

	d := &Document{
		SiteID:      dto.SiteID,
		ProjectID:   dto.ProjectID,
		Name:        dto.Name,
		FilePath:    path,
		FileType:    fileType,
		FileSize:    size,
		Category:    dto.Category,
		Description: dto.Description,
		UploadedBy:  actor.ID,
	}
	if err := s.repo.Create(d); err != nil {
		if rerr := s.store.Remove(path); rerr != nil {
			s.logger.Warn("orphaned upload left on disk", "path", path, "error", rerr)
		}
		s.logger.Error("create document failed", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("document uploaded", "document_id", d.ID, "name", d.Name, "size", size, "uploaded_by", actor.ID)
	return d, nil
}

// Download resolves the metadata and opens the payload. The caller owns
// the returned reader.
func (s *Service) Download(id int64) (*Document, io.ReadCloser, error) {
	d, err := s.repo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}
	if d == nil {
		return nil, nil, internal.NewNotFoundError("Document not found", internal.ErrCodeNotFound)
	}

	rc, err := s.store.Open(d.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, internal.NewNotFoundError("File not found on server", internal.ErrCodeNotFound)
		}
		return nil, nil, err
	}
	return d, rc, nil
}

// Delete removes the metadata row and, best effort, the payload.
func (s *Service) Delete(id int64) error {
	d, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if d == nil {
		return internal.NewNotFoundError("Document not found", internal.ErrCodeNotFound)
	}

	if err := s.store.Remove(d.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("document file removal failed", "document_id", id, "path", d.FilePath, "error", err)
	}

	removed, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return internal.NewNotFoundError("Document not found", internal.ErrCodeNotFound)
	}

	s.logger.Info("document deleted", "document_id", id)
	return nil
}
