package document

import (
	"strings"

	"github.com/rahadianw/siteops/internal"
)

// UploadDTO carries the multipart form fields that accompany the file.
type UploadDTO struct {
	Name        string
	Description *string
	Category    *string
	SiteID      *int64
	ProjectID   *int64
}

func (d UploadDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationFieldError("name", "Document name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
