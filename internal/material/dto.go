package material

import (
	"strings"

	"github.com/rahadianw/siteops/internal"
)

type CreateMaterialDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Unit        string  `json:"unit"`
	Category    *string `json:"category"`
}

func (d CreateMaterialDTO) Validate() error {
	var errs internal.ValidationErrors

	if strings.TrimSpace(d.Name) == "" {
		errs.Add("name", "material name is required")
	}
	if strings.TrimSpace(d.Unit) == "" {
		errs.Add("unit", "unit is required")
	}

	return errs.ErrorOrNil()
}

type TransactionDTO struct {
	SiteID          int64    `json:"site_id"`
	MaterialID      int64    `json:"material_id"`
	TransactionType string   `json:"transaction_type"`
	Quantity        float64  `json:"quantity"`
	UnitPrice       *float64 `json:"unit_price"`
	Supplier        *string  `json:"supplier"`
	Notes           *string  `json:"notes"`
}

func (d TransactionDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.SiteID <= 0 {
		errs.Add("site_id", "site ID is required")
	}
	if d.MaterialID <= 0 {
		errs.Add("material_id", "material ID is required")
	}
	if !ValidTransactionType(d.TransactionType) {
		errs.Add("transaction_type", "invalid transaction type")
	}
	if d.Quantity <= 0 {
		errs.Add("quantity", "quantity must be positive")
	}

	return errs.ErrorOrNil()
}

type RequisitionDTO struct {
	SiteID     int64   `json:"site_id"`
	MaterialID int64   `json:"material_id"`
	Quantity   float64 `json:"quantity"`
	Notes      *string `json:"notes"`
}

func (d RequisitionDTO) Validate() error {
	var errs internal.ValidationErrors

	if d.SiteID <= 0 {
		errs.Add("site_id", "site ID is required")
	}
	if d.MaterialID <= 0 {
		errs.Add("material_id", "material ID is required")
	}
	if d.Quantity <= 0 {
		errs.Add("quantity", "quantity must be positive")
	}

	return errs.ErrorOrNil()
}

type DecisionDTO struct {
	Status string `json:"status"`
}

func (d DecisionDTO) Validate() error {
	if d.Status != RequisitionApproved && d.Status != RequisitionRejected {
		return internal.NewValidationFieldError("status", "status must be approved or rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}
