package domain

import (
	"github.com/go-playground/validator/v10"

	perr "petmis/internal/platform/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Paging limits mirror what the UI data grids can handle
const (
	DefaultLimit = 100
	MaxLimit     = 10_000
)

// ReportRequest carries the filter set shared by every report endpoint.
// Dates arrive as ISO strings and are range-checked later; Skip and Limit
// are clamped by the transport before validation.
type ReportRequest struct {
	StartDate    string `validate:"required,datetime=2006-01-02"`
	EndDate      string `validate:"required,datetime=2006-01-02"`
	CountryCodes string
	Brands       string
	PetTypes     string
	Skip         int `validate:"min=0"`
	Limit        int `validate:"min=1,max=10000"`
	Months       int `validate:"min=0,max=120"`
}

// Validate checks the request shape
func (r ReportRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return perr.Wrap(err, perr.ErrorCodeValidation, "invalid report request")
	}
	return nil
}

// ClampPage bounds Skip and Limit to their legal ranges
func (r *ReportRequest) ClampPage() {
	if r.Skip < 0 {
		r.Skip = 0
	}
	if r.Limit < 1 {
		r.Limit = 1
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
}

// PolicyRequest extends the shared filters with the policy-only knobs
type PolicyRequest struct {
	ReportRequest
	PolicyStatus string
	PolicyType   string `validate:"omitempty,oneof=Yes No All yes no all"`
	DateBasis    string
	Order        string
}

// Validate checks the request shape
func (r PolicyRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return perr.Wrap(err, perr.ErrorCodeValidation, "invalid policy request")
	}
	return nil
}
