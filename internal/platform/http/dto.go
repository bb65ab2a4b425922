package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/upisafe/fraud-registry/internal/domain"
	"github.com/upisafe/fraud-registry/internal/service"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type SubmitReportRequest struct {
	Identifier  string   `json:"identifier" validate:"required"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Category    string   `json:"category" validate:"required"`
	Severity    int      `json:"severity" validate:"required,min=1,max=5"`
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	ReportedBy  string   `json:"reported_by,omitempty" validate:"omitempty,max=120"`
}

func (r *SubmitReportRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("field %q failed on %q", f.Field(), f.Tag())
		}
		return err
	}

	if _, ok := domain.NormalizeCategory(r.Category); !ok {
		return fmt.Errorf("invalid category %q", r.Category)
	}

	return nil
}

// Payload converts the request into the engine's submission input.
func (r *SubmitReportRequest) Payload() service.ReportPayload {
	return service.ReportPayload{
		Description: r.Description,
		Category:    r.Category,
		Severity:    r.Severity,
		Amount:      r.Amount,
		ReportedBy:  r.ReportedBy,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}
