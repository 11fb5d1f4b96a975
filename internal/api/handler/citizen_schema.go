package handler

import (
	"time"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// dateLayout is the wire format for calendar dates (request and collection).
const dateLayout = "2006-01-02"

// createRequestRequest is the citizen's pickup submission. The association is
// chosen here and cannot be changed later.
type createRequestRequest struct {
	AssociationID int64  `json:"association_id" validate:"required,gt=0"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	References    string `json:"references"`
	Materials     string `json:"materials" validate:"required"`
	Comments      string `json:"comments"`
	RequestDate   string `json:"request_date" validate:"required"`
}

// parseDate validates a wire date and reports failures through the same
// field→message channel the validator uses.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{
			Fields: map[string]string{field: field + " must be a date in YYYY-MM-DD format"},
		}
	}
	return t, nil
}
