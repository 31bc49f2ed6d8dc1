package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/formdraft/internal/domain"
)

// ValidateRecord checks an imported record before conversion.
// Returns a slice of all validation errors found.
func ValidateRecord(rec *RecordImport) []error {
	var errs []error

	if strings.TrimSpace(rec.ID) == "" {
		errs = append(errs, fmt.Errorf("id is required"))
	}
	if rec.FormData == nil {
		errs = append(errs, fmt.Errorf("formData is required"))
	} else if !domain.IsMeaningful(rec.FormData) {
		errs = append(errs, fmt.Errorf("formData must not be empty"))
	}

	return errs
}

// FormatValidationErrors folds validation errors into one ErrImportFormat.
func FormatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("record validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrImportFormat, msg)
}
