package validation

import (
	"fmt"
	"log/slog"

	"globecli/internal/errors"
	"globecli/pkg/contracts/domain"
)

// RecordValidator checks presence, type, and numeric sanity of canonical
// fields. It never blocks the pipeline on warnings; only missing required
// fields or an empty dataset are hard errors, and its output is always
// returned to the caller rather than discarded.
type RecordValidator struct {
	logger *slog.Logger
}

// NewRecordValidator creates a record validator.
func NewRecordValidator(logger *slog.Logger) *RecordValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordValidator{logger: logger}
}

// requiredFinancialFields must be present for any ETR calculation.
var requiredFinancialFields = []domain.Field{
	domain.FieldPreTaxIncome,
	domain.FieldCurrentTaxExpense,
}

// entityFields are expected for entity-level reporting; their absence is
// advisory, not fatal.
var entityFields = []domain.Field{
	domain.FieldEntityName,
	domain.FieldTaxResidence,
}

// monetaryFields are sanity-checked for negative values.
var monetaryFields = []domain.Field{
	domain.FieldPreTaxIncome,
	domain.FieldCurrentTaxExpense,
	domain.FieldDeferredTaxExpense,
}

// ValidateFinancial runs the presence pass and the sanity pass over a
// record and combines their results.
func (v *RecordValidator) ValidateFinancial(rec domain.Record, fields domain.FieldSet) domain.ValidationResult {
	result := v.validatePresence(fields).Merge(v.validateSanity(rec, fields))

	v.logger.Debug("validated financial record",
		slog.Bool("is_valid", result.IsValid),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)))

	return result
}

// validatePresence hard-fails on missing required financial fields and
// warns about missing entity fields.
func (v *RecordValidator) validatePresence(fields domain.FieldSet) domain.ValidationResult {
	result := domain.ValidationResult{IsValid: true}

	for _, field := range requiredFinancialFields {
		if !fields.Has(field) {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("missing required field: %s", field))
			result.Suggestions = append(result.Suggestions, fmt.Sprintf("Add %s to the data", field))
		}
	}

	for _, field := range entityFields {
		if !fields.Has(field) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("missing entity field: %s", field))
		}
	}

	return result
}

// validateSanity flags suspicious but usable values. Everything here is a
// warning: the value still flows downstream.
func (v *RecordValidator) validateSanity(rec domain.Record, fields domain.FieldSet) domain.ValidationResult {
	result := domain.ValidationResult{IsValid: true}

	for _, field := range monetaryFields {
		if !fields.Has(field) {
			continue
		}
		if value := rec.NumericValue(field); value < 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("negative value in %s: %g", field, value))
			result.Suggestions = append(result.Suggestions, fmt.Sprintf("Verify %s calculation", field))
		}
	}

	if fields.Has(domain.FieldPreTaxIncome) && rec.PreTaxIncome == 0 {
		result.Warnings = append(result.Warnings, "zero pre_tax_income may cause calculation issues")
		result.Suggestions = append(result.Suggestions, "Verify income calculations")
	}

	if fields.Has(domain.FieldPreTaxIncome) && fields.Has(domain.FieldCurrentTaxExpense) {
		if rec.PreTaxIncome > 0 && rec.CurrentTaxExpense > rec.PreTaxIncome {
			result.Warnings = append(result.Warnings, "tax expense exceeds pre-tax income")
			result.Suggestions = append(result.Suggestions, "Verify tax calculations")
		}
	}

	return result
}

// ValidateEntity checks entity identification data. Missing or empty
// required entity fields are hard errors here, unlike in the financial
// pass where they only warn.
func (v *RecordValidator) ValidateEntity(rec domain.Record, fields domain.FieldSet) domain.ValidationResult {
	result := domain.ValidationResult{IsValid: true}

	if !fields.Has(domain.FieldEntityName) || rec.EntityName == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "entity name must be a non-empty string")
	}
	if !fields.Has(domain.FieldTaxResidence) || rec.TaxResidence == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "tax residence must be a non-empty string")
	}

	return result
}

// RequiredFieldError converts a failed presence check into the pipeline's
// hard error, carrying the first missing field.
func RequiredFieldError(result domain.ValidationResult) error {
	if result.IsValid {
		return nil
	}
	for _, field := range requiredFinancialFields {
		for _, msg := range result.Errors {
			if msg == fmt.Sprintf("missing required field: %s", field) {
				return errors.NewMissingFieldError(string(field))
			}
		}
	}
	return errors.NewAppValidationError(result.Errors[0])
}
