package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	plain := NewAppError(ErrTypeParsing, "bad input", nil)
	assert.Equal(t, "[PARSING] bad input", plain.Error())

	wrapped := NewAppError(ErrTypeParsing, "bad input", fmt.Errorf("line 3"))
	assert.Equal(t, "[PARSING] bad input: line 3", wrapped.Error())
}

func TestIsType(t *testing.T) {
	err := NewCalculationError("pre_tax_income must be positive")
	assert.True(t, IsType(err, ErrTypeCalculation))
	assert.False(t, IsType(err, ErrTypeParsing))

	// Works through wrapping.
	wrapped := fmt.Errorf("processing failed: %w", err)
	assert.True(t, IsType(wrapped, ErrTypeCalculation))

	assert.False(t, IsType(fmt.Errorf("plain"), ErrTypeCalculation))
	assert.False(t, IsType(nil, ErrTypeCalculation))
}

func TestWithContextAndSuggestions(t *testing.T) {
	err := NewAppError(ErrTypeValidation, "bad record", nil).
		WithContext("row", 3).
		WithSuggestions("Check row 3")

	assert.Equal(t, 3, err.Context["row"])
	assert.Equal(t, []string{"Check row 3"}, err.Suggestions)
}

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing field maps to 400",
			err:        NewMissingFieldError("pre_tax_income"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "MISSING_REQUIRED_FIELD",
		},
		{
			name:       "unsupported format maps to 400",
			err:        NewUnsupportedFormatError("unknown format"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "UNSUPPORTED_FORMAT",
		},
		{
			name:       "calculation precondition maps to 422",
			err:        NewCalculationError("pre_tax_income must be positive"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "CALCULATION_PRECONDITION",
		},
		{
			name:       "repair failure maps to 422",
			err:        NewRepairFailedError("no usable header", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "REPAIR_FAILED",
		},
		{
			name:       "not found maps to 404",
			err:        NewNotFoundError("jurisdiction"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "storage failure maps to 500",
			err:        NewStorageError("write failed", fmt.Errorf("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "STORAGE",
		},
		{
			name:       "plain error maps to 500",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAppError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestFromAppErrorCarriesSuggestions(t *testing.T) {
	apiErr := FromAppError(NewMissingFieldError("pre_tax_income"))
	require.NotEmpty(t, apiErr.Suggestions)
	assert.Contains(t, apiErr.Suggestions, "Add pre_tax_income to the data")
}

func TestFromAppErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("batch row 2: %w", NewCalculationError("zero income"))
	apiErr := FromAppError(wrapped)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "zero income", apiErr.Message)
}
