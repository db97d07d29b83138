package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
)

// TestMapDomainErrorSentinels tests that wrapped domain sentinels map to
// their codes via errors.Is, regardless of message decoration
func TestMapDomainErrorSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       string
		httpStatus int
	}{
		{"terminal state", fmt.Errorf("%w: completed", domain.ErrTerminalState), CodeTerminalState, http.StatusConflict},
		{"invalid transition", fmt.Errorf("%w from idle to on_break", domain.ErrInvalidTransition), CodeInvalidTransition, http.StatusConflict},
		{"visit already open", fmt.Errorf("%w for site SITE-A", domain.ErrVisitAlreadyOpen), CodeVisitAlreadyOpen, http.StatusConflict},
		{"no open visit", domain.ErrNoOpenVisit, CodeNoOpenVisit, http.StatusConflict},
		{"break already open", domain.ErrBreakAlreadyOpen, CodeBreakAlreadyOpen, http.StatusConflict},
		{"no open break", domain.ErrNoOpenBreak, CodeNoOpenBreak, http.StatusConflict},
		{"non-monotonic", fmt.Errorf("%w: enter precedes exit", domain.ErrNonMonotonicTimestamp), CodeNonMonotonicTimestamp, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapDomainError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.httpStatus, appErr.HTTPStatus)
		})
	}
}

// TestMapDomainErrorMessagePatterns tests the message fallback for errors
// that arrive without a sentinel in their chain
func TestMapDomainErrorMessagePatterns(t *testing.T) {
	appErr := MapDomainError(fmt.Errorf("worker already has an active shift"))
	require.NotNil(t, appErr)
	assert.Equal(t, CodeShiftAlreadyActive, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)

	appErr = MapDomainError(fmt.Errorf("shift not found"))
	require.NotNil(t, appErr)
	assert.Equal(t, CodeNotFound, appErr.Code)
}

// TestMapDomainErrorPassthrough tests that an AppError maps to itself and nil
// maps to nil
func TestMapDomainErrorPassthrough(t *testing.T) {
	original := ErrConflict("duplicate")
	assert.Same(t, original, MapDomainError(original))
	assert.Nil(t, MapDomainError(nil))
}
