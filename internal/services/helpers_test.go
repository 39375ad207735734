package services

import (
	"testing"

	"creatorhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
)

func validationDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok, "details should be a field map")
	return details
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}
