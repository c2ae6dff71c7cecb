package testutil

import (
	"errors"
	"testing"

	apperrors "asrama/internal/errors"

	"gorm.io/gorm"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertTransactionCount fails the test unless the ledger holds exactly want rows.
func AssertTransactionCount(t *testing.T, db *gorm.DB, want int64) {
	t.Helper()

	if got := CountTransactions(t, db); got != want {
		t.Errorf("expected %d transactions in ledger, got %d", want, got)
	}
}
