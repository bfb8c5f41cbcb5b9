package testutil

import (
	"errors"
	"testing"

	apperrors "planbook/internal/errors"
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

// AssertFloatPtr fails the test when the pointer is nil or its value differs
// from want by more than epsilon.
func AssertFloatPtr(t *testing.T, got *float64, want, epsilon float64) {
	t.Helper()

	if got == nil {
		t.Fatalf("expected %v, got nil", want)
	}
	diff := *got - want
	if diff > epsilon || diff < -epsilon {
		t.Errorf("expected %v, got %v", want, *got)
	}
}
