// Package errors provides custom error types for the planbook API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Master data errors.
var (
	ErrProductNotFound  = &AppError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found", StatusCode: http.StatusNotFound}
	ErrEmployeeNotFound = &AppError{Code: "EMPLOYEE_NOT_FOUND", Message: "Employee not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Expense category not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetNotFound         = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudgetYear    = &AppError{Code: "DUPLICATE_BUDGET_YEAR", Message: "A budget for this year already exists", StatusCode: http.StatusConflict}
	ErrBudgetNotReady         = &AppError{Code: "BUDGET_NOT_READY", Message: "Budget has incomplete sections and cannot be finalized", StatusCode: http.StatusUnprocessableEntity}
	ErrBudgetAlreadyFinalized = &AppError{Code: "BUDGET_ALREADY_FINALIZED", Message: "Budget is already finalized", StatusCode: http.StatusConflict}
	ErrBudgetNotFinalized     = &AppError{Code: "BUDGET_NOT_FINALIZED", Message: "Only a finalized budget can be reverted", StatusCode: http.StatusConflict}
)

// Entry errors.
var (
	ErrGrowthEntryNotFound     = &AppError{Code: "GROWTH_ENTRY_NOT_FOUND", Message: "Growth entry not found", StatusCode: http.StatusNotFound}
	ErrCapacityEntryNotFound   = &AppError{Code: "CAPACITY_ENTRY_NOT_FOUND", Message: "Capacity entry not found", StatusCode: http.StatusNotFound}
	ErrCollectionEntryNotFound = &AppError{Code: "COLLECTION_ENTRY_NOT_FOUND", Message: "Collection entry not found", StatusCode: http.StatusNotFound}
	ErrResultEntryNotFound     = &AppError{Code: "RESULT_ENTRY_NOT_FOUND", Message: "Result entry not found", StatusCode: http.StatusNotFound}
	ErrPersonnelEntryNotFound  = &AppError{Code: "PERSONNEL_ENTRY_NOT_FOUND", Message: "Personnel entry not found", StatusCode: http.StatusNotFound}
	ErrExpenseEntryNotFound    = &AppError{Code: "EXPENSE_ENTRY_NOT_FOUND", Message: "Expense entry not found", StatusCode: http.StatusNotFound}
	ErrHireNotFound            = &AppError{Code: "HIRE_NOT_FOUND", Message: "Capacity hire not found", StatusCode: http.StatusNotFound}
	ErrPatternNotFound         = &AppError{Code: "PATTERN_NOT_FOUND", Message: "Collection pattern not found", StatusCode: http.StatusNotFound}
)

// Computation and validation errors.
var (
	ErrUnsupportedTrendline = &AppError{Code: "UNSUPPORTED_TRENDLINE", Message: "Unsupported trendline type or polynomial order", StatusCode: http.StatusBadRequest}
	ErrAllocationSumInvalid = &AppError{Code: "ALLOCATION_SUM_INVALID", Message: "Allocation percentages must sum to 100", StatusCode: http.StatusBadRequest}
	ErrMethodValueMissing   = &AppError{Code: "METHOD_VALUE_MISSING", Message: "The selected method has no computed value", StatusCode: http.StatusBadRequest}
)
