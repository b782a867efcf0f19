package apperrors

import (
	"net/http"
)

// Domain error factories and predefined values shared by the services.

// ErrNotFound converts a repository not-found error (e.g.
// gorm.ErrRecordNotFound) into an AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrStoreUnavailable marks a failed round-trip to the database so the
// handler can distinguish infrastructure faults from business rejections.
func ErrStoreUnavailable(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "store", "Persistent store unavailable", http.StatusServiceUnavailable)
}

// --- Connection workflow ---

// ErrDuplicateRequest: a pending request already exists for the pair.
var ErrDuplicateRequest = New(
	CodeConflict,
	"connection",
	"Connection request already sent and pending",
	http.StatusConflict,
)

// ErrAlreadyConnected: the pair already has an accepted request.
var ErrAlreadyConnected = New(
	CodeAlreadyExists,
	"connection",
	"Already connected with this supplier",
	http.StatusConflict,
)

// ErrNotFoundOrUnauthorized: the status update matched zero rows. Either the
// request id does not exist or the caller is not the addressed supplier; the
// two cases are deliberately indistinguishable.
var ErrNotFoundOrUnauthorized = New(
	CodeNotFound,
	"connection",
	"Connection request not found or unauthorized",
	http.StatusNotFound,
)

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"User with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"auth",
	"Operation is not available for this user role",
	http.StatusBadRequest,
)
