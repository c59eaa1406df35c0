package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable      = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrEmailNotVerified   = &AppError{Code: http.StatusForbidden, Message: "Email not verified"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// Auth error codes returned by the authentication layer. Handlers map
// these to stable human-readable messages so clients never see raw
// provider or database errors.
const (
	AuthCodeInvalidCredentials = "auth/invalid-credentials"
	AuthCodeUserNotFound       = "auth/user-not-found"
	AuthCodeEmailExists        = "auth/email-already-in-use"
	AuthCodeUsernameExists     = "auth/username-already-in-use"
	AuthCodeWeakPassword       = "auth/weak-password"
	AuthCodeTokenExpired       = "auth/token-expired"
	AuthCodeInvalidToken       = "auth/invalid-token"
	AuthCodeAccountDisabled    = "auth/account-disabled"
	AuthCodeOAuthFailed        = "auth/oauth-failed"
	AuthCodeNotTenantMember    = "auth/not-a-member"
)

var authMessages = map[string]string{
	AuthCodeInvalidCredentials: "Invalid email or password",
	AuthCodeUserNotFound:       "No account found for that email",
	AuthCodeEmailExists:        "An account with that email already exists",
	AuthCodeUsernameExists:     "That username is already taken",
	AuthCodeWeakPassword:       "Password must be at least 8 characters",
	AuthCodeTokenExpired:       "Your session has expired, please sign in again",
	AuthCodeInvalidToken:       "Invalid or malformed token",
	AuthCodeAccountDisabled:    "This account has been disabled",
	AuthCodeOAuthFailed:        "Sign-in with the external provider failed",
	AuthCodeNotTenantMember:    "You are not a member of this store",
}

// AuthMessage returns the human-readable message for an auth error code.
// Unrecognized codes get a generic fallback rather than leaking internals.
func AuthMessage(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return "Authentication failed, please try again"
}

// NewAuthError creates an AppError from an auth error code
func NewAuthError(status int, code string) *AppError {
	return &AppError{
		Code:    status,
		Message: AuthMessage(code),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
