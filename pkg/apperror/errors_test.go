package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthMessageKnownCodes(t *testing.T) {
	assert.Equal(t, "Invalid email or password", AuthMessage(AuthCodeInvalidCredentials))
	assert.Equal(t, "An account with that email already exists", AuthMessage(AuthCodeEmailExists))
	assert.Equal(t, "Your session has expired, please sign in again", AuthMessage(AuthCodeTokenExpired))
}

func TestAuthMessageUnrecognizedCodeFallsBack(t *testing.T) {
	assert.Equal(t, "Authentication failed, please try again", AuthMessage("auth/some-new-code"))
	assert.Equal(t, "Authentication failed, please try again", AuthMessage(""))
}

func TestNewAuthError(t *testing.T) {
	err := NewAuthError(http.StatusUnauthorized, AuthCodeInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, err.Code)
	assert.Equal(t, "Invalid email or password", err.Message)
}

func TestGetAppErrorWrapsUnknownErrors(t *testing.T) {
	err := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Equal(t, "boom", err.Message)
}

func TestGetAppErrorPassesThrough(t *testing.T) {
	appErr := NewNotFoundError("Product")
	got := GetAppError(appErr)
	assert.Same(t, appErr, got)
	assert.Equal(t, "Product not found", got.Message)
}
