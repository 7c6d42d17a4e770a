package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodapp/internal/accesskey"
	"foodapp/internal/mailer"
	"foodapp/internal/services"
	"foodapp/internal/storage"
)

func TestRespondErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing field", &services.Error{Kind: services.ErrMissingRequiredField, Message: "Missing required fields"}, http.StatusBadRequest, "Missing required fields"},
		{"duplicate", &services.Error{Kind: services.ErrDuplicateKey, Field: "email", Message: "This email is already registered with another user"}, http.StatusBadRequest, "This email is already registered with another user"},
		{"state", &services.Error{Kind: services.ErrInvalidStateTransition, Message: "Only rejected notifications can be deleted"}, http.StatusBadRequest, "Only rejected notifications can be deleted"},
		{"not found", &services.Error{Kind: services.ErrNotFound, Message: "User not found"}, http.StatusNotFound, "User not found"},
		{"credentials", &services.Error{Kind: services.ErrInvalidCredentials, Message: "Invalid email or password"}, http.StatusUnauthorized, "Invalid email or password"},
		{"forbidden", &services.Error{Kind: services.ErrForbidden, Message: "Only admins can change roles"}, http.StatusForbidden, "Only admins can change roles"},
		{"upload", fmt.Errorf("%w: image file too large (max 5MB)", storage.ErrUploadRejected), http.StatusBadRequest, "image file too large (max 5MB)"},
		{"exhausted", &services.Error{Kind: accesskey.ErrExhausted, Message: "Could not generate a unique access key, please try again"}, http.StatusInternalServerError, "Could not generate a unique access key, please try again"},
		{"mail disabled", mailer.ErrDisabled, http.StatusServiceUnavailable, "Email service is not configured"},
		{"blank mail fields", fmt.Errorf("send: %w", mailer.ErrInvalidMessage), http.StatusBadRequest, "To, subject and text are required"},
		{"body", errInvalidBody, http.StatusBadRequest, "Invalid request body"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondError(c, "test", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
