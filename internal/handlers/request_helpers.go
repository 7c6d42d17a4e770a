package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"foodapp/internal/mailer"
	"foodapp/internal/services"
	"foodapp/internal/storage"
)

var errInvalidBody = errors.New("invalid request body")

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Error().Str("route", route).Interface("panic", r).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	event := log.Info()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Str("route", route).Int("status", status).Msg(message)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respondError is the single place service errors become HTTP statuses.
func respondError(c *gin.Context, route string, err error) {
	var svcErr *services.Error
	message := err.Error()
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	switch {
	case errors.Is(err, errInvalidBody):
		respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
	case errors.Is(err, storage.ErrUploadRejected):
		respondWithError(c, http.StatusBadRequest, route, strings.TrimPrefix(message, storage.ErrUploadRejected.Error()+": "))
	case errors.Is(err, services.ErrMissingRequiredField),
		errors.Is(err, services.ErrInvalidFormat),
		errors.Is(err, services.ErrInvalidAddressFormat),
		errors.Is(err, services.ErrDuplicateKey),
		errors.Is(err, services.ErrInvalidStateTransition):
		respondWithError(c, http.StatusBadRequest, route, message)
	case errors.Is(err, services.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, message)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(c, http.StatusUnauthorized, route, message)
	case errors.Is(err, services.ErrForbidden):
		respondWithError(c, http.StatusForbidden, route, message)
	case errors.Is(err, mailer.ErrDisabled):
		respondWithError(c, http.StatusServiceUnavailable, route, "Email service is not configured")
	case errors.Is(err, mailer.ErrInvalidMessage):
		respondWithError(c, http.StatusBadRequest, route, "To, subject and text are required")
	case errors.Is(err, services.ErrAllocationExhausted):
		respondWithError(c, http.StatusInternalServerError, route, message)
	default:
		log.Error().Err(err).Str("route", route).Msg("unexpected failure")
		respondWithError(c, http.StatusInternalServerError, route, "Internal server error")
	}
}

// respondValidationError reports binding failures one field at a time.
func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldError := validationErrors[0]
		field := lowerCamel(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			respondWithError(c, http.StatusBadRequest, route, fmt.Sprintf("%s is required", field))
		default:
			respondWithError(c, http.StatusBadRequest, route, fmt.Sprintf("%s is invalid", field))
		}
		return
	}

	respondWithError(c, http.StatusBadRequest, route, "Invalid request body")
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
