package api

import (
	"errors"
	"log/slog"
	"net/http"

	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/pkg/httputil"
)

type errorMapping struct {
	err     error
	status  int
	message string
	// Validation failures carry the field messages to the client
	withDetails bool
}

// Checked in order, first match wins
var errorMappings = []errorMapping{
	{errorvalues.ErrValidation, http.StatusBadRequest, "validation failed", true},
	{errorvalues.ErrNothingToUpdate, http.StatusBadRequest, "at least one field must be provided", false},
	{errorvalues.ErrInvalidDateRange, http.StatusBadRequest, "invalid date range", false},
	{errorvalues.ErrWrongCredentials, http.StatusUnauthorized, "invalid credentials", false},
	{errorvalues.ErrWrongOwner, http.StatusForbidden, "habit belongs to another user", false},
	{errorvalues.ErrHabitNotFound, http.StatusNotFound, "habit not found", false},
	{errorvalues.ErrUserNotFound, http.StatusNotFound, "user not found", false},
	{errorvalues.ErrUserExists, http.StatusConflict, "user already exists", false},
	{errorvalues.ErrEmailInUse, http.StatusConflict, "email already in use", false},
	{errorvalues.ErrAlreadyLoggedToday, http.StatusConflict, "habit already logged today", false},
}

// writeServiceError answers with the status mapped from err. Unmapped
// errors are logged and answered with a generic 500 naming only the
// operation.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		logger.Warn(op+" error", slog.String("error", err.Error()))
		var details error
		if m.withDetails {
			details = err
		}
		httputil.WriteErrorResponse(w, m.status, m.message, details)
		return
	}
	logger.Error(op+" error: service error", slog.String("error", err.Error()))
	httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during "+op, nil)
}
