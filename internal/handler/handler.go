package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pricebench/internal/model"
	"pricebench/internal/pricing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to tell the client.
		return
	}
}

// elapsedMs is the time since start in milliseconds, rounded to 2 places.
func elapsedMs(start time.Time) float64 {
	return pricing.Round(float64(time.Since(start).Nanoseconds())/1e6, 2)
}

// writeError writes the standard error body.
func writeError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code, message string,
	details map[string]any,
	start time.Time,
	logger zerolog.Logger,
) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:            code,
		Message:          message,
		Status:           model.StatusError,
		Details:          details,
		ProcessingTimeMs: elapsedMs(start),
		CorrelationID:    chimw.GetReqID(r.Context()),
	})
}

// writeDomainError maps err to its HTTP status and writes it. Errors that
// are not domain errors are reported as internal without leaking their text.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, start time.Time, logger zerolog.Logger) {
	var domainErr model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("unexpected error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError,
			"internal server error", nil, start, logger)
		return
	}

	status := statusFor(domainErr.Code())
	message := domainErr.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		message = "failed to process request"
	}

	writeError(w, r, status, domainErr.Code(), message, domainErr.Details(), start, logger)
}

// statusFor returns the HTTP status of an error category.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeInvalidJSON, model.ErrCodeInvalidParameter:
		return http.StatusBadRequest
	case model.ErrCodeCustomerNotFound, model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeCreditLimitExceeded, model.ErrCodeRegionalVerification:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
