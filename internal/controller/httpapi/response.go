package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code     string  `json:"code"`
	Message  string  `json:"message"`
	Field    string  `json:"field,omitempty"`
	EventIDs []int64 `json:"event_ids,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeError переводит доменную ошибку в HTTP-статус
func writeError(log *zap.Logger, w http.ResponseWriter, err error) {
	code, body := classify(err)
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Int("status", code), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Error: body})
}

func classify(err error) (int, *apiError) {
	var (
		conflict *availability.ConflictError
		schedule *availability.InvalidScheduleError
		invalid  *service.ValidationError
	)

	switch {
	case errors.As(err, &conflict):
		return http.StatusConflict, &apiError{Code: "conflict", Message: err.Error(), EventIDs: conflict.EventIDs}
	case errors.As(err, &schedule):
		return http.StatusUnprocessableEntity, &apiError{Code: "invalid_schedule", Message: err.Error(), Field: schedule.Field}
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, &apiError{Code: "invalid_input", Message: err.Error(), Field: invalid.Field}
	case errors.Is(err, availability.ErrInvalidRange):
		return http.StatusUnprocessableEntity, &apiError{Code: "invalid_range", Message: err.Error()}
	case errors.Is(err, availability.ErrInvalidDuration):
		return http.StatusUnprocessableEntity, &apiError{Code: "invalid_duration", Message: err.Error()}
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusUnprocessableEntity, &apiError{Code: "invalid_input", Message: err.Error()}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, &apiError{Code: "not_found", Message: err.Error()}
	case errors.Is(err, availability.ErrNoAvailability):
		return http.StatusNotFound, &apiError{Code: "no_availability", Message: err.Error()}
	case errors.Is(err, service.ErrSlotTaken):
		return http.StatusConflict, &apiError{Code: "slot_taken", Message: err.Error()}
	case errors.Is(err, service.ErrSlotUnavailable):
		return http.StatusConflict, &apiError{Code: "slot_unavailable", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, &apiError{Code: "timeout", Message: "request timed out"}
	default:
		return http.StatusInternalServerError, &apiError{Code: "internal", Message: "something went wrong"}
	}
}

// decode читает тело запроса и проверяет теги validate
func decode(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return &service.ValidationError{Field: "body", Reason: "cannot be read"}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &service.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return validateStruct(dst)
}
