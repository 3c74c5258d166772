package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/apperr"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

// Option adjusts how Fail maps an error kind to a status.
type Option func(map[apperr.Kind]int)

// Override reports errors of kind with status instead of the default mapping.
func Override(kind apperr.Kind, status int) Option {
	return func(m map[apperr.Kind]int) { m[kind] = status }
}

// Fail writes err using the status of its kind and its reason as the message.
func Fail(w http.ResponseWriter, err error, opts ...Option) {
	statuses := map[apperr.Kind]int{
		apperr.KindValidation:     http.StatusBadRequest,
		apperr.KindConflict:       http.StatusConflict,
		apperr.KindNotFound:       http.StatusNotFound,
		apperr.KindAuthentication: http.StatusUnauthorized,
		apperr.KindAuthorization:  http.StatusUnauthorized,
		apperr.KindInternal:       http.StatusInternalServerError,
	}
	for _, opt := range opts {
		opt(statuses)
	}
	status := StatusOf(err, statuses)
	Error(w, status, apperr.ReasonOf(err, http.StatusText(status)))
}

// StatusOf returns the status mapped to the kind of err, or 500 when unmapped.
func StatusOf(err error, statuses map[apperr.Kind]int) int {
	if status, ok := statuses[apperr.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusNoContent {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("respond: encode payload failed", zap.Error(err))
	}
}
