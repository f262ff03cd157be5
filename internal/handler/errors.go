package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"personalblog/internal/service"
)

// Response is the envelope of every JSON response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteError sends a failed envelope with message.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, Response{Success: false, Message: message}, statusCode)
}

// WriteSuccess sends data in a successful envelope.
func WriteSuccess(w http.ResponseWriter, data any, statusCode int) {
	writeJSON(w, Response{Success: true, Data: data}, statusCode)
}

func writeMessage(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, Response{Success: true, Message: message}, statusCode)
}

func writeJSON(w http.ResponseWriter, body Response, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// statusFor maps the service error taxonomy to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers with the status matching err. Internal failures
// are logged and hidden behind a generic message.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	switch status {
	case http.StatusInternalServerError:
		h.Logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		WriteError(w, "internal server error", status)
	case http.StatusServiceUnavailable:
		h.Logger.WithError(err).WithField("path", r.URL.Path).Warn("datastore unavailable")
		WriteError(w, "service temporarily unavailable", status)
	default:
		WriteError(w, publicMessage(err), status)
	}
}

var clientErrors = []error{
	service.ErrInvalidInput,
	service.ErrUnauthorized,
	service.ErrForbidden,
	service.ErrNotFound,
	service.ErrConflict,
}

// publicMessage drops the sentinel suffix and any "failed to ..." wrapping,
// so "failed to get post: post with id x: not found" reads
// "post with id x not found".
func publicMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range clientErrors {
		if !errors.Is(err, sentinel) {
			continue
		}
		detail, ok := strings.CutSuffix(msg, ": "+sentinel.Error())
		if !ok {
			return msg
		}
		if i := strings.LastIndex(detail, ": "); i >= 0 {
			detail = detail[i+2:]
		}
		if sentinel == service.ErrNotFound || sentinel == service.ErrConflict {
			return detail + " " + sentinel.Error()
		}
		return detail
	}
	return msg
}
