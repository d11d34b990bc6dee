package web

// errors.go turns handler errors into JSON responses.
//
//  1. Handler encounters an error and calls respondError(w, r, err)
//  2. The error is mapped via pro.MapError to a user message with a code
//  3. The code selects the HTTP status unless the handler forces one
//  4. The technical error is logged with the request ID for correlation

import (
	"net/http"

	"github.com/JonMunkholm/procodec/internal/logging"
	"github.com/JonMunkholm/procodec/internal/pro"
)

// ErrorResponse is the JSON body of every API error.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusByCode maps user message codes to HTTP statuses.
var statusByCode = map[string]int{
	"PRO001": http.StatusUnprocessableEntity,
	"PRO002": http.StatusBadRequest,
	"PRO003": http.StatusUnprocessableEntity,
	"PRO004": http.StatusUnprocessableEntity,
	"PRO005": http.StatusUnprocessableEntity,
	"PRO006": http.StatusUnprocessableEntity,
	"PRO007": http.StatusRequestEntityTooLarge,
	"IMP001": http.StatusServiceUnavailable,
	"IMP002": http.StatusServiceUnavailable,
	"IMP003": http.StatusBadRequest,
}

// statusFor returns the HTTP status for a user message code.
func statusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes its user message. A zero statusCode
// derives the status from the message code.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := pro.MapError(err)
	if statusCode == 0 {
		statusCode = statusFor(userMsg.Code)
	}

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError && statusCode != http.StatusServiceUnavailable {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if statusCode == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	writeJSON(w, statusCode, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}
