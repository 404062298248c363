package web

// errors.go turns service errors into JSON error responses.
//
// Every error goes through core.MapError, so the client sees a stable code
// and a suggested action while the technical error is logged server-side
// with the request id for correlation.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/rateaudit/internal/core"
	"github.com/JonMunkholm/rateaudit/internal/logging"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the JSON body of every error response.
// AvailableHeaders and MissingFields are only set for MAP001.
type ErrorResponse struct {
	Error            string   `json:"error"`
	Message          string   `json:"message"`
	Action           string   `json:"action,omitempty"`
	Code             string   `json:"code"`
	AvailableHeaders []string `json:"available_headers,omitempty"`
	MissingFields    []string `json:"missing_fields,omitempty"`
}

// statusForCode maps an error code to its HTTP status. Unknown codes are 500.
func statusForCode(code string) int {
	switch code {
	case "MAP001", "SET001", "REQ001", "FILE002", "FILE004", "FILE005", "UPL004":
		return http.StatusBadRequest
	case "FILE001":
		return http.StatusRequestEntityTooLarge
	case "STG001":
		return http.StatusNotFound
	case "RATE001":
		return http.StatusTooManyRequests
	case "UPL002":
		return http.StatusServiceUnavailable
	case "UPL005":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped JSON error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)
	status := statusForCode(msg.Code)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	respondErrorJSON(w, msg, err, status)
}

// respondErrorJSON writes a JSON error response. When err carries a
// MissingMappingError the available headers and missing fields are included.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, err error, status int) {
	body := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}

	var mm *core.MissingMappingError
	if errors.As(err, &mm) {
		body.AvailableHeaders = mm.Available
		body.MissingFields = make([]string, len(mm.Fields))
		for i, f := range mm.Fields {
			body.MissingFields[i] = string(f)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
