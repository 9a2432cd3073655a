package http

import (
	"encoding/json"
	"net/http"

	apperrors "hitcounter/pkg/errors"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the acknowledgement body of the ingest endpoint.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteText(w http.ResponseWriter, statusCode int, body string) error {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(body))
	return err
}

// WriteError writes {"error": message}. Causes wrapped in an AppError are
// never exposed; anything that is not an AppError becomes a generic 500.
func WriteError(w http.ResponseWriter, err error) error {
	if !apperrors.IsAppError(err) {
		return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
		})
	}

	appErr := apperrors.AsAppError(err)
	statusCode := appErr.StatusCode()
	if statusCode == 0 {
		statusCode = statusFromCode(appErr.Code)
	}

	return WriteJSON(w, statusCode, ErrorResponse{
		Error: appErr.Message,
	})
}

func statusFromCode(code string) int {
	switch code {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func WriteStatus(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, StatusResponse{Success: true, Message: message})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
