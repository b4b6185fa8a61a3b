package api

import (
	"encoding/json"
	"net/http"
	"time"

	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    string(constants.APIStatusSuccess),
		RequestID: w.Header().Get("X-Request-ID"),
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	writeJSON(w, statusCode, resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	resp := responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		RequestID: w.Header().Get("X-Request-ID"),
		Timestamp: time.Now().UTC(),
		Error:     message,
	}
	writeJSON(w, statusCode, resp)
}

// respondWithErrorData is respondWithError with a payload, used when the
// caller needs the partial result that led to the failure.
func respondWithErrorData[T any](w http.ResponseWriter, statusCode int, message string, data *T) {
	resp := responses.APIResponse[T]{
		Status:    string(constants.APIStatusError),
		RequestID: w.Header().Get("X-Request-ID"),
		Timestamp: time.Now().UTC(),
		Error:     message,
		Data:      data,
	}
	writeJSON(w, statusCode, resp)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
