package common

import (
	"encoding/json"
	"net/http"
)

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes the widget boundary's success envelope: {"success":true,
// "data":...}. The storefront script switches on the success flag alone.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

// Failure writes the widget boundary's failure envelope. Clients treat any
// failure the same as a network error and degrade to empty state.
func Failure(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{"success": false, "data": map[string]any{"message": message}})
}
