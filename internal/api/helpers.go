// internal/api/helpers.go
package api

import (
	"encoding/json"
	"net/http"
)

// respondWithJSON writes a JSON response with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
