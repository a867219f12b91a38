package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// pathID returns the {id} path value with surrounding whitespace removed.
func pathID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}
