package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/etczermerivil/Stay-Scape/internal/apperr"
	"github.com/rs/zerolog/log"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// errorBody is the JSON error shape: a message plus an optional
// field→message map.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// writeError maps an application error onto its status code and JSON body.
// Anything that is not an apperr.Error is a server fault and becomes a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := apperr.As(err); ok {
		writeJSON(w, appErr.StatusCode(), errorBody{Message: appErr.Message, Errors: appErr.Fields})
		return
	}

	log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
	writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Internal Server Error"})
}
