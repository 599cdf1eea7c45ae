package handlers

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/thushan/narrador/internal/core/constants"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorResponse struct {
	Error     string `json:"error"`
	Hint      string `json:"hint,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (a *Application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("Failed to encode response", "error", err)
	}
}

func (a *Application) writeError(w http.ResponseWriter, r *http.Request, status int, message, hint string) {
	a.writeJSON(w, status, errorResponse{
		Error:     message,
		Hint:      hint,
		RequestID: requestIDFrom(r.Context()),
	})
}

// decodeBody reads a bounded JSON body into v
func (a *Application) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := r.Body
	if limit := a.Config.Server.RequestLimits.MaxBodySize; limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	return json.NewDecoder(body).Decode(v)
}
