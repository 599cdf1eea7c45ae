package handlers

import (
	"net/http"
	"time"
)

type PingResponse struct {
	ServerTime time.Time `json:"server_time"`
	Message    string    `json:"message"`
}

func (a *Application) pingHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, PingResponse{
		Message:    "pong",
		ServerTime: time.Now().UTC(),
	})
}
