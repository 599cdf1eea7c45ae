package handlers

import (
	"net/http"

	"github.com/thushan/narrador/internal/core/constants"
)

var (
	responseJSON = []byte(`{"status":"healthy"}`)
	responseOK   = []byte("ok")
)

func (a *Application) keepAliveHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeText)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(responseOK)
}

func (a *Application) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(responseJSON)
}
