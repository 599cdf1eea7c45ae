package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/thushan/narrador/internal/core/constants"
	"github.com/thushan/narrador/internal/core/domain"
)

type ModelResponse struct {
	Current    string   `json:"current"`
	Previous   string   `json:"previous,omitempty"`
	Fallbacks  []string `json:"fallbacks"`
	Candidates []string `json:"candidates"`
}

type SetModelRequest struct {
	Model string `json:"model"`
}

func (a *Application) getModelHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.modelResponse(""))
}

// setModelHandler is the admin override. Without a configured admin token the
// route refuses everyone.
func (a *Application) setModelHandler(w http.ResponseWriter, r *http.Request) {
	if !a.isAdmin(r) {
		a.writeError(w, r, http.StatusForbidden, "admin token required", "")
		return
	}

	var req SetModelRequest
	if err := a.decodeBody(w, r, &req); err != nil {
		a.writeError(w, r, http.StatusBadRequest, "invalid request body", `{"model":"<id>"}`)
		return
	}

	previous, err := a.narrator.SetModel(req.Model)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyModelName) {
			a.writeError(w, r, http.StatusBadRequest, err.Error(), "")
			return
		}
		a.writeError(w, r, http.StatusInternalServerError, "could not change model", "")
		return
	}

	a.writeJSON(w, http.StatusOK, a.modelResponse(previous))
}

func (a *Application) isAdmin(r *http.Request) bool {
	configured := a.Config.Server.AdminToken
	if configured == "" {
		return false
	}
	presented := r.Header.Get(constants.HeaderAdminToken)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}

func (a *Application) modelResponse(previous string) ModelResponse {
	return ModelResponse{
		Current:    a.narrator.Model(),
		Previous:   previous,
		Fallbacks:  a.narrator.FallbackModels(),
		Candidates: a.narrator.Candidates(),
	}
}
