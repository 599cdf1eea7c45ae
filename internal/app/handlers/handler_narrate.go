package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/thushan/narrador/internal/core/constants"
	"github.com/thushan/narrador/internal/core/domain"
	"github.com/thushan/narrador/internal/util"
)

type NarrateRequest struct {
	Text string `json:"text"`
}

// NarrateResponse mirrors the orchestration result. ok=false is still a 200:
// the diagnostic in Text is meant to be shown to the player.
type NarrateResponse struct {
	Model     *string `json:"model"`
	Text      string  `json:"text"`
	RequestID string  `json:"request_id"`
	Latency   string  `json:"latency"`
	Attempts  int     `json:"attempts"`
	OK        bool    `json:"ok"`
}

func (a *Application) narrateHandler(w http.ResponseWriter, r *http.Request) {
	var req NarrateRequest
	if err := a.decodeBody(w, r, &req); err != nil {
		a.writeError(w, r, http.StatusBadRequest, "invalid request body", constants.NarrateUsage)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		a.writeError(w, r, http.StatusBadRequest, "text is required", constants.NarrateUsage)
		return
	}

	requestID := requestIDFrom(r.Context())
	log := a.logger.WithRequestID(requestID)

	result, err := a.narrator.Narrate(r.Context(), text)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			log.Error("Narration refused", "error", err)
			a.writeError(w, r, http.StatusServiceUnavailable, err.Error(), "")
			return
		}
		log.Error("Narration failed", "error", err)
		a.writeError(w, r, http.StatusInternalServerError, "narration failed", "")
		return
	}

	resp := NarrateResponse{
		OK:        result.OK,
		Text:      util.TruncateDisplay(result.Text),
		Attempts:  result.Attempts,
		Latency:   result.Latency.String(),
		RequestID: requestID,
	}
	if result.OK {
		model := result.Model
		resp.Model = &model
		log.InfoWithModel("Narrated with", model, "attempts", result.Attempts, "latency", result.Latency)
	} else {
		log.Warn("Narration exhausted all candidates", "attempts", result.Attempts)
	}

	a.writeJSON(w, http.StatusOK, resp)
}
