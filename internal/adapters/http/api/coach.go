package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/internal/adapters/session"
	"github.com/okian/cfinsight/internal/domain/coach"
	"github.com/okian/cfinsight/pkg/logger"
)

// CoachDependencies defines the interface for coaching requests.
type CoachDependencies interface {
	Coach(ctx context.Context, sessionID, handle string) (string, error)
}

// CoachHandler handles coaching requests.
type CoachHandler struct {
	deps       CoachDependencies
	sessionTTL time.Duration
	log        logger.Logger
}

// NewCoachHandler creates a new coach handler.
func NewCoachHandler(deps CoachDependencies, sessionTTL time.Duration) *CoachHandler {
	return &CoachHandler{deps: deps, sessionTTL: sessionTTL, log: logger.Nop()}
}

type coachRequest struct {
	Handle string `json:"handle"`
}

type coachResponse struct {
	Handle string `json:"handle"`
	Text   string `json:"text"`
}

// HandlePostCoach handles POST /api/v1/coach requests.
func (h *CoachHandler) HandlePostCoach(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_coach"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req coachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(r, h.log, w, http.StatusBadRequest, "bad_request", BadBodyMessage, WrapKind(op, ErrBadRequest, err))
		return
	}
	req.Handle = strings.TrimSpace(req.Handle)
	if req.Handle == "" {
		fail(r, h.log, w, http.StatusBadRequest, "bad_request", MissingHandleMessage, NewKind(op, ErrBadRequest))
		return
	}

	sid := session.Ensure(w, r, h.sessionTTL)
	text, err := h.deps.Coach(r.Context(), sid, req.Handle)
	switch {
	case errors.Is(err, service.ErrNotEnoughData):
		fail(r, h.log, w, http.StatusUnprocessableEntity, "not_enough_data", coach.NotEnoughDataMessage, WrapKind(op, ErrNotEnoughData, err))
	case err != nil:
		fail(r, h.log, w, http.StatusNotFound, "not_found", UserNotFoundMessage(req.Handle), WrapKind(op, ErrNotFound, err))
	default:
		writeJSON(w, http.StatusOK, coachResponse{Handle: req.Handle, Text: text})
	}
}
