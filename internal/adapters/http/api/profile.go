package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/cfinsight/pkg/logger"
)

// ProfileDependencies defines the interface for single-handle analysis.
type ProfileDependencies interface {
	Analyze(ctx context.Context, handle string) (Report, error)
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps ProfileDependencies
	log  logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps, log: logger.Nop()}
}

// HandleGetProfile handles GET /api/v1/profile/{handle} requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	handle := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/v1/profile/"))
	if handle == "" || strings.Contains(handle, "/") {
		fail(r, h.log, w, http.StatusBadRequest, "bad_request", MissingHandleMessage, NewKind(op, ErrBadRequest))
		return
	}
	report, err := h.deps.Analyze(r.Context(), handle)
	if err != nil {
		fail(r, h.log, w, http.StatusNotFound, "not_found", UserNotFoundMessage(handle), WrapKind(op, ErrNotFound, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
