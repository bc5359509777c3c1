package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/cfinsight/pkg/logger"
)

// CompareDependencies defines the interface for head-to-head analysis.
type CompareDependencies interface {
	Compare(ctx context.Context, a, b string) (HeadToHead, error)
}

// CompareHandler handles comparison requests.
type CompareHandler struct {
	deps CompareDependencies
	log  logger.Logger
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps CompareDependencies) *CompareHandler {
	return &CompareHandler{deps: deps, log: logger.Nop()}
}

// HandleGetCompare handles GET /api/v1/compare?a=X&b=Y requests.
func (h *CompareHandler) HandleGetCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_compare"
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	a, b := strings.TrimSpace(q.Get("a")), strings.TrimSpace(q.Get("b"))
	if a == "" || b == "" {
		fail(r, h.log, w, http.StatusBadRequest, "bad_request", MissingPairMessage, NewKind(op, ErrBadRequest))
		return
	}
	result, err := h.deps.Compare(r.Context(), a, b)
	if err != nil {
		fail(r, h.log, w, http.StatusNotFound, "invalid_users", InvalidUsersMessage, WrapKind(op, ErrInvalidUsers, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
