package charts

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/okian/cfinsight/internal/adapters/http/api"
	service "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/pkg/logger"
)

// Dependencies are the service reads chart pages are drawn from.
type Dependencies interface {
	Analyze(ctx context.Context, handle string) (service.Report, error)
	Compare(ctx context.Context, a, b string) (service.HeadToHead, error)
}

// NoTagsMessage is served in place of an empty radar.
const NoTagsMessage = "No tags found."

type renderer interface {
	Render(w io.Writer) error
}

// Handler serves chart pages for iframes on the dashboard.
type Handler struct {
	deps   Dependencies
	cfg    Config
	logger logger.Logger
}

// NewHandler creates a chart handler.
func NewHandler(deps Dependencies, cfg Config, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{deps: deps, cfg: cfg, logger: log}
}

// Register attaches the chart routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/charts/rating", api.MetricsMiddleware(h.HandleRating, "charts_rating"))
	mux.HandleFunc("/charts/activity", api.MetricsMiddleware(h.HandleActivity, "charts_activity"))
	mux.HandleFunc("/charts/topics", api.MetricsMiddleware(h.HandleTopics, "charts_topics"))
	mux.HandleFunc("/charts/compare", api.MetricsMiddleware(h.HandleCompare, "charts_compare"))
}

// HandleRating handles GET /charts/rating?handle=X.
func (h *Handler) HandleRating(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	h.render(w, r, RatingBar(report.Insights.RatingHistogram, h.cfg))
}

// HandleActivity handles GET /charts/activity?handle=X.
func (h *Handler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	h.render(w, r, ActivityScatter(report.Insights.DailyActivity, h.cfg))
}

// HandleTopics handles GET /charts/topics?handle=X.
func (h *Handler) HandleTopics(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	if len(report.Insights.TagFrequency) == 0 {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, NoTagsMessage)
		return
	}
	h.render(w, r, TopicRadar(report.Insights.TagFrequency, h.cfg))
}

// HandleCompare handles GET /charts/compare?a=X&b=Y.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	a, b := strings.TrimSpace(q.Get("a")), strings.TrimSpace(q.Get("b"))
	if a == "" || b == "" {
		http.Error(w, "missing a or b", http.StatusBadRequest)
		return
	}
	result, err := h.deps.Compare(r.Context(), a, b)
	if err != nil {
		http.Error(w, api.InvalidUsersMessage, http.StatusNotFound)
		return
	}
	h.render(w, r, CompareBar(result.Comparison, h.cfg))
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) (service.Report, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return service.Report{}, false
	}
	handle := strings.TrimSpace(r.URL.Query().Get("handle"))
	if handle == "" {
		http.Error(w, "missing handle", http.StatusBadRequest)
		return service.Report{}, false
	}
	report, err := h.deps.Analyze(r.Context(), handle)
	if err != nil {
		http.Error(w, api.UserNotFoundMessage(handle), http.StatusNotFound)
		return service.Report{}, false
	}
	return report, true
}

// render buffers the page so a failed render still yields a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, c renderer) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		h.logger.Error(r.Context(), "chart render failed", logger.String("path", r.URL.Path), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
